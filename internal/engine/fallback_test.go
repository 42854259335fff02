package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yangwenmai/lovenote/internal/model"
)

func TestFallbackCard(t *testing.T) {
	req := model.CardRequest{RecipientName: "Emma", SenderName: "John", Description: "anything"}

	got := FallbackCard(req)

	assert.Len(t, got.LoveNotes, model.LoveNoteCount)
	assert.Contains(t, got.Poem, "Emma")
	assert.Contains(t, got.Poem, "John")
	assert.True(t, strings.HasPrefix(got.Poem, "My dearest Emma,\n"))
	assert.True(t, strings.HasSuffix(got.Poem, "Forever yours, John"))
	assert.Equal(t, "You are my forever, Emma! I love you to the moon and back!", got.ScratchMessage)
	assert.Equal(t, got, FallbackCard(req), "deterministic")
}

func TestFallbackCard_NotesAreNotShared(t *testing.T) {
	got := FallbackCard(model.CardRequest{RecipientName: "A", SenderName: "B"})
	got.LoveNotes[0] = "mutated"

	assert.NotEqual(t, "mutated", FallbackCard(model.CardRequest{}).LoveNotes[0])
}

func TestFallbackLetter(t *testing.T) {
	req := model.LetterRequest{
		LetterType:    model.LetterMissYou,
		RecipientName: "Emma",
		SenderName:    "John",
		Context:       "You are in Lisbon until June & I count the days.",
	}

	got := FallbackLetter(req)

	paragraphs := strings.Split(got.Content, "\n\n")
	assert.Len(t, paragraphs, 4)
	assert.Contains(t, got.Content, req.Context)
	assert.Contains(t, paragraphs[0], "Emma")
	assert.NotContains(t, got.Content, "Dear ")
	assert.Equal(t, got, FallbackLetter(req))
}
