package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yangwenmai/lovenote/internal/model"
)

func TestStubGenerator_Card(t *testing.T) {
	req := model.CardRequest{RecipientName: "Emma", SenderName: "John", Description: "likes art"}
	raw, err := StubGenerator{}.Generate(context.Background(), NewCredential("stub"), BuildCardPrompt(req))
	require.NoError(t, err)

	content, err := ParseCard(raw, "Emma")
	require.NoError(t, err)
	assert.Len(t, content.LoveNotes, model.LoveNoteCount)
}

func TestStubGenerator_LetterMentioningLoveNotes(t *testing.T) {
	req := model.LetterRequest{
		LetterType:    model.LetterLove,
		RecipientName: "Emma",
		SenderName:    "John",
		Context:       "She keeps my love_notes in a shoebox.",
	}.Normalize()

	raw, err := StubGenerator{}.Generate(context.Background(), NewCredential("stub"), BuildLetterPrompt(req))
	require.NoError(t, err)

	assert.NotContains(t, raw, "```")
	assert.NotContains(t, raw, `"poem"`)
	letter, err := ParseLetter(raw)
	require.NoError(t, err)
	assert.Contains(t, letter.Content, "\n\n")
}
