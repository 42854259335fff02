package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCard_CopiesSlices(t *testing.T) {
	photos := []string{"p1", "p2"}
	notes := []string{"a", "b", "c", "d", "e"}
	now := time.Now().UTC()

	card := NewCard("c-1", CardRequest{RecipientName: "Emma", Photos: photos}, CardContent{LoveNotes: notes}, now)

	photos[0] = "changed"
	notes[0] = "changed"
	assert.Equal(t, []string{"p1", "p2"}, card.Photos)
	assert.Equal(t, "a", card.LoveNotes[0])
	assert.Equal(t, "c-1", card.ID)
	assert.True(t, card.CreatedAt.Equal(now))
}

func TestCardRequest_NormalizeNilPhotos(t *testing.T) {
	req := CardRequest{}.Normalize()
	assert.NotNil(t, req.Photos)
	assert.Empty(t, req.Photos)
}

func TestLetterRequest_NormalizeDefaults(t *testing.T) {
	req := LetterRequest{LetterType: LetterLove}.Normalize()

	assert.Equal(t, ToneRomantic, req.Tone)
	assert.Equal(t, "classic", req.Template)
	assert.Equal(t, "playfair", req.Font)
	assert.Equal(t, "romantic-red", req.ColorScheme)
	assert.NotNil(t, req.Photos)
}

func TestLetterRequest_NormalizeKeepsExplicitValues(t *testing.T) {
	req := LetterRequest{
		Tone:        ToneFunny,
		Template:    "midnight",
		Font:        "script",
		ColorScheme: "ocean-blue",
	}.Normalize()

	assert.Equal(t, ToneFunny, req.Tone)
	assert.Equal(t, "midnight", req.Template)
	assert.Equal(t, "script", req.Font)
	assert.Equal(t, "ocean-blue", req.ColorScheme)
}
