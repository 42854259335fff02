package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yangwenmai/lovenote/internal/model"
)

func TestBuildCardPrompt(t *testing.T) {
	req := model.CardRequest{
		RecipientName: "Emma",
		SenderName:    "John",
		Description:   "She hums while painting and \"collects\" sea glass.",
	}

	p := BuildCardPrompt(req)

	assert.Contains(t, p.Text, "Emma")
	assert.Contains(t, p.Text, "John")
	assert.Contains(t, p.Text, req.Description, "description is embedded verbatim")
	for _, key := range []string{`"poem"`, `"love_notes"`, `"scratch_message"`} {
		assert.Contains(t, p.Text, key)
	}
	assert.Contains(t, p.SystemInstruction, "valid JSON")
}

func TestBuildCardPrompt_IsPure(t *testing.T) {
	req := model.CardRequest{RecipientName: "Emma", SenderName: "John", Description: "d", Photos: []string{"x"}}

	assert.Equal(t, BuildCardPrompt(req), BuildCardPrompt(req))

	other := req
	other.Photos = []string{"y", "z"}
	assert.Equal(t, BuildCardPrompt(req), BuildCardPrompt(other), "photos do not reach the prompt")
}

func TestBuildLetterPrompt(t *testing.T) {
	req := model.LetterRequest{
		LetterType:    model.LetterSorry,
		RecipientName: "Emma",
		SenderName:    "John",
		Context:       "I forgot our dinner on Friday.",
		Tone:          model.ToneEmotional,
	}

	p := BuildLetterPrompt(req)

	assert.Contains(t, p.Text, "apology")
	assert.Contains(t, p.Text, "vulnerable")
	assert.Contains(t, p.Text, req.Context)
	assert.Contains(t, p.Text, "3 to 5 paragraphs")
	assert.Contains(t, p.Text, "no markdown")
	assert.NotContains(t, p.Text, "Additional instructions")
	assert.NotEmpty(t, p.SystemInstruction)
	assert.Equal(t, p, BuildLetterPrompt(req))
}

func TestBuildLetterPrompt_CustomPrompt(t *testing.T) {
	req := model.LetterRequest{
		LetterType:    model.LetterCustom,
		RecipientName: "Emma",
		SenderName:    "John",
		Context:       "ctx",
		CustomPrompt:  "Mention the lighthouse.",
	}

	p := BuildLetterPrompt(req)

	assert.Contains(t, p.Text, "Mention the lighthouse.")
	assert.Contains(t, p.Text, letterPurpose(model.LetterCustom))
}

func TestBuildLetterPrompt_DefaultsForUnknownValues(t *testing.T) {
	known := BuildLetterPrompt(model.LetterRequest{LetterType: model.LetterCustom, Tone: model.ToneRomantic, Context: "c"})
	unknown := BuildLetterPrompt(model.LetterRequest{LetterType: "birthday", Tone: "", Context: "c"})
	unknownTone := BuildLetterPrompt(model.LetterRequest{LetterType: "birthday", Tone: "sarcastic", Context: "c"})

	assert.Equal(t, known, unknown)
	assert.Equal(t, known, unknownTone)
}

func TestLetterTables_DistinctEntries(t *testing.T) {
	types := []model.LetterType{
		model.LetterLove, model.LetterSorry, model.LetterProposal, model.LetterAnniversary,
		model.LetterMissYou, model.LetterFirstLove, model.LetterLongDistance, model.LetterCustom,
	}
	seen := map[string]bool{}
	for _, lt := range types {
		purpose := letterPurpose(lt)
		assert.False(t, seen[purpose], "duplicate purpose for %s", lt)
		seen[purpose] = true
	}

	tones := []model.Tone{
		model.ToneRomantic, model.TonePoetic, model.ToneFunny,
		model.ToneEmotional, model.ToneCasual, model.ToneDramatic,
	}
	seen = map[string]bool{}
	for _, tone := range tones {
		style := toneStyle(tone)
		assert.False(t, seen[style], "duplicate style for %s", tone)
		seen[style] = true
	}
}
