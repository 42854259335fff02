package engine

import (
	"fmt"
	"strings"

	"github.com/yangwenmai/lovenote/internal/model"
)

const cardSystemInstruction = `You are a romantic poet and love letter writer. Create deeply personal, heartfelt content that makes the recipient feel truly special and loved. Be creative, poetic, and emotionally touching. Always respond in valid JSON format.`

const letterSystemInstruction = `You are a gifted love letter writer. You write sincere, specific letters that sound like they came from the sender, never from a greeting card. Respond with the letter body only, as plain prose.`

// BuildCardPrompt returns the prompt for a card bundle.
func BuildCardPrompt(req model.CardRequest) Prompt {
	text := fmt.Sprintf(`Create romantic Valentine's content for %s from %s.

About %s: %s

Generate a JSON response with exactly this structure:
{
    "poem": "A 4-6 line romantic poem personalized to them",
    "love_notes": ["Note 1", "Note 2", "Note 3", "Note 4", "Note 5"],
    "scratch_message": "A special surprise message for the scratch reveal"
}

Rules:
- Respond with a single JSON object containing exactly the keys poem, love_notes and scratch_message
- love_notes must be an array of exactly %d short, sweet messages like "I love how you..." or "My favorite thing about us is..."
- The scratch_message should be something very special and personal
- Make everything deeply personal based on the description provided`,
		req.RecipientName, req.SenderName, req.RecipientName, req.Description, model.LoveNoteCount)

	return Prompt{Text: text, SystemInstruction: cardSystemInstruction}
}

// BuildLetterPrompt returns the prompt for a long-form letter.
func BuildLetterPrompt(req model.LetterRequest) Prompt {
	tone := req.Tone
	if tone == "" {
		tone = model.DefaultTone
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write %s from %s to %s.\n\n", letterPurpose(req.LetterType), req.SenderName, req.RecipientName)
	fmt.Fprintf(&b, "Tone: %s\n\n", toneStyle(tone))
	fmt.Fprintf(&b, "What %s shared about their story:\n%s\n", req.SenderName, req.Context)
	if custom := strings.TrimSpace(req.CustomPrompt); custom != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from %s:\n%s\n", req.SenderName, custom)
	}
	b.WriteString(`
Rules:
- Plain prose only: no markdown, no headings, no lists, no JSON
- 3 to 5 paragraphs separated by a blank line
- Do not include a greeting line (like "Dear ...") or a signoff line (like "Love, ..."); those are added separately
- Use concrete details from the story above instead of generic phrases`)

	return Prompt{Text: b.String(), SystemInstruction: letterSystemInstruction}
}

func letterPurpose(t model.LetterType) string {
	switch t {
	case model.LetterLove:
		return "a love letter expressing deep, genuine feelings"
	case model.LetterSorry:
		return "a heartfelt apology letter that takes responsibility and promises to do better"
	case model.LetterProposal:
		return "a marriage proposal letter that builds up to asking the big question"
	case model.LetterAnniversary:
		return "an anniversary letter celebrating the journey so far and the years ahead"
	case model.LetterMissYou:
		return "a letter about missing someone who is far away right now"
	case model.LetterFirstLove:
		return "a first-love confession letter, nervous and honest"
	case model.LetterLongDistance:
		return "a long-distance letter that bridges the miles and looks forward to the reunion"
	default:
		return "a personal letter following the sender's own description"
	}
}

func toneStyle(t model.Tone) string {
	switch t {
	case model.ToneRomantic:
		return "romantic, warm and tender"
	case model.TonePoetic:
		return "poetic, lyrical, rich in imagery and metaphor"
	case model.ToneFunny:
		return "funny and sweet, playful with gentle humour, still sincere"
	case model.ToneEmotional:
		return "deep and emotional, vulnerable and raw"
	case model.ToneCasual:
		return "casual and warm, like talking to your best friend"
	case model.ToneDramatic:
		return "dramatic and grand, sweeping declarations worthy of a film"
	default:
		return "romantic, warm and tender"
	}
}
