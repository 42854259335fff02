package model

import "time"

// LetterType is the occasion a letter is written for.
type LetterType string

// LetterType constants
const (
	LetterLove         LetterType = "love"
	LetterSorry        LetterType = "sorry"
	LetterProposal     LetterType = "proposal"
	LetterAnniversary  LetterType = "anniversary"
	LetterMissYou      LetterType = "miss-you"
	LetterFirstLove    LetterType = "first-love"
	LetterLongDistance LetterType = "long-distance"
	LetterCustom       LetterType = "custom"
)

// Tone is the writing style requested for a letter.
type Tone string

// Tone constants
const (
	ToneRomantic  Tone = "romantic"
	TonePoetic    Tone = "poetic"
	ToneFunny     Tone = "funny"
	ToneEmotional Tone = "emotional"
	ToneCasual    Tone = "casual"
	ToneDramatic  Tone = "dramatic"
)

// Presentation defaults applied when the caller leaves a hint empty.
const (
	DefaultTone        = ToneRomantic
	DefaultTemplate    = "classic"
	DefaultFont        = "playfair"
	DefaultColorScheme = "romantic-red"
)

// LetterRequest is the input for a long-form letter. Template, Font and
// ColorScheme are presentation hints stored as-is.
type LetterRequest struct {
	LetterType    LetterType `json:"letter_type"`
	RecipientName string     `json:"recipient_name"`
	SenderName    string     `json:"sender_name"`
	Context       string     `json:"context"`
	CustomPrompt  string     `json:"custom_prompt"`
	Tone          Tone       `json:"tone"`
	Photos        []string   `json:"photos"`
	Template      string     `json:"template"`
	Font          string     `json:"font"`
	ColorScheme   string     `json:"color_scheme"`
}

// Normalize fills presentation defaults and copies the photo list.
func (r LetterRequest) Normalize() LetterRequest {
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.Template == "" {
		r.Template = DefaultTemplate
	}
	if r.Font == "" {
		r.Font = DefaultFont
	}
	if r.ColorScheme == "" {
		r.ColorScheme = DefaultColorScheme
	}
	r.Photos = cloneStrings(r.Photos)
	return r
}

// LetterContent is the generated body of a letter, without greeting or signoff.
type LetterContent struct {
	Content string `json:"content"`
}

// Letter is a persisted letter artifact.
type Letter struct {
	ID string `json:"id"`
	LetterRequest
	LetterContent
	CreatedAt time.Time `json:"created_at"`
}

// NewLetter assembles a Letter from its parts.
func NewLetter(id string, req LetterRequest, content LetterContent, createdAt time.Time) Letter {
	return Letter{
		ID:            id,
		LetterRequest: req.Normalize(),
		LetterContent: content,
		CreatedAt:     createdAt,
	}
}
