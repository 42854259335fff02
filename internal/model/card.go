package model

import "time"

// Kind identifies which generation flow produced an artifact.
type Kind string

// Kind constants
const (
	KindCard   Kind = "card"
	KindLetter Kind = "letter"
)

// LoveNoteCount is the number of love notes every card carries.
const LoveNoteCount = 5

// CardRequest is the input for a short poem + notes bundle.
type CardRequest struct {
	RecipientName string   `json:"recipient_name"`
	Description   string   `json:"description"`
	SenderName    string   `json:"sender_name"`
	Photos        []string `json:"photos"`
}

// Normalize returns a copy of the request with a non-nil photo list.
func (r CardRequest) Normalize() CardRequest {
	r.Photos = cloneStrings(r.Photos)
	return r
}

// CardContent is the generated part of a card.
type CardContent struct {
	Poem           string   `json:"poem"`
	LoveNotes      []string `json:"love_notes"`
	ScratchMessage string   `json:"scratch_message"`
}

// Card is a persisted card artifact.
type Card struct {
	ID string `json:"id"`
	CardRequest
	CardContent
	CreatedAt time.Time `json:"created_at"`
}

// NewCard assembles a Card from its parts. Slices are copied so the
// returned value shares no backing arrays with the inputs.
func NewCard(id string, req CardRequest, content CardContent, createdAt time.Time) Card {
	req = req.Normalize()
	content.LoveNotes = cloneStrings(content.LoveNotes)
	return Card{
		ID:          id,
		CardRequest: req,
		CardContent: content,
		CreatedAt:   createdAt,
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
