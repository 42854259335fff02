package engine

import (
	"context"
	"encoding/json"
	"strings"
)

var _ RemoteGenerator = (*StubGenerator)(nil)

// StubGenerator returns canned model output (for development/testing). It
// accepts any credential.
type StubGenerator struct{}

type stubCard struct {
	Poem           string   `json:"poem"`
	LoveNotes      []string `json:"love_notes"`
	ScratchMessage string   `json:"scratch_message"`
}

func (StubGenerator) Generate(_ context.Context, _ Credential, p Prompt) (string, error) {
	if p.SystemInstruction == cardSystemInstruction {
		b, _ := json.Marshal(stubCard{
			Poem: "[Stub] Roses bloom where you have walked,\nStars lean close when you have talked,\nEvery line I try to write\nEnds with you, my guiding light.",
			LoveNotes: []string{
				"[Stub] I love how you laugh at your own jokes",
				"[Stub] My favorite thing about us is our lazy Sundays",
				"[Stub] I love how you remember the little things",
				"[Stub] You make every ordinary day feel like a holiday",
				"[Stub] I love that home is wherever you are",
			},
			ScratchMessage: "[Stub] You are my favorite adventure!",
		})
		return "```json\n" + string(b) + "\n```", nil
	}

	return strings.Join([]string{
		"[Stub] I keep coming back to the small moments, the ones nobody else would notice.",
		"[Stub] You have a way of turning an ordinary evening into the best part of my week.",
		"[Stub] I do not say it often enough, so here it is in writing, where it can stay.",
	}, "\n\n"), nil
}
