package store

import (
	"context"
	"fmt"

	"github.com/yangwenmai/lovenote/internal/model"
)

var _ ArtifactStore = Unavailable{}

// Unavailable stands in when no backend is configured or the configured one
// could not be reached at startup. Every operation fails with
// ErrStorageUnavailable.
type Unavailable struct {
	Reason string
}

func (u Unavailable) err() error {
	if u.Reason == "" {
		return ErrStorageUnavailable
	}
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, u.Reason)
}

func (u Unavailable) Available() bool { return false }
func (u Unavailable) Close() error    { return nil }

func (u Unavailable) CreateCard(context.Context, model.CardRequest, model.CardContent) (*model.Card, error) {
	return nil, u.err()
}

func (u Unavailable) GetCard(context.Context, string) (*model.Card, error) {
	return nil, u.err()
}

func (u Unavailable) CreateLetter(context.Context, model.LetterRequest, model.LetterContent) (*model.Letter, error) {
	return nil, u.err()
}

func (u Unavailable) GetLetter(context.Context, string) (*model.Letter, error) {
	return nil, u.err()
}
