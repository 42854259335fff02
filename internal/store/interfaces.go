package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/yangwenmai/lovenote/internal/metrics"
	"github.com/yangwenmai/lovenote/internal/model"
)

var (
	// ErrNotFound is returned when no artifact exists for an id.
	ErrNotFound = errors.New("artifact not found")

	// ErrStorageUnavailable is returned when the backend is not configured or
	// cannot be reached. Operators fix it; callers should not retry blindly.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// CardStore persists card artifacts.
type CardStore interface {
	CreateCard(ctx context.Context, req model.CardRequest, content model.CardContent) (*model.Card, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
}

// LetterStore persists letter artifacts.
type LetterStore interface {
	CreateLetter(ctx context.Context, req model.LetterRequest, content model.LetterContent) (*model.Letter, error)
	GetLetter(ctx context.Context, id string) (*model.Letter, error)
}

// ArtifactStore is the append-only artifact repository. Implementations
// assign ids and timestamps themselves.
type ArtifactStore interface {
	CardStore
	LetterStore

	// Available reports whether a backend is configured. It does no I/O.
	Available() bool
	Close() error
}

// unavailable wraps a backend failure so callers can match ErrStorageUnavailable
// while the original cause stays reachable via errors.Is/As. A cancelled or
// expired context is the caller giving up, not a backend fault, and is
// returned without the sentinel.
func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.StorageFailures.WithLabelValues(op).Inc()
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
