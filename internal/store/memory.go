package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yangwenmai/lovenote/internal/model"
)

var _ ArtifactStore = (*MemoryStore)(nil)

// MemoryStore is a process-local store for development and tests. Nothing
// survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	cards   map[string]model.Card
	letters map[string]model.Letter
	now     func() time.Time
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		cards:   make(map[string]model.Card),
		letters: make(map[string]model.Letter),
		now:     utcNow,
	}
}

func (s *MemoryStore) Available() bool { return true }
func (s *MemoryStore) Close() error    { return nil }

func (s *MemoryStore) CreateCard(_ context.Context, req model.CardRequest, content model.CardContent) (*model.Card, error) {
	card := model.NewCard(uuid.NewString(), req, content, s.now())
	s.mu.Lock()
	s.cards[card.ID] = card
	s.mu.Unlock()
	out := model.NewCard(card.ID, card.CardRequest, card.CardContent, card.CreatedAt)
	return &out, nil
}

func (s *MemoryStore) GetCard(_ context.Context, id string) (*model.Card, error) {
	s.mu.RLock()
	card, ok := s.cards[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := model.NewCard(card.ID, card.CardRequest, card.CardContent, card.CreatedAt)
	return &out, nil
}

func (s *MemoryStore) CreateLetter(_ context.Context, req model.LetterRequest, content model.LetterContent) (*model.Letter, error) {
	letter := model.NewLetter(uuid.NewString(), req, content, s.now())
	s.mu.Lock()
	s.letters[letter.ID] = letter
	s.mu.Unlock()
	out := model.NewLetter(letter.ID, letter.LetterRequest, letter.LetterContent, letter.CreatedAt)
	return &out, nil
}

func (s *MemoryStore) GetLetter(_ context.Context, id string) (*model.Letter, error) {
	s.mu.RLock()
	letter, ok := s.letters[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := model.NewLetter(letter.ID, letter.LetterRequest, letter.LetterContent, letter.CreatedAt)
	return &out, nil
}
