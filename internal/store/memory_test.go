package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	req, content := sampleCard()

	card, err := s.CreateCard(ctx, req, content)
	require.NoError(t, err)

	// Mutating what the caller got back must not reach the stored copy.
	card.Photos[0] = "mutated"
	card.LoveNotes[0] = "mutated"

	got, err := s.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Photos, got.Photos)
	assert.Equal(t, content.LoveNotes, got.LoveNotes)

	lreq, lcontent := sampleLetter()
	letter, err := s.CreateLetter(ctx, lreq, lcontent)
	require.NoError(t, err)
	gotLetter, err := s.GetLetter(ctx, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, letter.LetterRequest, gotLetter.LetterRequest)
}

func TestMemoryNotFound(t *testing.T) {
	s := NewMemory()
	_, err := s.GetCard(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetLetter(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnavailable(t *testing.T) {
	u := Unavailable{Reason: "database unreachable"}
	ctx := context.Background()
	assert.False(t, u.Available())

	req, content := sampleCard()
	_, err := u.CreateCard(ctx, req, content)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "database unreachable")

	_, err = u.GetCard(ctx, "id")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)

	lreq, lcontent := sampleLetter()
	_, err = u.CreateLetter(ctx, lreq, lcontent)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = u.GetLetter(ctx, "id")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	assert.ErrorIs(t, Unavailable{}.err(), ErrStorageUnavailable)
}
