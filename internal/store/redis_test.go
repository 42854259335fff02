package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yangwenmai/lovenote/internal/model"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, ""), mr
}

func TestRedisCardRoundTrip(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()
	req, content := sampleCard()

	created, err := s.CreateCard(ctx, req, content)
	require.NoError(t, err)
	assert.True(t, mr.Exists("lovenote:card:"+created.ID))
	assert.Zero(t, mr.TTL("lovenote:card:"+created.ID), "artifacts never expire")

	got, err := s.GetCard(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.CardRequest, got.CardRequest)
	assert.Equal(t, created.CardContent, got.CardContent)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestRedisLetterRoundTrip(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()
	req, content := sampleLetter()

	created, err := s.CreateLetter(ctx, req, content)
	require.NoError(t, err)

	got, err := s.GetLetter(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.LetterRequest, got.LetterRequest)
	assert.Equal(t, content, got.LetterContent)
}

func TestRedisNotFound(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	_, err := s.GetCard(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetLetter(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisKindsAreSeparate(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	letter, err := s.CreateLetter(ctx, model.LetterRequest{LetterType: model.LetterLove, RecipientName: "A", SenderName: "B", Context: "c"}, model.LetterContent{Content: "x"})
	require.NoError(t, err)

	_, err = s.GetCard(ctx, letter.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisServerGone_ReportsUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	s := NewRedis(client, "test")
	ctx := context.Background()
	mr.Close()

	req, content := sampleCard()
	_, err = s.CreateCard(ctx, req, content)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = s.GetCard(ctx, "any")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0", 5, 1)
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 5, client.Options().PoolSize)

	_, err = OpenRedis(context.Background(), "not-a-url", 0, 0)
	assert.Error(t, err)
}

func TestRedisCancelledContext_NotUnavailable(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetLetter(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}
