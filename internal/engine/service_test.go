package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yangwenmai/lovenote/internal/metrics"
	"github.com/yangwenmai/lovenote/internal/model"
	"github.com/yangwenmai/lovenote/internal/store"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, st store.ArtifactStore, remote RemoteGenerator, keys ...string) *Service {
	t.Helper()
	log := zaptest.NewLogger(t)
	gen := NewGenerator("fake", remote, NewCredentialPool(keys...), log)
	return NewService(st, gen, log)
}

func cardRequest() model.CardRequest {
	return model.CardRequest{
		RecipientName: "Emma",
		SenderName:    "John",
		Description:   "Emma paints sunsets and laughs at my terrible puns.",
		Photos:        []string{"data:image/jpeg;base64,/9j/1", "data:image/jpeg;base64,/9j/2"},
	}
}

func TestService_CreateCard_AllCredentialsFail(t *testing.T) {
	remote := &fakeRemote{}
	svc := newTestService(t, store.NewMemory(), remote, "k1", "k2")
	req := cardRequest()

	before := testutil.ToFloat64(metrics.Fallbacks.WithLabelValues(string(model.KindCard), metrics.ReasonExhausted))

	card, err := svc.CreateCard(context.Background(), req)
	require.NoError(t, err, "generation failures never fail a create")

	want := FallbackCard(req)
	assert.Equal(t, want.Poem, card.Poem)
	assert.Len(t, card.LoveNotes, model.LoveNoteCount)
	assert.Equal(t, want.ScratchMessage, card.ScratchMessage)
	assert.Equal(t, []string{"k1", "k2"}, remote.Calls())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Fallbacks.WithLabelValues(string(model.KindCard), metrics.ReasonExhausted)))
}

func TestService_CreateCard_NoCredentials(t *testing.T) {
	svc := newTestService(t, store.NewMemory(), &fakeRemote{})

	card, err := svc.CreateCard(context.Background(), cardRequest())
	require.NoError(t, err)
	assert.Equal(t, FallbackCard(cardRequest()).Poem, card.Poem)
}

func TestService_CreateCard_ParsesModelOutput(t *testing.T) {
	remote := &fakeRemote{responses: map[string]fakeResult{
		"k1": {text: "```json\n{\"poem\":\"P\",\"love_notes\":[\"a\",\"b\",\"c\",\"d\",\"e\"],\"scratch_message\":\"S\"}\n```"},
	}}
	svc := newTestService(t, store.NewMemory(), remote, "k1")

	card, err := svc.CreateCard(context.Background(), cardRequest())
	require.NoError(t, err)
	assert.Equal(t, "P", card.Poem)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, card.LoveNotes)
	assert.Equal(t, "S", card.ScratchMessage)

	require.Len(t, remote.prompts, 1)
	assert.Equal(t, BuildCardPrompt(cardRequest()), remote.prompts[0])
}

func TestService_CreateCard_UnparseableOutputFallsBack(t *testing.T) {
	remote := &fakeRemote{responses: map[string]fakeResult{
		"k1": {text: "Sure! Here is a lovely poem for Emma..."},
	}}
	svc := newTestService(t, store.NewMemory(), remote, "k1", "k2")

	card, err := svc.CreateCard(context.Background(), cardRequest())
	require.NoError(t, err)
	assert.Equal(t, FallbackCard(cardRequest()), card.CardContent)
	assert.Equal(t, []string{"k1"}, remote.Calls(), "a successful response ends failover even when unparseable")
}

func TestService_CreateThenGetCard(t *testing.T) {
	svc := newTestService(t, store.NewMemory(), StubGenerator{}, "any")
	ctx := context.Background()
	req := cardRequest()

	created, err := svc.CreateCard(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetCard(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, req.Photos, got.Photos)
	assert.Len(t, got.LoveNotes, model.LoveNoteCount)
}

func TestService_GetCard_NotFound(t *testing.T) {
	svc := newTestService(t, store.NewMemory(), StubGenerator{}, "any")

	_, err := svc.GetCard(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.GetLetter(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_StorageUnavailable(t *testing.T) {
	remote := &fakeRemote{}
	svc := newTestService(t, store.Unavailable{}, remote, "k1")
	ctx := context.Background()

	_, err := svc.CreateCard(ctx, cardRequest())
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	_, err = svc.CreateLetter(ctx, model.LetterRequest{LetterType: model.LetterLove, Context: "c"})
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	_, err = svc.GetCard(ctx, "x")
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	assert.Empty(t, remote.Calls(), "no credential is spent when nothing can be stored")
}

// failingStore accepts nothing although it claims to be configured.
type failingStore struct {
	store.ArtifactStore
}

func (failingStore) Available() bool { return true }

func (failingStore) CreateCard(context.Context, model.CardRequest, model.CardContent) (*model.Card, error) {
	return nil, errors.Join(store.ErrStorageUnavailable, errors.New("connection refused"))
}

func TestService_CreateCard_StoreFailureSurfaces(t *testing.T) {
	svc := newTestService(t, failingStore{ArtifactStore: store.NewMemory()}, StubGenerator{}, "k1")

	_, err := svc.CreateCard(context.Background(), cardRequest())
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func TestService_CreateLetter(t *testing.T) {
	remote := &fakeRemote{responses: map[string]fakeResult{
		"k1": {err: errors.New("rate limited")},
		"k2": {text: "One.\n\nTwo.\n\nThree."},
	}}
	svc := newTestService(t, store.NewMemory(), remote, "k1", "k2")
	ctx := context.Background()

	letter, err := svc.CreateLetter(ctx, model.LetterRequest{
		LetterType:    model.LetterAnniversary,
		RecipientName: "Emma",
		SenderName:    "John",
		Context:       "Five years.",
		Photos:        []string{"p1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "One.\n\nTwo.\n\nThree.", letter.Content)
	assert.Equal(t, model.ToneRomantic, letter.Tone)
	assert.Equal(t, model.DefaultTemplate, letter.Template)

	got, err := svc.GetLetter(ctx, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, letter, got)
}

func TestService_CreateLetter_Fallbacks(t *testing.T) {
	req := model.LetterRequest{
		LetterType:    model.LetterLove,
		RecipientName: "Emma",
		SenderName:    "John",
		Context:       "We met at the bakery on 5th street.",
	}

	t.Run("exhausted", func(t *testing.T) {
		svc := newTestService(t, store.NewMemory(), &fakeRemote{}, "k1")
		letter, err := svc.CreateLetter(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, FallbackLetter(req.Normalize()).Content, letter.Content)
		assert.Contains(t, letter.Content, req.Context)
	})

	t.Run("blank output", func(t *testing.T) {
		remote := &fakeRemote{responses: map[string]fakeResult{"k1": {text: "   "}}}
		svc := newTestService(t, store.NewMemory(), remote, "k1")
		letter, err := svc.CreateLetter(context.Background(), req)
		require.NoError(t, err)
		assert.Contains(t, letter.Content, req.Context)
	})
}
