package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yangwenmai/lovenote/internal/model"
)

var _ ArtifactStore = (*RedisStore)(nil)

const defaultKeyPrefix = "lovenote"

// RedisStore keeps each artifact as one JSON document under
// "<prefix>:<kind>:<id>". Documents are written with SET NX and never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis wraps an existing client. An empty prefix selects the default.
func NewRedis(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: utcNow}
}

// OpenRedis connects to the server described by a redis:// URL and checks
// that it answers.
func OpenRedis(ctx context.Context, url string, poolSize, minIdle int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	if minIdle > 0 {
		opts.MinIdleConns = minIdle
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(kind model.Kind, id string) string {
	return s.prefix + ":" + string(kind) + ":" + id
}

// Available always reports true once the client exists.
func (s *RedisStore) Available() bool { return true }

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

// CreateCard stores a new card document.
func (s *RedisStore) CreateCard(ctx context.Context, req model.CardRequest, content model.CardContent) (*model.Card, error) {
	card := model.NewCard(uuid.NewString(), req, content, s.now())
	if err := s.put(ctx, model.KindCard, card.ID, card); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCard loads a card document.
func (s *RedisStore) GetCard(ctx context.Context, id string) (*model.Card, error) {
	var card model.Card
	if err := s.get(ctx, model.KindCard, id, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateLetter stores a new letter document.
func (s *RedisStore) CreateLetter(ctx context.Context, req model.LetterRequest, content model.LetterContent) (*model.Letter, error) {
	letter := model.NewLetter(uuid.NewString(), req, content, s.now())
	if err := s.put(ctx, model.KindLetter, letter.ID, letter); err != nil {
		return nil, err
	}
	return &letter, nil
}

// GetLetter loads a letter document.
func (s *RedisStore) GetLetter(ctx context.Context, id string) (*model.Letter, error) {
	var letter model.Letter
	if err := s.get(ctx, model.KindLetter, id, &letter); err != nil {
		return nil, err
	}
	return &letter, nil
}

func (s *RedisStore) put(ctx context.Context, kind model.Kind, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	ok, err := s.client.SetNX(ctx, s.key(kind, id), payload, 0).Result()
	if err != nil {
		return unavailable("insert "+string(kind), err)
	}
	if !ok {
		return fmt.Errorf("%s %s already exists", kind, id)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, kind model.Kind, id string, dst any) error {
	payload, err := s.client.Get(ctx, s.key(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return unavailable("get "+string(kind), err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	return nil
}
