package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yangwenmai/lovenote/internal/model"
)

// Verify at compile time that SQLStore implements all interfaces.
var (
	_ CardStore     = (*SQLStore)(nil)
	_ LetterStore   = (*SQLStore)(nil)
	_ ArtifactStore = (*SQLStore)(nil)
)

// Dialect selects the SQL flavour of the relational backend.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLStore keeps artifacts in a relational database. List-valued fields are
// stored as JSON text.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQL creates a SQLStore and brings the schema up to date.
func NewSQL(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect, now: utcNow}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// utcNow truncates to microseconds, the resolution postgres keeps, so a
// returned artifact equals the one read back later.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// currentSchemaVersion is bumped whenever the schema changes.
const currentSchemaVersion = 1

func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// Index 0 = migration from v0 to v1, etc.
	migrations := []func(context.Context) error{
		s.migrateV1, // v0 → v1: cards and letters
	}

	for i := version; i < len(migrations) && i < currentSchemaVersion; i++ {
		if err := migrations[i](ctx); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.ExecContext(ctx, s.rebind(`UPDATE schema_version SET version = ?`), i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *SQLStore) migrateV1(ctx context.Context) error {
	tsType := "TEXT"
	if s.dialect == DialectPostgres {
		tsType = "TIMESTAMP WITH TIME ZONE"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id              VARCHAR(36) PRIMARY KEY,
			recipient_name  VARCHAR(255) NOT NULL,
			sender_name     VARCHAR(255) NOT NULL,
			description     TEXT NOT NULL,
			photos          TEXT NOT NULL DEFAULT '[]',
			poem            TEXT NOT NULL DEFAULT '',
			love_notes      TEXT NOT NULL DEFAULT '[]',
			scratch_message TEXT NOT NULL DEFAULT '',
			created_at      ` + tsType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS letters (
			id             VARCHAR(36) PRIMARY KEY,
			letter_type    VARCHAR(64) NOT NULL,
			recipient_name VARCHAR(255) NOT NULL,
			sender_name    VARCHAR(255) NOT NULL,
			context        TEXT NOT NULL,
			custom_prompt  TEXT NOT NULL DEFAULT '',
			tone           VARCHAR(64) NOT NULL,
			photos         TEXT NOT NULL DEFAULT '[]',
			template       VARCHAR(64) NOT NULL,
			font           VARCHAR(64) NOT NULL,
			color_scheme   VARCHAR(64) NOT NULL,
			content        TEXT NOT NULL,
			created_at     ` + tsType + ` NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Available always reports true: a SQLStore exists only once its database
// answered during startup.
func (s *SQLStore) Available() bool { return true }

// Close closes the underlying database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Cards
// ---------------------------------------------------------------------------

// CreateCard inserts a new card with a fresh id and timestamp.
func (s *SQLStore) CreateCard(ctx context.Context, req model.CardRequest, content model.CardContent) (*model.Card, error) {
	card := model.NewCard(uuid.NewString(), req, content, s.now())

	photos, err := encodeList(card.Photos)
	if err != nil {
		return nil, fmt.Errorf("encode photos: %w", err)
	}
	notes, err := encodeList(card.LoveNotes)
	if err != nil {
		return nil, fmt.Errorf("encode love notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO cards (id, recipient_name, sender_name, description, photos, poem, love_notes, scratch_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		card.ID, card.RecipientName, card.SenderName, card.Description, photos,
		card.Poem, notes, card.ScratchMessage, s.timeArg(card.CreatedAt),
	)
	if err != nil {
		return nil, unavailable("insert card", err)
	}
	return &card, nil
}

// GetCard returns the card with the given id, or ErrNotFound.
func (s *SQLStore) GetCard(ctx context.Context, id string) (*model.Card, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, recipient_name, sender_name, description, photos, poem, love_notes, scratch_message, created_at
		FROM cards WHERE id = ?`), id)

	var (
		card              model.Card
		photos, notes, ts string
	)
	err := row.Scan(&card.ID, &card.RecipientName, &card.SenderName, &card.Description,
		&photos, &card.Poem, &notes, &card.ScratchMessage, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get card", err)
	}

	if card.Photos, err = decodeList(photos); err != nil {
		return nil, fmt.Errorf("decode photos of card %s: %w", id, err)
	}
	if card.LoveNotes, err = decodeList(notes); err != nil {
		return nil, fmt.Errorf("decode love notes of card %s: %w", id, err)
	}
	if card.CreatedAt, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("parse created_at of card %s: %w", id, err)
	}
	return &card, nil
}

// ---------------------------------------------------------------------------
// Letters
// ---------------------------------------------------------------------------

// CreateLetter inserts a new letter with a fresh id and timestamp.
func (s *SQLStore) CreateLetter(ctx context.Context, req model.LetterRequest, content model.LetterContent) (*model.Letter, error) {
	letter := model.NewLetter(uuid.NewString(), req, content, s.now())

	photos, err := encodeList(letter.Photos)
	if err != nil {
		return nil, fmt.Errorf("encode photos: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO letters (id, letter_type, recipient_name, sender_name, context, custom_prompt, tone, photos, template, font, color_scheme, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		letter.ID, string(letter.LetterType), letter.RecipientName, letter.SenderName,
		letter.Context, letter.CustomPrompt, string(letter.Tone), photos,
		letter.Template, letter.Font, letter.ColorScheme, letter.Content,
		s.timeArg(letter.CreatedAt),
	)
	if err != nil {
		return nil, unavailable("insert letter", err)
	}
	return &letter, nil
}

// GetLetter returns the letter with the given id, or ErrNotFound.
func (s *SQLStore) GetLetter(ctx context.Context, id string) (*model.Letter, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, letter_type, recipient_name, sender_name, context, custom_prompt, tone, photos, template, font, color_scheme, content, created_at
		FROM letters WHERE id = ?`), id)

	var (
		l                model.Letter
		letterType, tone string
		photos, ts       string
	)
	err := row.Scan(&l.ID, &letterType, &l.RecipientName, &l.SenderName, &l.Context,
		&l.CustomPrompt, &tone, &photos, &l.Template, &l.Font, &l.ColorScheme,
		&l.Content, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get letter", err)
	}

	l.LetterType = model.LetterType(letterType)
	l.Tone = model.Tone(tone)
	if l.Photos, err = decodeList(photos); err != nil {
		return nil, fmt.Errorf("decode photos of letter %s: %w", id, err)
	}
	if l.CreatedAt, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("parse created_at of letter %s: %w", id, err)
	}
	return &l, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rebind rewrites ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// timeArg adapts a timestamp to the column type of the dialect. Reads always
// scan into a string: database/sql formats time.Time values as RFC 3339.
func (s *SQLStore) timeArg(t time.Time) any {
	if s.dialect == DialectPostgres {
		return t
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
