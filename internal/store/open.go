package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Options selects and sizes the artifact backend.
type Options struct {
	// Backend is one of the Backend* constants. Empty means infer it from URL.
	Backend string
	// URL is a postgres DSN, a redis:// URL or a sqlite file path.
	URL      string
	MaxConns int
	MinConns int
}

// ResolveBackend returns the backend Open would use for the options, or ""
// when nothing is configured.
func ResolveBackend(opts Options) string {
	if opts.Backend != "" {
		return opts.Backend
	}
	url := strings.ToLower(opts.URL)
	switch {
	case url == "":
		return ""
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return BackendRedis
	case strings.HasPrefix(url, "sqlite://"), strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return BackendSQLite
	default:
		return BackendPostgres
	}
}

// Open builds the configured store. A missing configuration or an unreachable
// backend yields an Unavailable store rather than an error, so the server can
// still start and answer 503; only malformed options return an error.
func Open(ctx context.Context, opts Options, log *zap.Logger) (ArtifactStore, error) {
	backend := ResolveBackend(opts)
	log = log.With(zap.String("backend", backend))

	switch backend {
	case "":
		log.Warn("no storage configured; create and fetch will report storage unavailable")
		return Unavailable{Reason: "no storage configured"}, nil

	case BackendMemory:
		log.Info("using in-memory store")
		return NewMemory(), nil

	case BackendPostgres:
		db, err := OpenPostgres(ctx, opts.URL, opts.MaxConns, opts.MinConns)
		if err != nil {
			log.Error("database connection failed", zap.Error(err))
			return Unavailable{Reason: "database unreachable"}, nil
		}
		s, err := NewSQL(ctx, db, DialectPostgres)
		if err != nil {
			db.Close()
			log.Error("database schema setup failed", zap.Error(err))
			return Unavailable{Reason: "database schema setup failed"}, nil
		}
		log.Info("database connected and tables ready")
		return s, nil

	case BackendSQLite:
		path := strings.TrimPrefix(opts.URL, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite backend needs a file path")
		}
		db, err := OpenSQLite(path, opts.MaxConns)
		if err != nil {
			log.Error("sqlite open failed", zap.Error(err))
			return Unavailable{Reason: "database unreachable"}, nil
		}
		s, err := NewSQL(ctx, db, DialectSQLite)
		if err != nil {
			db.Close()
			log.Error("database schema setup failed", zap.Error(err))
			return Unavailable{Reason: "database schema setup failed"}, nil
		}
		log.Info("sqlite database ready", zap.String("path", path))
		return s, nil

	case BackendRedis:
		client, err := OpenRedis(ctx, opts.URL, opts.MaxConns, opts.MinConns)
		if err != nil {
			log.Error("redis connection failed", zap.Error(err))
			return Unavailable{Reason: "redis unreachable"}, nil
		}
		log.Info("redis connected")
		return NewRedis(client, ""), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
