package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yangwenmai/lovenote/internal/metrics"
	"go.uber.org/zap"
)

// ErrGenerationExhausted matches every *ExhaustedError.
var ErrGenerationExhausted = errors.New("generation exhausted")

// ExhaustedError reports that no credential produced text. It unwraps to
// the last attempt's error (or the context error when the caller gave up).
type ExhaustedError struct {
	Attempts int
	PoolSize int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.PoolSize == 0 {
		return "generation exhausted: no credentials configured"
	}
	return fmt.Sprintf("generation exhausted after %d of %d credentials: %v", e.Attempts, e.PoolSize, e.Last)
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrGenerationExhausted }

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Generator walks a CredentialPool against a RemoteGenerator, one attempt
// per credential, in pool order.
type Generator struct {
	provider       string
	remote         RemoteGenerator
	pool           CredentialPool
	log            *zap.Logger
	attemptTimeout time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithAttemptTimeout bounds each remote call. Zero means no bound beyond
// the caller's context.
func WithAttemptTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.attemptTimeout = d }
}

// NewGenerator creates a Generator. provider labels logs and metrics.
func NewGenerator(provider string, remote RemoteGenerator, pool CredentialPool, log *zap.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider: provider,
		remote:   remote,
		pool:     pool,
		log:      log.With(zap.String("component", "generator"), zap.String("provider", provider)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run returns the first text any credential produces. The text is not
// inspected. When every credential fails, or the pool is empty, or ctx is
// done before the next attempt, Run returns an *ExhaustedError.
func (g *Generator) Run(ctx context.Context, p Prompt) (string, error) {
	size := g.pool.Len()
	if size == 0 {
		g.log.Warn("no credentials configured")
		return "", &ExhaustedError{}
	}

	var (
		lastErr  error
		attempts int
	)
	for i := 0; i < size; i++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		cred := g.pool.At(i)
		attempts++

		start := time.Now()
		text, err := g.attempt(ctx, cred, p)
		metrics.GenerationDuration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.GenerationAttempts.WithLabelValues(g.provider, metrics.OutcomeSuccess).Inc()
			g.log.Debug("generation succeeded",
				zap.Int("attempt", i+1),
				zap.Int("pool_size", size),
			)
			return text, nil
		}

		err = scrub(err, cred)
		metrics.GenerationAttempts.WithLabelValues(g.provider, metrics.OutcomeFailure).Inc()
		g.log.Warn("generation attempt failed",
			zap.Int("attempt", i+1),
			zap.Int("pool_size", size),
			zap.Stringer("credential", cred),
			zap.Error(err),
		)
		lastErr = err
	}

	return "", &ExhaustedError{Attempts: attempts, PoolSize: size, Last: lastErr}
}

func (g *Generator) attempt(ctx context.Context, cred Credential, p Prompt) (string, error) {
	if g.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()
	}
	return g.remote.Generate(ctx, cred, p)
}
