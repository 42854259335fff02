package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yangwenmai/lovenote/internal/model"
	"go.uber.org/zap"
)

// defaultMaxRequestBody leaves room for several base64 photos (16 MB).
const defaultMaxRequestBody int64 = 16 << 20

// ArtifactService is what the handlers need from the engine.
type ArtifactService interface {
	CreateCard(ctx context.Context, req model.CardRequest) (*model.Card, error)
	CreateLetter(ctx context.Context, req model.LetterRequest) (*model.Letter, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
	GetLetter(ctx context.Context, id string) (*model.Letter, error)
}

// Options configures the HTTP surface.
type Options struct {
	// CORSOrigin is the allowed origin; empty means "*".
	CORSOrigin string
	// MaxBodyBytes caps request bodies; zero selects the default.
	MaxBodyBytes int64
	// FrontendDir, when set, is served as a single-page app.
	FrontendDir string
}

// Server holds the HTTP handlers and dependencies.
type Server struct {
	svc    ArtifactService
	log    *zap.Logger
	opts   Options
	router chi.Router
}

// New creates a new API server.
func New(svc ArtifactService, log *zap.Logger, opts Options) *Server {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxRequestBody
	}
	srv := &Server{
		svc:    svc,
		log:    log.With(zap.String("component", "api")),
		opts:   opts,
		router: chi.NewRouter(),
	}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(corsMiddleware(s.opts.CORSOrigin))
	r.Use(limitBody(s.opts.MaxBodyBytes))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(jsonContent)
		api.Get("/", s.handleRoot)
		api.Post("/cards", s.handleCreateCard)
		api.Get("/cards/{id}", s.handleGetCard)
		api.Post("/letters", s.handleCreateLetter)
		api.Get("/letters/{id}", s.handleGetLetter)
		api.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	})

	if s.opts.FrontendDir != "" {
		r.Handle("/*", spaHandler(s.opts.FrontendDir))
	}
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// corsMiddleware sets CORS headers for the configured origin.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limitBody restricts the request body to max bytes.
func limitBody(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}

func jsonContent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
