package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xeipuuv/gojsonschema"
	"github.com/yangwenmai/lovenote/internal/model"
	"github.com/yangwenmai/lovenote/internal/store"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// GET /api/ and /healthz
// ---------------------------------------------------------------------------

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Valentine Card API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// POST /api/cards
// ---------------------------------------------------------------------------

// cardBody accepts girlfriend_name from older clients as an alias of
// recipient_name.
type cardBody struct {
	model.CardRequest
	GirlfriendName string `json:"girlfriend_name"`
}

// cardResponse echoes girlfriend_name so older viewers keep rendering.
type cardResponse struct {
	*model.Card
	GirlfriendName string `json:"girlfriend_name"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var body cardBody
	if !s.decodeValid(w, r, cardSchema, &body) {
		return
	}
	req := body.CardRequest
	if req.RecipientName == "" {
		req.RecipientName = body.GirlfriendName
	}

	card, err := s.svc.CreateCard(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err, model.KindCard, "failed to create card")
		return
	}
	writeJSON(w, http.StatusOK, cardResponse{Card: card, GirlfriendName: card.RecipientName})
}

// ---------------------------------------------------------------------------
// GET /api/cards/{id}
// ---------------------------------------------------------------------------

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	card, err := s.svc.GetCard(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, model.KindCard, "failed to get card")
		return
	}
	writeJSON(w, http.StatusOK, cardResponse{Card: card, GirlfriendName: card.RecipientName})
}

// ---------------------------------------------------------------------------
// POST /api/letters
// ---------------------------------------------------------------------------

func (s *Server) handleCreateLetter(w http.ResponseWriter, r *http.Request) {
	var req model.LetterRequest
	if !s.decodeValid(w, r, letterSchema, &req) {
		return
	}

	letter, err := s.svc.CreateLetter(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err, model.KindLetter, "failed to create letter")
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

// ---------------------------------------------------------------------------
// GET /api/letters/{id}
// ---------------------------------------------------------------------------

func (s *Server) handleGetLetter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	letter, err := s.svc.GetLetter(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, model.KindLetter, "failed to get letter")
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// decodeValid reads the body, validates it against schema and decodes it
// into dst. It writes the error response itself and reports whether the
// handler should continue.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return false
	}
	if err := validateBody(schema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps engine and store errors onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, kind model.Kind, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage(kind))
	case errors.Is(err, store.ErrStorageUnavailable):
		s.log.Warn("storage unavailable", zap.String("kind", string(kind)), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "Database not configured.")
	default:
		s.log.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func notFoundMessage(kind model.Kind) string {
	if kind == model.KindLetter {
		return "Letter not found"
	}
	return "Card not found"
}
