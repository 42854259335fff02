package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/yangwenmai/lovenote/internal/metrics"
	"github.com/yangwenmai/lovenote/internal/model"
	"github.com/yangwenmai/lovenote/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/yangwenmai/lovenote/internal/engine"

// Content sources recorded on spans and in logs.
const (
	sourceModel    = "model"
	sourceFallback = "fallback"
)

// Service is the inbound API: generate content, persist it, look it up.
// Generation problems never fail a create; storage problems always do.
type Service struct {
	store  store.ArtifactStore
	gen    *Generator
	log    *zap.Logger
	tracer trace.Tracer
}

// NewService wires a Service.
func NewService(st store.ArtifactStore, gen *Generator, log *zap.Logger) *Service {
	return &Service{
		store:  st,
		gen:    gen,
		log:    log.With(zap.String("component", "service")),
		tracer: otel.Tracer(tracerName),
	}
}

// CreateCard generates card content for req, falling back to the templates
// when the model fails, and stores the result.
func (s *Service) CreateCard(ctx context.Context, req model.CardRequest) (*model.Card, error) {
	ctx, span := s.tracer.Start(ctx, "Service.CreateCard")
	defer span.End()

	// Skip generation entirely when the result could not be stored.
	if !s.store.Available() {
		return nil, spanError(span, fmt.Errorf("create card: %w", store.ErrStorageUnavailable))
	}

	req = req.Normalize()
	content, source := s.cardContent(ctx, req)
	span.SetAttributes(attribute.String("lovenote.content_source", source))

	card, err := s.store.CreateCard(ctx, req, content)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("create card: %w", err))
	}
	metrics.ArtifactsCreated.WithLabelValues(string(model.KindCard)).Inc()
	s.log.Info("card created",
		zap.String("id", card.ID),
		zap.String("source", source),
		zap.Int("photos", len(card.Photos)),
	)
	return card, nil
}

func (s *Service) cardContent(ctx context.Context, req model.CardRequest) (model.CardContent, string) {
	raw, err := s.gen.Run(ctx, BuildCardPrompt(req))
	if err != nil {
		s.fallback(model.KindCard, metrics.ReasonExhausted, err)
		return FallbackCard(req), sourceFallback
	}
	content, err := ParseCard(raw, req.RecipientName)
	if err != nil {
		s.fallback(model.KindCard, metrics.ReasonParseFailure, err)
		return FallbackCard(req), sourceFallback
	}
	return content, sourceModel
}

// CreateLetter generates a letter for req, falling back to the template
// when the model fails, and stores the result.
func (s *Service) CreateLetter(ctx context.Context, req model.LetterRequest) (*model.Letter, error) {
	ctx, span := s.tracer.Start(ctx, "Service.CreateLetter")
	defer span.End()

	if !s.store.Available() {
		return nil, spanError(span, fmt.Errorf("create letter: %w", store.ErrStorageUnavailable))
	}

	req = req.Normalize()
	span.SetAttributes(
		attribute.String("lovenote.letter_type", string(req.LetterType)),
		attribute.String("lovenote.tone", string(req.Tone)),
	)
	content, source := s.letterContent(ctx, req)
	span.SetAttributes(attribute.String("lovenote.content_source", source))

	letter, err := s.store.CreateLetter(ctx, req, content)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("create letter: %w", err))
	}
	metrics.ArtifactsCreated.WithLabelValues(string(model.KindLetter)).Inc()
	s.log.Info("letter created",
		zap.String("id", letter.ID),
		zap.String("letter_type", string(letter.LetterType)),
		zap.String("source", source),
	)
	return letter, nil
}

func (s *Service) letterContent(ctx context.Context, req model.LetterRequest) (model.LetterContent, string) {
	raw, err := s.gen.Run(ctx, BuildLetterPrompt(req))
	if err != nil {
		s.fallback(model.KindLetter, metrics.ReasonExhausted, err)
		return FallbackLetter(req), sourceFallback
	}
	content, err := ParseLetter(raw)
	if err != nil {
		s.fallback(model.KindLetter, metrics.ReasonParseFailure, err)
		return FallbackLetter(req), sourceFallback
	}
	return content, sourceModel
}

func (s *Service) fallback(kind model.Kind, reason string, err error) {
	metrics.Fallbacks.WithLabelValues(string(kind), reason).Inc()
	s.log.Warn("using fallback content",
		zap.String("kind", string(kind)),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

// GetCard returns a stored card.
func (s *Service) GetCard(ctx context.Context, id string) (*model.Card, error) {
	ctx, span := s.tracer.Start(ctx, "Service.GetCard", trace.WithAttributes(attribute.String("lovenote.id", id)))
	defer span.End()

	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, lookupError(span, err)
	}
	return card, nil
}

// GetLetter returns a stored letter.
func (s *Service) GetLetter(ctx context.Context, id string) (*model.Letter, error) {
	ctx, span := s.tracer.Start(ctx, "Service.GetLetter", trace.WithAttributes(attribute.String("lovenote.id", id)))
	defer span.End()

	letter, err := s.store.GetLetter(ctx, id)
	if err != nil {
		return nil, lookupError(span, err)
	}
	return letter, nil
}

// lookupError records err on the span unless it is a plain miss.
func lookupError(span trace.Span, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return spanError(span, err)
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
