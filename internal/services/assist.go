package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/adamn1225/adam-noahs-stuff/internal/assist"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/router"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// AssistService relays one content-assist intent to the completion engine.
type AssistService interface {
	// Enabled is checked by the handler before the body is read.
	Enabled() error
	Assist(ctx context.Context, action string, c assist.Context) (string, error)
	Status() router.Status
}

type assistService struct {
	log     *logger.Logger
	router  *router.Router
	metrics *observability.Metrics
}

func NewAssistService(log *logger.Logger, r *router.Router, metrics *observability.Metrics) AssistService {
	serviceLog := log.With("service", "AssistService")
	return &assistService{log: serviceLog, router: r, metrics: metrics}
}

func (s *assistService) Status() router.Status { return s.router.Status() }

func (s *assistService) Enabled() error {
	if _, _, ok := s.router.Active(); ok {
		return nil
	}
	reason := s.router.Status().Reason
	if reason == "" {
		reason = "AI features are disabled."
	}
	return apierr.New(http.StatusServiceUnavailable, apierr.CodeServiceUnavailable, &messageError{msg: reason, cause: assist.ErrDisabled})
}

func (s *assistService) Assist(ctx context.Context, action string, c assist.Context) (string, error) {
	if !ctxutil.IsAuthenticated(ctx) {
		return "", apierr.Unauthorized()
	}
	if err := s.Enabled(); err != nil {
		return "", err
	}
	intent, err := assist.ParseIntent(action)
	if err != nil {
		return "", apierr.BadRequest("Invalid action")
	}
	prompt, err := assist.Build(intent, c)
	if err != nil {
		return "", apierr.BadRequest("Invalid action")
	}

	eng, model, ok := s.router.Active()
	if !ok {
		return "", s.Enabled()
	}
	engineType := s.router.Status().Engine

	ctx, span := observability.Tracer().Start(ctx, "assist.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("assist.intent", string(intent)),
		attribute.String("assist.engine", engineType),
		attribute.String("assist.model", model),
	)

	start := time.Now()
	out, err := eng.GenerateText(ctx, model, prompt.Messages(), s.router.Options())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assist backend failed")
		s.metrics.ObserveAssist(engineType, string(intent), "error", time.Since(start))
		s.log.Error("Assist backend failed",
			"engine", engineType,
			"action", string(intent),
			"error", err,
			"request_id", ctxutil.RequestID(ctx),
		)
		return "", backendFailure(engineType, err)
	}
	s.metrics.ObserveAssist(engineType, string(intent), "ok", time.Since(start))
	return strings.TrimSpace(out), nil
}

func backendFailure(engineType string, cause error) error {
	msg := "AI assistance unavailable."
	if engineType == config.EngineOllama {
		msg = "AI assistance unavailable. Make sure Ollama is running."
	}
	return apierr.New(http.StatusInternalServerError, apierr.CodeAssistBackendFailed, &messageError{msg: msg, cause: cause})
}

// messageError shows msg to the client while keeping cause for errors.Is.
type messageError struct {
	msg   string
	cause error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.cause }
