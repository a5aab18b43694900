package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/gemini"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/mock"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/ollama"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/oaihttp"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// DisabledInProduction is reported when a self-hosted engine has no base URL
// in a production environment.
const DisabledInProduction = "AI features are disabled in production. Use Ollama locally or set ASSIST_BASE_URL."

type Status struct {
	Enabled bool   `json:"enabled"`
	Engine  string `json:"engine"`
	Model   string `json:"model"`
	Reason  string `json:"reason,omitempty"`
}

// Router holds the one completion engine the assist proxy talks to.
type Router struct {
	engine engine.Engine
	status Status
	opts   engine.GenerateOptions
}

// New builds the configured engine. It never dials the backend; a disabled
// router is returned (not an error) for the "disabled" type and for a
// self-hosted engine without a base URL in production.
func New(ctx context.Context, cfg config.EngineConfig, env string, log *logger.Logger) (*Router, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With("component", "AssistRouter")

	status := Status{Engine: cfg.Type, Model: cfg.Model}

	if cfg.Type == config.EngineDisabled {
		status.Reason = "AI features are disabled."
		log.Info("Assist engine disabled by configuration")
		return &Router{status: status}, nil
	}
	if cfg.NeedsBaseURL() && cfg.BaseURL == "" {
		if isProduction(env) {
			status.Reason = DisabledInProduction
			log.Warn("Assist engine disabled: no base URL in production", "engine", cfg.Type)
			return &Router{status: status}, nil
		}
		if cfg.Type == config.EngineOAIHTTP {
			return nil, fmt.Errorf("engine %q requires base_url", cfg.Type)
		}
		cfg.BaseURL = config.DefaultOllamaURL
	}

	var (
		eng engine.Engine
		err error
	)
	switch cfg.Type {
	case config.EngineMock:
		eng = mock.New()
	case config.EngineOllama:
		eng, err = ollama.New(cfg)
	case config.EngineOAIHTTP:
		eng, err = oaihttp.New(cfg)
	case config.EngineGemini:
		eng, err = gemini.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported engine type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Assist engine ready", "engine", cfg.Type, "model", cfg.Model, "base_url", cfg.BaseURL)
	return NewStatic(eng, cfg), nil
}

// NewStatic wraps an already built engine. Type, model and temperature come
// from cfg. A nil engine yields a disabled router.
func NewStatic(eng engine.Engine, cfg config.EngineConfig) *Router {
	st := Status{Enabled: eng != nil, Engine: cfg.Type, Model: cfg.Model}
	if eng == nil {
		st.Reason = "AI features are disabled."
	}
	return &Router{
		engine: eng,
		status: st,
		opts:   engine.GenerateOptions{Temperature: cfg.Temperature},
	}
}

// Active returns the engine and upstream model, or ok=false when disabled.
func (r *Router) Active() (eng engine.Engine, model string, ok bool) {
	if r == nil || !r.status.Enabled || r.engine == nil {
		return nil, "", false
	}
	return r.engine, r.status.Model, true
}

// Options are the per-call generation settings taken from the engine config.
func (r *Router) Options() engine.GenerateOptions {
	if r == nil {
		return engine.GenerateOptions{}
	}
	return r.opts
}

func (r *Router) Status() Status {
	if r == nil {
		return Status{Engine: config.EngineDisabled, Reason: "AI features are disabled."}
	}
	return r.status
}

func isProduction(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return true
	}
	return false
}
