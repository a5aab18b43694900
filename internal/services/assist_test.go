package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/assist"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/mock"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/ollama"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/router"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
)

func TestAssistDisabledInProduction(t *testing.T) {
	r, err := router.New(context.Background(), config.EngineConfig{Type: config.EngineOllama}, "production", testLogger())
	require.NoError(t, err)
	svc := NewAssistService(testLogger(), r, nil)

	ae := requireAPIError(t, svc.Enabled(), http.StatusServiceUnavailable, apierr.CodeServiceUnavailable)
	require.Equal(t, router.DisabledInProduction, ae.Error())
	require.ErrorIs(t, ae, assist.ErrDisabled)

	_, err = svc.Assist(adminCtx(), "suggest_tags", assist.Context{Title: "X", Description: "Y"})
	requireAPIError(t, err, http.StatusServiceUnavailable, apierr.CodeServiceUnavailable)
}

func TestAssistRelaysTrimmedOutput(t *testing.T) {
	svc := NewAssistService(testLogger(), router.NewStatic(mock.New(), config.EngineConfig{Type: config.EngineMock}), nil)

	out, err := svc.Assist(adminCtx(), "improve_title", assist.Context{Title: "Spotter", Description: "finds fakes"})
	require.NoError(t, err)
	require.Equal(t, "mock: Current title: Spotter\nDescription: finds fakes\nSuggest better titles:", out)
}

func TestAssistRejectsUnknownActionAndAnonymous(t *testing.T) {
	svc := NewAssistService(testLogger(), router.NewStatic(mock.New(), config.EngineConfig{Type: config.EngineMock}), nil)

	_, err := svc.Assist(adminCtx(), "write_poem", assist.Context{})
	requireAPIError(t, err, http.StatusBadRequest, apierr.CodeBadRequest)

	_, err = svc.Assist(context.Background(), "suggest_tags", assist.Context{})
	requireAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
}

func TestAssistBackendFailure(t *testing.T) {
	eng := &mock.Engine{Err: errors.New("connection refused")}
	svc := NewAssistService(testLogger(), router.NewStatic(eng, config.EngineConfig{Type: config.EngineOllama, Model: "llama3.2"}), nil)

	_, err := svc.Assist(adminCtx(), "generate_description", assist.Context{Title: "X"})
	ae := requireAPIError(t, err, http.StatusInternalServerError, apierr.CodeAssistBackendFailed)
	require.Equal(t, "AI assistance unavailable. Make sure Ollama is running.", ae.Error())
	require.ErrorContains(t, errors.Unwrap(errors.Unwrap(err)), "connection refused")
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestAssistBlankCompletionIsSuccess(t *testing.T) {
	cfg := config.EngineConfig{Type: config.EngineOllama, BaseURL: "http://ollama", Model: "llama3.2"}
	require.NoError(t, cfg.Normalize())
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(`{"response":"  \n ","done":true}`)),
			}, nil
		}),
	}
	eng, err := ollama.NewWithHTTPClient(cfg, client)
	require.NoError(t, err)
	svc := NewAssistService(testLogger(), router.NewStatic(eng, cfg), nil)

	out, err := svc.Assist(adminCtx(), "generate_description", assist.Context{Title: "Spotter"})
	require.NoError(t, err)
	require.Equal(t, "", out)
}

type recordingEngine struct {
	opts engine.GenerateOptions
}

func (e *recordingEngine) GenerateText(_ context.Context, _ string, _ []engine.Message, opts engine.GenerateOptions) (string, error) {
	e.opts = opts
	return "ok", nil
}

func TestAssistPassesConfiguredTemperature(t *testing.T) {
	eng := &recordingEngine{}
	svc := NewAssistService(testLogger(), router.NewStatic(eng, config.EngineConfig{Type: config.EngineMock, Temperature: 0.7}), nil)

	_, err := svc.Assist(adminCtx(), "suggest_tags", assist.Context{Title: "X"})
	require.NoError(t, err)
	require.InDelta(t, 0.7, eng.opts.Temperature, 1e-9)
}
