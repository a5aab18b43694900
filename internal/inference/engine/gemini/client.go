package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
)

// Engine calls the Gemini API through the official genai SDK.
type Engine struct {
	client  *genai.Client
	timeout time.Duration
}

func New(ctx context.Context, cfg config.EngineConfig) (*Engine, error) {
	return NewWithHTTPClient(ctx, cfg, nil)
}

// NewWithHTTPClient lets tests replay canned responses. With a custom client
// an empty API key is accepted.
func NewWithHTTPClient(ctx context.Context, cfg config.EngineConfig, httpClient *http.Client) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && httpClient == nil {
		return nil, errors.New("gemini: api_key required")
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Engine{client: client, timeout: timeout}, nil
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	prompt := engine.Flatten(messages)
	if prompt == "" {
		return "", errors.New("no messages")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var gcfg *genai.GenerateContentConfig
	if opts.Temperature > 0 {
		gcfg = &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(opts.Temperature))}
	}

	resp, err := e.client.Models.GenerateContent(ctx, model, genai.Text(prompt), gcfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	// a blocked or empty answer is still an answer
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
