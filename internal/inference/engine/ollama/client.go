package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/httpx"
)

// Engine calls a local Ollama server's non-streaming generate endpoint.
type Engine struct {
	baseURL      string
	generatePath string
	timeout      time.Duration

	httpClient *http.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ollama: base_url required")
	}
	path := strings.TrimSpace(cfg.GeneratePath)
	if path == "" {
		path = "/api/generate"
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Engine{
		baseURL:      baseURL,
		generatePath: path,
		timeout:      timeout,
		httpClient:   &http.Client{Transport: httpx.NewTransport()},
	}, nil
}

// NewWithHTTPClient is intended for tests.
func NewWithHTTPClient(cfg config.EngineConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options *generateOption `json:"options,omitempty"`
}

type generateOption struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	prompt := engine.Flatten(messages)
	if prompt == "" {
		return "", errors.New("no messages")
	}

	req := generateRequest{Model: model, Prompt: prompt, Stream: false}
	if opts.Temperature > 0 {
		req.Options = &generateOption{Temperature: opts.Temperature}
	}

	var resp generateResponse
	if err := httpx.DoJSON(ctx, e.httpClient, e.timeout, http.MethodPost, e.baseURL+e.generatePath, nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", errors.New("ollama: " + resp.Error)
	}
	return resp.Response, nil
}
