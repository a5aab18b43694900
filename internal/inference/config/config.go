package config

import "time"

type Duration struct {
	Duration time.Duration
}

// Engine types understood by the router.
const (
	EngineDisabled = "disabled"
	EngineMock     = "mock"
	EngineOllama   = "ollama"
	EngineOAIHTTP  = "oai_http"
	EngineGemini   = "gemini"
)

type EngineConfig struct {
	Type string `json:"type" yaml:"type"`

	// BaseURL is the upstream server for "ollama" and "oai_http" engines. For
	// "gemini" it optionally overrides the public endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is sent as a bearer token (oai_http) or used as the Gemini API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Endpoint paths; defaults are filled in by Normalize.
	GeneratePath        string `json:"generate_path,omitempty" yaml:"generate_path,omitempty"`
	ChatCompletionsPath string `json:"chat_completions_path,omitempty" yaml:"chat_completions_path,omitempty"`

	Timeout     Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Temperature float64  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}
