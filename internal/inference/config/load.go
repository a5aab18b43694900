package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
	DefaultGeminiModel = "gemini-flash-latest"
	DefaultTimeout     = 60 * time.Second
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int number of seconds: %w", err)
	}
	d.Duration = time.Duration(n) * time.Second
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Duration.String())), nil
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

// Normalize fills defaults and validates the engine block. The base URL is left
// alone; the router decides what an empty one means for the environment.
func (c *EngineConfig) Normalize() error {
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Model = strings.TrimSpace(c.Model)
	c.APIKey = strings.TrimSpace(c.APIKey)

	switch c.Type {
	case "":
		c.Type = EngineOllama
	case "openai_http":
		c.Type = EngineOAIHTTP
	}

	if c.Timeout.Duration < 0 {
		return fmt.Errorf("engine %q invalid timeout", c.Type)
	}
	if c.Timeout.Duration == 0 {
		c.Timeout = Duration{Duration: DefaultTimeout}
	}
	if c.Temperature < 0 {
		return fmt.Errorf("engine %q invalid temperature", c.Type)
	}

	switch c.Type {
	case EngineDisabled, EngineMock:
	case EngineOllama:
		if c.Model == "" {
			c.Model = DefaultOllamaModel
		}
		if c.GeneratePath == "" {
			c.GeneratePath = "/api/generate"
		}
	case EngineOAIHTTP:
		if c.ChatCompletionsPath == "" {
			c.ChatCompletionsPath = "/v1/chat/completions"
		}
	case EngineGemini:
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
	default:
		return fmt.Errorf("unsupported engine type %q", c.Type)
	}
	return nil
}

// NeedsBaseURL reports whether the engine talks to a self-hosted server.
func (c EngineConfig) NeedsBaseURL() bool {
	return c.Type == EngineOllama || c.Type == EngineOAIHTTP
}
