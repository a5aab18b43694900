package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
)

// Engine echoes the last user message. Used for local runs without a model server.
type Engine struct {
	// Err, when set, is returned from every call.
	Err error
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	_ = opts
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Err != nil {
		return "", e.Err
	}

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	if model == "" {
		return fmt.Sprintf("mock: %s", user), nil
	}
	return fmt.Sprintf("mock(%s): %s", model, user), nil
}
