package engine

import (
	"context"
	"strings"
)

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Temperature float64
}

// Engine produces one blocking completion. Implementations must honour ctx.
type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// Flatten joins messages into a single prompt for engines that take raw text.
// System and user turns are separated by a blank line.
func Flatten(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if c := strings.TrimSpace(m.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}
