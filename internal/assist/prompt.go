package assist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
)

var (
	ErrUnknownIntent = errors.New("unknown assist action")
	ErrDisabled      = errors.New("assist backend disabled")
)

// Intent is one of the fixed content-assist actions offered by the admin UI.
type Intent string

const (
	IntentGenerateDescription Intent = "generate_description"
	IntentEnhanceDescription  Intent = "enhance_description"
	IntentSuggestTags         Intent = "suggest_tags"
	IntentImproveTitle        Intent = "improve_title"
)

func Intents() []Intent {
	return []Intent{
		IntentGenerateDescription,
		IntentEnhanceDescription,
		IntentSuggestTags,
		IntentImproveTitle,
	}
}

func ParseIntent(s string) (Intent, error) {
	in := Intent(strings.TrimSpace(s))
	for _, known := range Intents() {
		if in == known {
			return in, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIntent, s)
}

// Context is the project draft the admin is editing. Tags arrive either as a
// list or as the raw comma separated input field, so both are accepted.
type Context struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        Tags   `json:"tags"`
}

// Prompt is the fixed system/user pair for one intent.
type Prompt struct {
	System string
	User   string
}

// Messages is the chat form.
func (p Prompt) Messages() []engine.Message {
	return []engine.Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
}

// Build returns the prompt for intent. Every Intent value has a case; an
// unrecognised value is an error rather than a free-form pass-through.
func Build(intent Intent, c Context) (Prompt, error) {
	switch intent {
	case IntentGenerateDescription:
		return Prompt{
			System: "You are a professional portfolio writer. Generate a compelling, concise project description (2-3 sentences) that highlights the key features and impact.",
			User:   fmt.Sprintf("Project title: %s\nTechnologies: %s\nGenerate a professional description:", c.Title, c.Tags.String()),
		}, nil
	case IntentEnhanceDescription:
		return Prompt{
			System: "You are a professional portfolio writer. Improve this project description to be more compelling and professional while keeping it concise (2-3 sentences).",
			User:   fmt.Sprintf("Current description: %s\nImprove it:", c.Description),
		}, nil
	case IntentSuggestTags:
		return Prompt{
			System: "You are a tech expert. Suggest 5-7 relevant technology tags for this project. Return ONLY a comma-separated list, no explanations.",
			User:   fmt.Sprintf("Project: %s\nDescription: %s\nSuggest tags:", c.Title, c.Description),
		}, nil
	case IntentImproveTitle:
		return Prompt{
			System: "You are a branding expert. Suggest 3 improved, catchy project titles. Return ONLY the titles, one per line, no numbers or explanations.",
			User:   fmt.Sprintf("Current title: %s\nDescription: %s\nSuggest better titles:", c.Title, c.Description),
		}, nil
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownIntent, string(intent))
	}
}
