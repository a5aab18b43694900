package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderSendGrid Provider = "sendgrid"
	ProviderLog      Provider = "log"
)

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

type Message struct {
	From    Address
	ReplyTo *Address
	To      []Address
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers one message. Implementations fill From from their defaults
// when it is empty.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Provider  Provider `yaml:"provider"`
	FromEmail string   `yaml:"from_email"`
	FromName  string   `yaml:"from_name"`

	SMTP     SMTPConfig     `yaml:"smtp"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
}

// New picks the provider. An empty provider resolves to SendGrid when an API
// key is present, SMTP when a host is present, and the log mailer otherwise.
func New(cfg Config, log *logger.Logger) (Mailer, error) {
	if log == nil {
		log = logger.NewNop()
	}
	provider := Provider(strings.ToLower(strings.TrimSpace(string(cfg.Provider))))
	if provider == "" {
		switch {
		case strings.TrimSpace(cfg.SendGrid.APIKey) != "":
			provider = ProviderSendGrid
		case strings.TrimSpace(cfg.SMTP.Host) != "":
			provider = ProviderSMTP
		default:
			provider = ProviderLog
		}
	}

	from := Address{Email: strings.TrimSpace(cfg.FromEmail), Name: strings.TrimSpace(cfg.FromName)}
	switch provider {
	case ProviderSendGrid:
		sg := cfg.SendGrid
		if sg.DefaultFromEmail == "" {
			sg.DefaultFromEmail = from.Email
		}
		if sg.DefaultFromName == "" {
			sg.DefaultFromName = from.Name
		}
		return NewSendGrid(log, sg)
	case ProviderSMTP:
		return NewSMTP(log, cfg.SMTP, from)
	case ProviderLog:
		return NewLog(log, from), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", provider)
	}
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.From.Email) == "" {
		return fmt.Errorf("mailer: From.Email required")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mailer: To required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("mailer: Subject required")
	}
	if strings.TrimSpace(msg.Text) == "" && strings.TrimSpace(msg.HTML) == "" {
		return fmt.Errorf("mailer: Text or HTML content required")
	}
	return nil
}
