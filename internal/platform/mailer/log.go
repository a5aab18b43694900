package mailer

import (
	"context"
	"sync"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// Log records messages instead of delivering them. It is the fallback when no
// provider is configured and doubles as a test recorder.
type Log struct {
	log  *logger.Logger
	from Address

	mu   sync.Mutex
	sent []Message
}

func NewLog(log *logger.Logger, from Address) *Log {
	if log == nil {
		log = logger.NewNop()
	}
	if from.Email == "" {
		from.Email = "no-reply@localhost"
	}
	return &Log{log: log.With("client", "LogMailer"), from: from}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.From.Email == "" {
		msg.From = l.from
	}
	if err := validate(msg); err != nil {
		return err
	}
	l.mu.Lock()
	l.sent = append(l.sent, msg)
	l.mu.Unlock()

	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.Email)
	}
	l.log.Info("Mail not delivered (log provider)", "to_email", to, "subject", msg.Subject)
	return nil
}

// Sent returns a copy of every message accepted so far.
func (l *Log) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.sent))
	copy(out, l.sent)
	return out
}
