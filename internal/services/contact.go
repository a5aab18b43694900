package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/inbox"
	"github.com/adamn1225/adam-noahs-stuff/internal/domain/contact"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/mailer"
)

type ContactService interface {
	Submit(ctx context.Context, sub contact.Submission, meta map[string]any) error
	ListRecent(ctx context.Context, limit int) ([]*contact.Message, error)
}

type contactService struct {
	log        *logger.Logger
	mail       mailer.Mailer
	inbox      inbox.Repo
	adminEmail string
	metrics    *observability.Metrics
}

var (
	emailCheckOnce sync.Once
	emailCheck     *validator.Validate
)

func NewContactService(log *logger.Logger, m mailer.Mailer, repo inbox.Repo, adminEmail string, metrics *observability.Metrics) ContactService {
	serviceLog := log.With("service", "ContactService")
	if repo == nil {
		repo = inbox.NewRepo(nil, log)
	}
	return &contactService{
		log:        serviceLog,
		mail:       m,
		inbox:      repo,
		adminEmail: strings.TrimSpace(adminEmail),
		metrics:    metrics,
	}
}

func (s *contactService) Submit(ctx context.Context, sub contact.Submission, meta map[string]any) error {
	v := contactView{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.TrimSpace(sub.Email),
		Subject: strings.TrimSpace(sub.Subject),
		Message: strings.TrimSpace(sub.Message),
	}
	if v.Name == "" || v.Email == "" || v.Subject == "" || v.Message == "" {
		return apierr.BadRequest("All fields are required")
	}
	if !validEmail(v.Email) {
		return apierr.BadRequest("Invalid email address")
	}
	if s.adminEmail == "" {
		return apierr.Internal("Failed to send email", fmt.Errorf("no admin recipient configured"))
	}

	row, err := s.inbox.Create(ctx, nil, &contact.Message{
		Name:    v.Name,
		Email:   v.Email,
		Subject: v.Subject,
		Body:    v.Message,
		Meta:    datatypes.JSONMap(meta),
	})
	if err != nil {
		// The mail is still worth sending when the inbox is down.
		s.log.Warn("Failed to store contact message", "error", err, "request_id", ctxutil.RequestID(ctx))
		row = nil
	}

	msgs, err := s.render(v)
	if err != nil {
		return apierr.Internal("Failed to send email", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range msgs {
		g.Go(func() error { return s.mail.Send(gctx, m) })
	}
	sendErr := g.Wait()

	status, errText := contact.StatusSent, ""
	if sendErr != nil {
		status, errText = contact.StatusFailed, sendErr.Error()
	}
	if row != nil {
		if err := s.inbox.UpdateStatus(context.WithoutCancel(ctx), nil, row.ID, status, errText); err != nil {
			s.log.Warn("Failed to update contact message status", "message_id", row.ID, "error", err)
		}
	}
	s.metrics.IncContact(status)

	if sendErr != nil {
		s.log.Error("Error sending email", "error", sendErr, "email", v.Email, "request_id", ctxutil.RequestID(ctx))
		return apierr.Internal("Failed to send email", sendErr)
	}
	s.log.Info("Contact message delivered", "email", v.Email)
	return nil
}

func (s *contactService) render(v contactView) ([]mailer.Message, error) {
	adminBodyHTML, err := renderHTML(adminHTML, v)
	if err != nil {
		return nil, err
	}
	adminBodyText, err := renderText(adminText, v)
	if err != nil {
		return nil, err
	}
	senderBodyHTML, err := renderHTML(senderHTML, v)
	if err != nil {
		return nil, err
	}
	senderBodyText, err := renderText(senderText, v)
	if err != nil {
		return nil, err
	}
	visitor := mailer.Address{Email: v.Email, Name: v.Name}
	return []mailer.Message{
		{
			To:      []mailer.Address{{Email: s.adminEmail}},
			ReplyTo: &visitor,
			Subject: "Portfolio Contact: " + v.Subject,
			Text:    adminBodyText,
			HTML:    adminBodyHTML,
		},
		{
			To:      []mailer.Address{visitor},
			Subject: fmt.Sprintf("Thanks for reaching out, %s!", v.Name),
			Text:    senderBodyText,
			HTML:    senderBodyHTML,
		},
	}, nil
}

func (s *contactService) ListRecent(ctx context.Context, limit int) ([]*contact.Message, error) {
	if !ctxutil.IsAuthenticated(ctx) {
		return nil, apierr.Unauthorized()
	}
	out, err := s.inbox.ListRecent(ctx, nil, limit)
	if err != nil {
		return nil, apierr.Internal("Failed to load messages", err)
	}
	return out, nil
}

func validEmail(email string) bool {
	emailCheckOnce.Do(func() { emailCheck = validator.New() })
	return emailCheck.Var(email, "required,email") == nil
}
