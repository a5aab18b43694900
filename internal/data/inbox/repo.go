package inbox

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/contact"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

var ErrNotFound = errors.New("inbox message not found")

type Repo interface {
	Create(ctx context.Context, tx *gorm.DB, msg *contact.Message) (*contact.Message, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status, errText string) error
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*contact.Message, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewRepo returns a gorm-backed inbox, or a no-op inbox when db is nil.
func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	repoLog := baseLog.With("repo", "InboxRepo")
	if db == nil {
		return nopRepo{}
	}
	return &repo{db: db, log: repoLog}
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, msg *contact.Message) (*contact.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if msg == nil {
		return nil, errors.New("nil message")
	}
	if err := transaction.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *repo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status, errText string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&contact.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"error":  errText,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*contact.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var results []*contact.Message
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// nopRepo accepts writes and remembers nothing.
type nopRepo struct{}

func (nopRepo) Create(_ context.Context, _ *gorm.DB, msg *contact.Message) (*contact.Message, error) {
	if msg != nil && msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return msg, nil
}

func (nopRepo) UpdateStatus(context.Context, *gorm.DB, uuid.UUID, string, string) error { return nil }

func (nopRepo) ListRecent(context.Context, *gorm.DB, int) ([]*contact.Message, error) {
	return []*contact.Message{}, nil
}
