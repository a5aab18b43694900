package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Delivery states of an inbox message.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Submission is the contact form as posted by a visitor.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Message is one stored submission together with its delivery outcome.
type Message struct {
	ID      uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string            `gorm:"not null;column:name" json:"name"`
	Email   string            `gorm:"not null;index;column:email" json:"email"`
	Subject string            `gorm:"not null;column:subject" json:"subject"`
	Body    string            `gorm:"not null;column:body" json:"message"`
	Status  string            `gorm:"not null;index;column:status;default:pending" json:"status"`
	Error   string            `gorm:"column:error" json:"error,omitempty"`
	Meta    datatypes.JSONMap `gorm:"column:meta" json:"meta,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string { return "contact_message" }

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = StatusPending
	}
	return nil
}
