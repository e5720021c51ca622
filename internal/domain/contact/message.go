package contact

import (
	"net/mail"
	"strings"

	"github.com/ramenshop/backend/internal/domain/shared"
)

// Status is the triage state of a contact message
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusNew || s == StatusRead || s == StatusArchived
}

// Message is a note sent through the storefront contact form
type Message struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"type:varchar(200);not null"`
	Email     string `gorm:"type:varchar(255);not null"`
	Subject   string `gorm:"type:varchar(200);not null"`
	Body      string `gorm:"type:text;not null"`
	Status    Status `gorm:"type:varchar(20);not null;default:'new';index"`
	IPAddress string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "contact_messages"
}

// NewMessage validates and creates a new message
func NewMessage(name, email, subject, body, ip string) (*Message, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name is required and must be under 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email is required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "General enquiry"
	}
	if len(subject) > 200 {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot exceed 200 characters")
	}
	body = strings.TrimSpace(body)
	if len(body) < 5 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message is too short")
	}
	if len(body) > 5000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 5000 characters")
	}

	m := &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Subject:           subject,
		Body:              body,
		Status:            StatusNew,
		IPAddress:         ip,
	}
	m.AddDomainEvent(NewMessageReceivedEvent(m))
	return m, nil
}

// SetStatus moves the message to read or archived
func (m *Message) SetStatus(status Status) error {
	if status != StatusRead && status != StatusArchived {
		return shared.NewDomainError("INVALID_STATUS", "Status must be read or archived")
	}
	m.Status = status
	m.IncrementVersion()
	return nil
}
