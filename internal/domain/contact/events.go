package contact

import "github.com/ramenshop/backend/internal/domain/shared"

// Aggregate and event type names
const (
	AggregateTypeMessage     = "ContactMessage"
	EventTypeMessageReceived = "ContactMessageReceived"
)

// MessageReceivedEvent is published when a visitor sends a message
type MessageReceivedEvent struct {
	shared.BaseDomainEvent
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewMessageReceivedEvent creates a MessageReceivedEvent
func NewMessageReceivedEvent(m *Message) *MessageReceivedEvent {
	return &MessageReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageReceived, AggregateTypeMessage, m.ID),
		Name:            m.Name,
		Email:           m.Email,
		Subject:         m.Subject,
		Body:            m.Body,
	}
}
