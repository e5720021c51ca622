package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate and event type names
const (
	AggregateTypeClassBooking = "ClassBooking"
	EventTypeClassBooked      = "ClassBooked"
)

// ClassBookedEvent is published when a customer books a class
type ClassBookedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	ClassID    uuid.UUID       `json:"class_id"`
	ClassTitle string          `json:"class_title"`
	StartsAt   time.Time       `json:"starts_at"`
	Location   string          `json:"location"`
	Seats      int             `json:"seats"`
	Total      decimal.Decimal `json:"total"`
}

// NewClassBookedEvent creates a ClassBookedEvent
func NewClassBookedEvent(b *ClassBooking, c *Class) *ClassBookedEvent {
	return &ClassBookedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClassBooked, AggregateTypeClassBooking, b.ID),
		CustomerID:      b.OwnerID,
		ClassID:         c.ID,
		ClassTitle:      c.Title,
		StartsAt:        c.StartsAt,
		Location:        c.Location,
		Seats:           b.Seats,
		Total:           b.Total,
	}
}
