package order

import (
	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate and event type names
const (
	AggregateTypeOrder          = "Order"
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlacedEvent is published when checkout creates an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	Number          string          `json:"number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	ContactName     string          `json:"contact_name"`
	ContactEmail    string          `json:"contact_email"`
	FulfillmentType FulfillmentType `json:"fulfillment_type"`
	ItemCount       int             `json:"item_count"`
	Total           decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		CustomerID:      o.OwnerID,
		ContactName:     o.ContactName,
		ContactEmail:    o.ContactEmail,
		FulfillmentType: o.FulfillmentType,
		ItemCount:       o.ItemCount(),
		Total:           o.Total,
	}
}

// OrderStatusChangedEvent is published on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	OldStatus    Status `json:"old_status"`
	NewStatus    Status `json:"new_status"`
	Reason       string `json:"reason,omitempty"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, old Status) *OrderStatusChangedEvent {
	e := &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		ContactName:     o.ContactName,
		ContactEmail:    o.ContactEmail,
		OldStatus:       old,
		NewStatus:       o.Status,
	}
	if o.Status == StatusCancelled {
		e.Reason = o.CancelReason
	}
	return e
}
