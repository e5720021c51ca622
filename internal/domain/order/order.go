package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order is a placed customer order. OwnerID is the customer.
type Order struct {
	shared.OwnedAggregateRoot
	Number          string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	ContactName     string          `gorm:"type:varchar(200);not null"`
	ContactEmail    string          `gorm:"type:varchar(255);not null"`
	ContactPhone    string          `gorm:"type:varchar(50)"`
	FulfillmentType FulfillmentType `gorm:"type:varchar(20);not null;index"`
	DeliveryAddress string          `gorm:"type:text"`
	PickupAt        *time.Time
	Status          Status          `gorm:"type:varchar(30);not null;default:'pending';index"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes           string          `gorm:"type:text"`
	CancelReason    string          `gorm:"type:varchar(500)"`
	PlacedAt        time.Time       `gorm:"not null;index"`
	StatusChangedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a priced line of an order
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Line is an item to be ordered at a confirmed price
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// PlaceParams carries everything needed to place an order
type PlaceParams struct {
	CustomerID      uuid.UUID
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	FulfillmentType FulfillmentType
	DeliveryAddress string
	PickupAt        *time.Time
	Notes           string
	Lines           []Line
}

// Place validates params, prices the lines and creates a pending order
func Place(params PlaceParams, pricing Pricing, pickupLead time.Duration, now time.Time) (*Order, error) {
	if params.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(params.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order needs at least one item")
	}
	name := strings.TrimSpace(params.ContactName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name is required")
	}
	email := strings.ToLower(strings.TrimSpace(params.ContactEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid contact email is required")
	}
	if !params.FulfillmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_FULFILLMENT", "Fulfillment must be delivery or pickup")
	}

	o := &Order{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(params.CustomerID),
		Number:             NewOrderNumber(now),
		ContactName:        name,
		ContactEmail:       email,
		ContactPhone:       strings.TrimSpace(params.ContactPhone),
		FulfillmentType:    params.FulfillmentType,
		Status:             StatusPending,
		Notes:              strings.TrimSpace(params.Notes),
		PlacedAt:           now,
		StatusChangedAt:    now,
	}

	switch params.FulfillmentType {
	case FulfillmentDelivery:
		addr := strings.TrimSpace(params.DeliveryAddress)
		if addr == "" {
			return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery orders need an address")
		}
		o.DeliveryAddress = addr
	case FulfillmentPickup:
		if params.PickupAt == nil {
			return nil, shared.NewDomainError("INVALID_PICKUP_TIME", "Pickup orders need a pickup time")
		}
		if params.PickupAt.Before(now.Add(pickupLead)) {
			return nil, shared.NewDomainError("INVALID_PICKUP_TIME",
				fmt.Sprintf("Pickup must be at least %d minutes from now", int(pickupLead/time.Minute)))
		}
		at := *params.PickupAt
		o.PickupAt = &at
	}

	subtotal := decimal.Zero
	o.Items = make([]OrderItem, 0, len(params.Lines))
	for _, l := range params.Lines {
		if l.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if l.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		line := shared.RoundMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		o.Items = append(o.Items, OrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			LineTotal:   line,
		})
		subtotal = subtotal.Add(line)
	}

	totals := pricing.Quote(subtotal, o.FulfillmentType)
	o.Subtotal = totals.Subtotal
	o.DeliveryFee = totals.DeliveryFee
	o.Tax = totals.Tax
	o.Total = totals.Total

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// CustomerID returns the ordering customer
func (o *Order) CustomerID() uuid.UUID {
	return o.OwnerID
}

// TransitionTo moves the order to next following the status machine
func (o *Order) TransitionTo(next Status, now time.Time) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(next) || !allowedFor(next, o.FulfillmentType) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot move a %s %s order to %s", o.FulfillmentType, o.Status, next))
	}
	old := o.Status
	o.Status = next
	o.StatusChangedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}

// Cancel cancels a pending or confirmed order
func (o *Order) Cancel(reason string, now time.Time) error {
	prev := o.CancelReason
	o.CancelReason = strings.TrimSpace(reason)
	if err := o.TransitionTo(StatusCancelled, now); err != nil {
		o.CancelReason = prev
		return err
	}
	return nil
}

// CancelByCustomer lets the owner cancel while the shop has not confirmed
func (o *Order) CancelByCustomer(reason string, now time.Time) error {
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only pending orders can be cancelled")
	}
	return o.Cancel(reason, now)
}

// ItemCount returns the total quantity ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// NewOrderNumber returns a human friendly number like RS-20260314-4F09AC
func NewOrderNumber(now time.Time) string {
	return "RS-" + now.Format("20060102") + "-" + strings.ToUpper(shared.NewToken()[:6])
}
