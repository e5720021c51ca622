package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// Filter narrows order listings
type Filter struct {
	shared.Filter
	CustomerID      *uuid.UUID
	Status          Status
	FulfillmentType FulfillmentType
	From            *time.Time
	To              *time.Time
}

// Repository persists orders. Customers only see their own orders.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]Order, int64, error)
	// Create inserts the order with its items
	Create(ctx context.Context, order *Order) error
	// Save updates the order header
	Save(ctx context.Context, order *Order) error
}
