package commerce

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository persists carts with their items
type CartRepository interface {
	// FindByCustomer returns the customer's cart or shared.ErrNotFound
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Cart, error)
	// Save writes the cart and replaces its items
	Save(ctx context.Context, cart *Cart) error
}
