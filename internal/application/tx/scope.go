// Package tx defines the unit-of-work seam used by application services
// that must change several aggregates atomically.
package tx

import (
	"context"

	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
)

// TransactionalRepositories exposes repositories bound to one transaction
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Classes() catalog.ClassRepository
	Bookings() catalog.BookingRepository
	Carts() commerce.CartRepository
	Orders() order.Repository
	Fridges() inventory.FridgeRepository
	ProductionItems() inventory.ProductionItemRepository
	Stock() inventory.StockRepository
	ProductionLogs() inventory.ProductionLogRepository
	Movements() inventory.MovementRepository
}

// TransactionScope runs fn inside a transaction. Returning an error from
// fn rolls back every change made through repos.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
