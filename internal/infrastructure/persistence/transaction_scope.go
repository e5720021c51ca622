package persistence

import (
	"context"

	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope implements tx.TransactionScope on a gorm transaction
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a transaction; any error rolls everything back
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos tx.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: txDB})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Classes() catalog.ClassRepository {
	return NewGormClassRepository(r.tx)
}

func (r *gormTransactionalRepositories) Bookings() catalog.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

func (r *gormTransactionalRepositories) Carts() commerce.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Fridges() inventory.FridgeRepository {
	return NewGormFridgeRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductionItems() inventory.ProductionItemRepository {
	return NewGormProductionItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Stock() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductionLogs() inventory.ProductionLogRepository {
	return NewGormProductionLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ tx.TransactionScope = (*GormTransactionScope)(nil)
