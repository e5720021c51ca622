package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// ProductionItemRepository persists production items
type ProductionItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductionItem, error)
	FindBySKU(ctx context.Context, sku string) (*ProductionItem, error)
	FindByQRToken(ctx context.Context, token string) (*ProductionItem, error)
	// FindAll supports filters "category" and "active"; Search matches name and SKU
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionItem, int64, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, item *ProductionItem) error
}

// FridgeRepository persists fridges
type FridgeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Fridge, error)
	// FindByIDForUpdate locks the fridge row until the transaction ends.
	// Stock writes take this lock before checking capacity.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Fridge, error)
	FindByQRToken(ctx context.Context, token string) (*Fridge, error)
	FindAll(ctx context.Context, activeOnly bool) ([]Fridge, error)
	Save(ctx context.Context, fridge *Fridge) error
}

// StockRepository persists fridge stock rows
type StockRepository interface {
	FindByFridge(ctx context.Context, fridgeID uuid.UUID) ([]FridgeStock, error)
	// GetForUpdate returns the row for (fridge, item), creating an empty
	// one in memory when missing. Inside a transaction the row is locked.
	GetForUpdate(ctx context.Context, fridgeID, itemID uuid.UUID) (*FridgeStock, error)
	FindAll(ctx context.Context) ([]FridgeStock, error)
	// FindExpiringBefore returns non-empty rows whose earliest batch expires before t
	FindExpiringBefore(ctx context.Context, t time.Time) ([]FridgeStock, error)
	Save(ctx context.Context, stock *FridgeStock) error
}

// ProductionLogFilter narrows production log listings
type ProductionLogFilter struct {
	shared.Filter
	ItemID   *uuid.UUID
	FridgeID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

// ProductionLogRepository persists production logs
type ProductionLogRepository interface {
	FindAll(ctx context.Context, filter ProductionLogFilter) ([]ProductionLog, int64, error)
	Save(ctx context.Context, log *ProductionLog) error
}

// MovementRepository appends inventory audit rows
type MovementRepository interface {
	Create(ctx context.Context, m *InventoryMovement) error
	FindByFridge(ctx context.Context, fridgeID uuid.UUID, limit int) ([]InventoryMovement, error)
}
