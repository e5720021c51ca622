package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductionItemRepository implements inventory.ProductionItemRepository
type GormProductionItemRepository struct {
	db *gorm.DB
}

// NewGormProductionItemRepository creates a new GormProductionItemRepository
func NewGormProductionItemRepository(db *gorm.DB) *GormProductionItemRepository {
	return &GormProductionItemRepository{db: db}
}

// FindByID finds a production item by ID
func (r *GormProductionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionItem, error) {
	var item inventory.ProductionItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindByIDs loads several production items at once
func (r *GormProductionItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.ProductionItem, error) {
	if len(ids) == 0 {
		return []inventory.ProductionItem{}, nil
	}
	var items []inventory.ProductionItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBySKU finds a production item by SKU
func (r *GormProductionItemRepository) FindBySKU(ctx context.Context, sku string) (*inventory.ProductionItem, error) {
	var item inventory.ProductionItem
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindByQRToken resolves a scanned label to its production item
func (r *GormProductionItemRepository) FindByQRToken(ctx context.Context, token string) (*inventory.ProductionItem, error) {
	var item inventory.ProductionItem
	if err := r.db.WithContext(ctx).Where("qr_token = ?", token).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindAll lists production items with the total count
func (r *GormProductionItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ProductionItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.ProductionItem{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", strings.ToLower(category))
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}

	f := filter
	if f.OrderBy == "" {
		f.OrderBy, f.OrderDir = "name", "asc"
	}
	var items []inventory.ProductionItem
	total, err := listPage(query, paginate(f, ProductionItemSortFields, "name"), &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsBySKU reports whether the SKU is taken
func (r *GormProductionItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.ProductionItem{}).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a production item
func (r *GormProductionItemRepository) Save(ctx context.Context, item *inventory.ProductionItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

// GormFridgeRepository implements inventory.FridgeRepository
type GormFridgeRepository struct {
	db *gorm.DB
}

// NewGormFridgeRepository creates a new GormFridgeRepository
func NewGormFridgeRepository(db *gorm.DB) *GormFridgeRepository {
	return &GormFridgeRepository{db: db}
}

// FindByID finds a fridge by ID
func (r *GormFridgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Fridge, error) {
	var f inventory.Fridge
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// FindByIDForUpdate finds a fridge by ID and locks its row
func (r *GormFridgeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Fridge, error) {
	var f inventory.Fridge
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// FindByQRToken resolves a scanned label to its fridge
func (r *GormFridgeRepository) FindByQRToken(ctx context.Context, token string) (*inventory.Fridge, error) {
	var f inventory.Fridge
	if err := r.db.WithContext(ctx).Where("qr_token = ?", token).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// FindAll lists fridges ordered by name
func (r *GormFridgeRepository) FindAll(ctx context.Context, activeOnly bool) ([]inventory.Fridge, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var fridges []inventory.Fridge
	if err := query.Find(&fridges).Error; err != nil {
		return nil, err
	}
	return fridges, nil
}

// Save creates or updates a fridge
func (r *GormFridgeRepository) Save(ctx context.Context, fridge *inventory.Fridge) error {
	return translate(r.db.WithContext(ctx).Save(fridge).Error)
}

// GormStockRepository implements inventory.StockRepository
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByFridge returns every stock row of a fridge
func (r *GormStockRepository) FindByFridge(ctx context.Context, fridgeID uuid.UUID) ([]inventory.FridgeStock, error) {
	var rows []inventory.FridgeStock
	if err := r.db.WithContext(ctx).
		Where("fridge_id = ?", fridgeID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetForUpdate locks the (fridge, item) row, or returns a fresh unsaved one
func (r *GormStockRepository) GetForUpdate(ctx context.Context, fridgeID, itemID uuid.UUID) (*inventory.FridgeStock, error) {
	var row inventory.FridgeStock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fridge_id = ? AND production_item_id = ?", fridgeID, itemID).
		First(&row).Error
	if err == nil {
		return &row, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.NewFridgeStock(fridgeID, itemID), nil
	}
	return nil, err
}

// FindAll returns every stock row
func (r *GormStockRepository) FindAll(ctx context.Context) ([]inventory.FridgeStock, error) {
	var rows []inventory.FridgeStock
	if err := r.db.WithContext(ctx).Order("fridge_id, production_item_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindExpiringBefore returns stocked rows whose oldest batch expires before t
func (r *GormStockRepository) FindExpiringBefore(ctx context.Context, t time.Time) ([]inventory.FridgeStock, error) {
	var rows []inventory.FridgeStock
	if err := r.db.WithContext(ctx).
		Where("portions > 0 AND earliest_expiry IS NOT NULL AND earliest_expiry < ?", t).
		Order("earliest_expiry ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates a stock row
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.FridgeStock) error {
	return translate(r.db.WithContext(ctx).Save(stock).Error)
}

// GormProductionLogRepository implements inventory.ProductionLogRepository
type GormProductionLogRepository struct {
	db *gorm.DB
}

// NewGormProductionLogRepository creates a new GormProductionLogRepository
func NewGormProductionLogRepository(db *gorm.DB) *GormProductionLogRepository {
	return &GormProductionLogRepository{db: db}
}

// FindAll lists production logs, newest first by default
func (r *GormProductionLogRepository) FindAll(ctx context.Context, filter inventory.ProductionLogFilter) ([]inventory.ProductionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.ProductionLog{})
	if filter.ItemID != nil {
		query = query.Where("production_item_id = ?", *filter.ItemID)
	}
	if filter.FridgeID != nil {
		query = query.Where("fridge_id = ?", *filter.FridgeID)
	}
	if filter.From != nil {
		query = query.Where("produced_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("produced_at < ?", *filter.To)
	}

	var logs []inventory.ProductionLog
	total, err := listPage(query, paginate(filter.Filter, ProductionLogSortFields, "produced_at"), &logs)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Save creates or updates a production log
func (r *GormProductionLogRepository) Save(ctx context.Context, log *inventory.ProductionLog) error {
	return translate(r.db.WithContext(ctx).Save(log).Error)
}

// GormMovementRepository implements inventory.MovementRepository
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends an audit row
func (r *GormMovementRepository) Create(ctx context.Context, m *inventory.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByFridge returns the latest movements of a fridge
func (r *GormMovementRepository) FindByFridge(ctx context.Context, fridgeID uuid.UUID, limit int) ([]inventory.InventoryMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var rows []inventory.InventoryMovement
	if err := r.db.WithContext(ctx).
		Where("fridge_id = ?", fridgeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var (
	_ inventory.ProductionItemRepository = (*GormProductionItemRepository)(nil)
	_ inventory.FridgeRepository         = (*GormFridgeRepository)(nil)
	_ inventory.StockRepository          = (*GormStockRepository)(nil)
	_ inventory.ProductionLogRepository  = (*GormProductionLogRepository)(nil)
	_ inventory.MovementRepository       = (*GormMovementRepository)(nil)
)
