package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/order"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM.
// Customers only see and modify their own orders.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(ownedRows(ctx, staffSees, "orders"))
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.scoped(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindByNumber finds an order by its human readable number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.scoped(ctx).Preload("Items").
		Where("number = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindAll lists orders visible to the actor, newest first by default
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	query := r.scoped(ctx).Model(&order.Order{})
	if filter.CustomerID != nil {
		query = query.Where("owner_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FulfillmentType != "" {
		query = query.Where("fulfillment_type = ?", filter.FulfillmentType)
	}
	if filter.From != nil {
		query = query.Where("placed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("placed_at < ?", *filter.To)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(contact_email) LIKE ?",
			pattern, pattern, pattern)
	}

	page := paginate(filter.Filter, OrderSortFields, "placed_at")
	var orders []order.Order
	total, err := listPage(query, func(db *gorm.DB) *gorm.DB {
		return page(db).Preload("Items")
	}, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Create inserts a new order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := checkOwnedWrite(ctx, staffSees, o.OwnerID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
			return translate(err)
		}
		if len(o.Items) == 0 {
			return nil
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
		}
		return translate(tx.Create(&o.Items).Error)
	})
}

// Save updates the order header guarded by its version
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if err := checkOwnedWrite(ctx, staffSees, o.OwnerID); err != nil {
		return err
	}
	return saveVersioned(r.db.WithContext(ctx), o, o.ID, o.Version)
}

var _ order.Repository = (*GormOrderRepository)(nil)
