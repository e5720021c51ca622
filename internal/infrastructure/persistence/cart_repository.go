package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements commerce.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByCustomer loads the customer's cart with its items
func (r *GormCartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*commerce.Cart, error) {
	var cart commerce.Cart
	err := r.db.WithContext(ctx).
		Scopes(ownedRows(ctx, staffSees, "carts")).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("owner_id = ?", customerID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// Save writes the cart header and replaces its items in one transaction
func (r *GormCartRepository) Save(ctx context.Context, cart *commerce.Cart) error {
	if err := checkOwnedWrite(ctx, staffSees, cart.OwnerID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(cart).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&commerce.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
		}
		return translate(tx.Create(&cart.Items).Error)
	})
}

var _ commerce.CartRepository = (*GormCartRepository)(nil)
