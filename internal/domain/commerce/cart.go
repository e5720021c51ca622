package commerce

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps the quantity of a single cart line
const MaxItemQuantity = 99

// Cart is the single open basket of a customer (the owner)
type Cart struct {
	shared.OwnedAggregateRoot
	Items []CartItem `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a product line with the price seen when it was added
type CartItem struct {
	shared.BaseEntity
	CartID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product,priority:2"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is unit price × quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return shared.RoundMoney(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// NewCart creates an empty cart for customerID
func NewCart(customerID uuid.UUID) (*Cart, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &Cart{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(customerID),
		Items:              make([]CartItem, 0),
	}, nil
}

// AddItem adds qty of a product, merging with an existing line
func (c *Cart) AddItem(productID uuid.UUID, name string, unitPrice decimal.Decimal, qty int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if idx := c.indexOf(productID); idx >= 0 {
		total := c.Items[idx].Quantity + qty
		if total > MaxItemQuantity {
			return quantityTooLarge()
		}
		c.Items[idx].Quantity = total
		c.Items[idx].ProductName = name
		c.Items[idx].UnitPrice = shared.RoundMoney(unitPrice)
		c.Items[idx].Touch()
		c.IncrementVersion()
		return nil
	}
	if qty > MaxItemQuantity {
		return quantityTooLarge()
	}
	c.Items = append(c.Items, CartItem{
		BaseEntity:  shared.NewBaseEntity(),
		CartID:      c.ID,
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   shared.RoundMoney(unitPrice),
		Quantity:    qty,
	})
	c.IncrementVersion()
	return nil
}

// SetQuantity replaces the quantity of an existing line
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if qty > MaxItemQuantity {
		return quantityTooLarge()
	}
	idx := c.indexOf(productID)
	if idx < 0 {
		return shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}
	c.Items[idx].Quantity = qty
	c.Items[idx].Touch()
	c.IncrementVersion()
	return nil
}

// RemoveItem drops a product line
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.IncrementVersion()
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.IncrementVersion()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal sums the line totals at the snapshotted prices
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// ItemCount returns the total quantity in the cart
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func quantityTooLarge() error {
	return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity cannot exceed %d", MaxItemQuantity))
}
