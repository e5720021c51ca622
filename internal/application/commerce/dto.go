package commerce

import (
	"time"

	"github.com/google/uuid"
	orderapp "github.com/ramenshop/backend/internal/application/order"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateItemRequest sets the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// CartItemResponse is a cart line in API responses
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total" swaggertype:"string"`
}

// CartResponse is the customer's cart
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal" swaggertype:"string"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// ToCartResponse converts a cart; nil renders as an empty cart
func ToCartResponse(c *commerce.Cart) CartResponse {
	if c == nil {
		return CartResponse{Items: []CartItemResponse{}, Subtotal: decimal.Zero}
	}
	items := make([]CartItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = CartItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal(),
		}
	}
	updated := c.UpdatedAt
	return CartResponse{
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		UpdatedAt: &updated,
	}
}

// CheckoutRequest turns the cart into an order
type CheckoutRequest struct {
	ContactName     string     `json:"contact_name" binding:"required,max=200"`
	ContactEmail    string     `json:"contact_email" binding:"required,email,max=255"`
	ContactPhone    string     `json:"contact_phone" binding:"max=50"`
	FulfillmentType string     `json:"fulfillment_type" binding:"required,oneof=delivery pickup"`
	DeliveryAddress string     `json:"delivery_address" binding:"required_if=FulfillmentType delivery,max=500"`
	PickupAt        *time.Time `json:"pickup_at" binding:"required_if=FulfillmentType pickup"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// QuoteRequest prices the cart without placing an order
type QuoteRequest struct {
	FulfillmentType string `form:"fulfillment_type" binding:"required,oneof=delivery pickup"`
}

// QuoteResponse is the priced cart
type QuoteResponse struct {
	order.Totals
	FulfillmentType string `json:"fulfillment_type"`
	Currency        string `json:"currency"`
	ItemCount       int    `json:"item_count"`
	// Repriced is true when a catalog price changed since items were added
	Repriced bool `json:"repriced"`
}

// CheckoutResult is the placed order. Replayed is set when an earlier
// request with the same idempotency key already placed it.
type CheckoutResult struct {
	Order    orderapp.OrderResponse `json:"order"`
	Replayed bool                   `json:"replayed"`
}
