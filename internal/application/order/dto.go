package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderListFilter are the order listing query parameters
type OrderListFilter struct {
	Status          string     `form:"status" binding:"omitempty,oneof=pending confirmed preparing ready out_for_delivery delivered picked_up cancelled"`
	FulfillmentType string     `form:"fulfillment_type" binding:"omitempty,oneof=delivery pickup"`
	CustomerID      *uuid.UUID `form:"customer_id"`
	Search          string     `form:"search" binding:"omitempty,max=100"`
	From            *time.Time `form:"from" time_format:"2006-01-02"`
	// To is inclusive
	To              *time.Time `form:"to" time_format:"2006-01-02"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by" binding:"omitempty,max=30"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransitionRequest moves an order to another status
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed preparing ready out_for_delivery delivered picked_up cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelRequest cancels an order
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total" swaggertype:"string"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	ContactName     string              `json:"contact_name"`
	ContactEmail    string              `json:"contact_email"`
	ContactPhone    string              `json:"contact_phone,omitempty"`
	FulfillmentType string              `json:"fulfillment_type"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	PickupAt        *time.Time          `json:"pickup_at,omitempty"`
	Status          string              `json:"status"`
	NextStatuses    []string            `json:"next_statuses"`
	Items           []OrderItemResponse `json:"items"`
	ItemCount       int                 `json:"item_count"`
	Subtotal        decimal.Decimal     `json:"subtotal" swaggertype:"string"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee" swaggertype:"string"`
	Tax             decimal.Decimal     `json:"tax" swaggertype:"string"`
	Total           decimal.Decimal     `json:"total" swaggertype:"string"`
	Notes           string              `json:"notes,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	PlacedAt        time.Time           `json:"placed_at"`
	StatusChangedAt time.Time           `json:"status_changed_at"`
}

// ToOrderResponse converts an order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		}
	}
	next := o.Status.NextStatuses(o.FulfillmentType)
	nextNames := make([]string, len(next))
	for i, s := range next {
		nextNames[i] = string(s)
	}
	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		CustomerID:      o.OwnerID,
		ContactName:     o.ContactName,
		ContactEmail:    o.ContactEmail,
		ContactPhone:    o.ContactPhone,
		FulfillmentType: string(o.FulfillmentType),
		DeliveryAddress: o.DeliveryAddress,
		PickupAt:        o.PickupAt,
		Status:          string(o.Status),
		NextStatuses:    nextNames,
		Items:           items,
		ItemCount:       o.ItemCount(),
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Tax:             o.Tax,
		Total:           o.Total,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		PlacedAt:        o.PlacedAt,
		StatusChangedAt: o.StatusChangedAt,
	}
}
