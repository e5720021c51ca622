package mail

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one row of the order confirmation table
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// OrderConfirmationData feeds TemplateOrderConfirmation
type OrderConfirmationData struct {
	CustomerName    string
	Number          string
	FulfillmentType string
	PickupAt        *time.Time
	DeliveryAddress string
	Items           []OrderLine
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	OrderURL        string
}

// OrderStatusData feeds TemplateOrderStatus
type OrderStatusData struct {
	CustomerName string
	Number       string
	OldStatus    string
	NewStatus    string
	Reason       string
	OrderURL     string
}

// ContactNotificationData feeds TemplateContactNotification
type ContactNotificationData struct {
	Name       string
	Email      string
	Subject    string
	Body       string
	ReceivedAt time.Time
	InboxURL   string
}

// ShiftPublishedData feeds TemplateShiftPublished
type ShiftPublishedData struct {
	EmployeeName string
	StartsAt     time.Time
	EndsAt       time.Time
	Station      string
	ScheduleURL  string
}

// ClassBookedData feeds TemplateClassBooked
type ClassBookedData struct {
	CustomerName string
	ClassTitle   string
	StartsAt     time.Time
	Location     string
	Seats        int
	Total        decimal.Decimal
}

// ExpiringStock is a fridge row whose oldest batch expires soon
type ExpiringStock struct {
	Fridge    string
	Item      string
	Portions  int
	ExpiresAt time.Time
}

// BelowPar is an item whose stock across fridges is under par
type BelowPar struct {
	Item         string
	SKU          string
	OnHandCases  decimal.Decimal
	ParCases     int
	ShortByCases decimal.Decimal
}

// StockDigestData feeds TemplateStockDigest
type StockDigestData struct {
	GeneratedAt time.Time
	Window      time.Duration
	Expiring    []ExpiringStock
	BelowPar    []BelowPar
}

// Empty reports whether the digest has nothing to report
func (d StockDigestData) Empty() bool {
	return len(d.Expiring) == 0 && len(d.BelowPar) == 0
}
