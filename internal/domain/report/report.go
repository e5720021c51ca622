package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter bounds a report to [From, To)
type Filter struct {
	From time.Time
	To   time.Time
	TopN int
}

// SalesSummary aggregates non-cancelled orders in a period
type SalesSummary struct {
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	OrderCount      int64           `json:"order_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	DeliveryOrders  int64           `json:"delivery_orders"`
	DeliveryRevenue decimal.Decimal `json:"delivery_revenue"`
	PickupOrders    int64           `json:"pickup_orders"`
	PickupRevenue   decimal.Decimal `json:"pickup_revenue"`
	CancelledOrders int64           `json:"cancelled_orders"`
}

// DailyRevenue is one day of the revenue trend
type DailyRevenue struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// TopProduct ranks a product by quantity sold
type TopProduct struct {
	Rank        int             `json:"rank"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// LaborLine is one employee's closed time in a period
type LaborLine struct {
	EmployeeID    uuid.UUID       `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Entries       int64           `json:"entries"`
	WorkedMinutes int64           `json:"worked_minutes"`
	Hours         decimal.Decimal `json:"hours"`
	Pay           decimal.Decimal `json:"pay"`
}

// ProductionLine sums what was produced of one item
type ProductionLine struct {
	ProductionItemID uuid.UUID       `json:"production_item_id"`
	ItemName         string          `json:"item_name"`
	SKU              string          `json:"sku"`
	Batches          int64           `json:"batches"`
	Portions         int64           `json:"portions"`
	Cases            decimal.Decimal `json:"cases"`
}

// Repository answers the aggregate queries behind the back-office reports
type Repository interface {
	SalesSummary(ctx context.Context, f Filter) (*SalesSummary, error)
	DailyRevenue(ctx context.Context, f Filter) ([]DailyRevenue, error)
	TopProducts(ctx context.Context, f Filter) ([]TopProduct, error)
	LaborByEmployee(ctx context.Context, f Filter) ([]LaborLine, error)
	ProductionByItem(ctx context.Context, f Filter) ([]ProductionLine, error)
}
