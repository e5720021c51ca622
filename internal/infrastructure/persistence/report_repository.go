package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/report"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository answers report queries with SQL aggregates
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// SalesSummary aggregates orders placed in the period
func (r *GormReportRepository) SalesSummary(ctx context.Context, f report.Filter) (*report.SalesSummary, error) {
	type summaryResult struct {
		OrderCount      int64
		Revenue         decimal.Decimal
		DeliveryOrders  int64
		DeliveryRevenue decimal.Decimal
		PickupOrders    int64
		PickupRevenue   decimal.Decimal
		CancelledOrders int64
	}

	var result summaryResult
	err := r.db.WithContext(ctx).Table("orders o").
		Select(`
			COALESCE(SUM(CASE WHEN o.status <> ? THEN 1 ELSE 0 END), 0) as order_count,
			COALESCE(SUM(CASE WHEN o.status <> ? THEN o.total ELSE 0 END), 0) as revenue,
			COALESCE(SUM(CASE WHEN o.status <> ? AND o.fulfillment_type = ? THEN 1 ELSE 0 END), 0) as delivery_orders,
			COALESCE(SUM(CASE WHEN o.status <> ? AND o.fulfillment_type = ? THEN o.total ELSE 0 END), 0) as delivery_revenue,
			COALESCE(SUM(CASE WHEN o.status <> ? AND o.fulfillment_type = ? THEN 1 ELSE 0 END), 0) as pickup_orders,
			COALESCE(SUM(CASE WHEN o.status <> ? AND o.fulfillment_type = ? THEN o.total ELSE 0 END), 0) as pickup_revenue,
			COALESCE(SUM(CASE WHEN o.status = ? THEN 1 ELSE 0 END), 0) as cancelled_orders
		`,
			order.StatusCancelled,
			order.StatusCancelled,
			order.StatusCancelled, order.FulfillmentDelivery,
			order.StatusCancelled, order.FulfillmentDelivery,
			order.StatusCancelled, order.FulfillmentPickup,
			order.StatusCancelled, order.FulfillmentPickup,
			order.StatusCancelled,
		).
		Where("o.placed_at >= ? AND o.placed_at < ?", f.From, f.To).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if result.OrderCount > 0 {
		avg = shared.RoundMoney(result.Revenue.Div(decimal.NewFromInt(result.OrderCount)))
	}
	return &report.SalesSummary{
		PeriodStart:     f.From,
		PeriodEnd:       f.To,
		OrderCount:      result.OrderCount,
		Revenue:         shared.RoundMoney(result.Revenue),
		AvgOrderValue:   avg,
		DeliveryOrders:  result.DeliveryOrders,
		DeliveryRevenue: shared.RoundMoney(result.DeliveryRevenue),
		PickupOrders:    result.PickupOrders,
		PickupRevenue:   shared.RoundMoney(result.PickupRevenue),
		CancelledOrders: result.CancelledOrders,
	}, nil
}

// DailyRevenue returns one row per day with non-cancelled orders
func (r *GormReportRepository) DailyRevenue(ctx context.Context, f report.Filter) ([]report.DailyRevenue, error) {
	type dailyResult struct {
		Day        string
		OrderCount int64
		Revenue    decimal.Decimal
	}

	var results []dailyResult
	err := r.db.WithContext(ctx).Table("orders o").
		Select("DATE(o.placed_at) as day, COUNT(*) as order_count, COALESCE(SUM(o.total), 0) as revenue").
		Where("o.placed_at >= ? AND o.placed_at < ?", f.From, f.To).
		Where("o.status <> ?", order.StatusCancelled).
		Group("DATE(o.placed_at)").
		Order("day ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.DailyRevenue, len(results))
	for i, row := range results {
		day := row.Day
		if len(day) > 10 {
			day = day[:10]
		}
		out[i] = report.DailyRevenue{
			Date:       day,
			OrderCount: row.OrderCount,
			Revenue:    shared.RoundMoney(row.Revenue),
		}
	}
	return out, nil
}

// TopProducts ranks products by quantity sold in the period
func (r *GormReportRepository) TopProducts(ctx context.Context, f report.Filter) ([]report.TopProduct, error) {
	type productResult struct {
		ProductID   uuid.UUID
		ProductName string
		Quantity    int64
		Revenue     decimal.Decimal
	}

	limit := f.TopN
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var results []productResult
	err := r.db.WithContext(ctx).Table("order_items oi").
		Select(`
			oi.product_id as product_id,
			MAX(oi.product_name) as product_name,
			COALESCE(SUM(oi.quantity), 0) as quantity,
			COALESCE(SUM(oi.line_total), 0) as revenue
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.placed_at >= ? AND o.placed_at < ?", f.From, f.To).
		Where("o.status <> ?", order.StatusCancelled).
		Group("oi.product_id").
		Order("quantity DESC, revenue DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.TopProduct, len(results))
	for i, row := range results {
		out[i] = report.TopProduct{
			Rank:        i + 1,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     shared.RoundMoney(row.Revenue),
		}
	}
	return out, nil
}

// LaborByEmployee sums closed time entries per employee
func (r *GormReportRepository) LaborByEmployee(ctx context.Context, f report.Filter) ([]report.LaborLine, error) {
	type laborResult struct {
		EmployeeID    uuid.UUID
		EmployeeName  string
		Entries       int64
		WorkedMinutes int64
		Hours         decimal.Decimal
		Pay           decimal.Decimal
	}

	var results []laborResult
	err := r.db.WithContext(ctx).Table("time_entries te").
		Select(`
			te.owner_id as employee_id,
			COALESCE(MAX(ep.display_name), '') as employee_name,
			COUNT(*) as entries,
			COALESCE(SUM(te.worked_minutes), 0) as worked_minutes,
			COALESCE(SUM(te.total_hours), 0) as hours,
			COALESCE(SUM(te.pay), 0) as pay
		`).
		Joins("LEFT JOIN employee_profiles ep ON ep.user_id = te.owner_id").
		Where("te.clock_out IS NOT NULL").
		Where("te.clock_in >= ? AND te.clock_in < ?", f.From, f.To).
		Group("te.owner_id").
		Order("employee_name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.LaborLine, len(results))
	for i, row := range results {
		out[i] = report.LaborLine{
			EmployeeID:    row.EmployeeID,
			EmployeeName:  row.EmployeeName,
			Entries:       row.Entries,
			WorkedMinutes: row.WorkedMinutes,
			Hours:         row.Hours.Round(2),
			Pay:           shared.RoundMoney(row.Pay),
		}
	}
	return out, nil
}

// ProductionByItem sums production logs per item
func (r *GormReportRepository) ProductionByItem(ctx context.Context, f report.Filter) ([]report.ProductionLine, error) {
	type productionResult struct {
		ProductionItemID uuid.UUID
		ItemName         string
		SKU              string
		PortionsPerCase  int
		Batches          int64
		Portions         int64
	}

	var results []productionResult
	err := r.db.WithContext(ctx).Table("production_logs pl").
		Select(`
			pl.production_item_id as production_item_id,
			pi.name as item_name,
			pi.sku as sku,
			pi.portions_per_case as portions_per_case,
			COUNT(*) as batches,
			COALESCE(SUM(pl.total_portions), 0) as portions
		`).
		Joins("JOIN production_items pi ON pi.id = pl.production_item_id").
		Where("pl.produced_at >= ? AND pl.produced_at < ?", f.From, f.To).
		Group("pl.production_item_id, pi.name, pi.sku, pi.portions_per_case").
		Order("portions DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.ProductionLine, len(results))
	for i, row := range results {
		out[i] = report.ProductionLine{
			ProductionItemID: row.ProductionItemID,
			ItemName:         row.ItemName,
			SKU:              row.SKU,
			Batches:          row.Batches,
			Portions:         row.Portions,
			Cases:            inventory.CasesOf(int(row.Portions), row.PortionsPerCase),
		}
	}
	return out, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
