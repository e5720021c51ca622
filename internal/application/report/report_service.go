package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ramenshop/backend/internal/application/inventory"
	"github.com/ramenshop/backend/internal/domain/report"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopN   = 10
	maxRangeDays  = 366
	closedCacheTT = 6 * time.Hour
	dateLayout    = "2006-01-02"
)

// ResultCache keeps rendered reports for periods that can no longer
// change
type ResultCache interface {
	Remember(ctx context.Context, key, result string, ttl time.Duration) error
	Recall(ctx context.Context, key string) (string, bool, error)
}

// StockStatus reports on fridges and stock levels
type StockStatus interface {
	Status(ctx context.Context, window time.Duration) (*inventory.StatusResponse, error)
}

// ReportService builds the back-office reports
type ReportService struct {
	repo   report.Repository
	status StockStatus
	cache  ResultCache
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService creates a new ReportService. cache may be nil.
func NewReportService(repo report.Repository, status StockStatus, cache ResultCache, logger *zap.Logger) *ReportService {
	return &ReportService{repo: repo, status: status, cache: cache, logger: logger, now: time.Now}
}

// RangeRequest selects whole days [From, To], both inclusive
type RangeRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	TopN int       `form:"top_n" binding:"omitempty,min=1,max=50"`
}

// SalesReport combines the sales summary, the daily trend and the best
// sellers
type SalesReport struct {
	Summary     report.SalesSummary   `json:"summary"`
	Daily       []report.DailyRevenue `json:"daily"`
	TopProducts []report.TopProduct   `json:"top_products"`
}

// LaborReport sums closed time entries per employee
type LaborReport struct {
	From       time.Time          `json:"from"`
	To         time.Time          `json:"to"`
	Employees  []report.LaborLine `json:"employees"`
	TotalHours decimal.Decimal    `json:"total_hours" swaggertype:"string"`
	TotalPay   decimal.Decimal    `json:"total_pay" swaggertype:"string"`
}

// ProductionReport sums production logs per item
type ProductionReport struct {
	From          time.Time               `json:"from"`
	To            time.Time               `json:"to"`
	Items         []report.ProductionLine `json:"items"`
	TotalBatches  int64                   `json:"total_batches"`
	TotalPortions int64                   `json:"total_portions"`
}

// Sales returns the sales report for the range
func (s *ReportService) Sales(ctx context.Context, req RangeRequest) (*SalesReport, error) {
	f, err := s.filter(req)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("report:sales:%s:%s:%d", f.From.Format(dateLayout), f.To.Format(dateLayout), f.TopN)
	var cached SalesReport
	if s.recall(ctx, f, key, &cached) {
		return &cached, nil
	}

	var (
		result SalesReport
		g, gctx = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		summary, err := s.repo.SalesSummary(gctx, f)
		if err != nil {
			return err
		}
		result.Summary = *summary
		return nil
	})
	g.Go(func() error {
		daily, err := s.repo.DailyRevenue(gctx, f)
		result.Daily = fillDays(daily, f.From, f.To)
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopProducts(gctx, f)
		result.TopProducts = top
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if result.TopProducts == nil {
		result.TopProducts = []report.TopProduct{}
	}

	s.remember(ctx, f, key, result)
	return &result, nil
}

// Labor returns hours and pay per employee for the range
func (s *ReportService) Labor(ctx context.Context, req RangeRequest) (*LaborReport, error) {
	f, err := s.filter(req)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.LaborByEmployee(ctx, f)
	if err != nil {
		return nil, err
	}
	r := &LaborReport{From: req.From, To: req.To, Employees: lines, TotalHours: decimal.Zero, TotalPay: decimal.Zero}
	if r.Employees == nil {
		r.Employees = []report.LaborLine{}
	}
	for _, l := range lines {
		r.TotalHours = r.TotalHours.Add(l.Hours)
		r.TotalPay = r.TotalPay.Add(l.Pay)
	}
	return r, nil
}

// Production returns what was produced per item in the range
func (s *ReportService) Production(ctx context.Context, req RangeRequest) (*ProductionReport, error) {
	f, err := s.filter(req)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.ProductionByItem(ctx, f)
	if err != nil {
		return nil, err
	}
	r := &ProductionReport{From: req.From, To: req.To, Items: lines}
	if r.Items == nil {
		r.Items = []report.ProductionLine{}
	}
	for _, l := range lines {
		r.TotalBatches += l.Batches
		r.TotalPortions += l.Portions
	}
	return r, nil
}

// Inventory returns fridge utilization, items below par and stock
// expiring within days
func (s *ReportService) Inventory(ctx context.Context, days int) (*inventory.StatusResponse, error) {
	if days <= 0 {
		days = 3
	}
	if days > 30 {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Expiry window cannot exceed 30 days")
	}
	return s.status.Status(ctx, time.Duration(days)*24*time.Hour)
}

func (s *ReportService) filter(req RangeRequest) (report.Filter, error) {
	from := truncateDay(req.From)
	to := truncateDay(req.To)
	if to.Before(from) {
		return report.Filter{}, shared.NewDomainError("INVALID_TIME_RANGE", "The end of the range is before its start")
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return report.Filter{}, shared.NewDomainError("INVALID_TIME_RANGE", "Reports cover at most one year")
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	return report.Filter{From: from, To: to.AddDate(0, 0, 1), TopN: topN}, nil
}

// closed reports whether no order can still land in the period
func (s *ReportService) closed(f report.Filter) bool {
	return !f.To.After(truncateDay(s.now()))
}

func (s *ReportService) recall(ctx context.Context, f report.Filter, key string, dst any) bool {
	if s.cache == nil || !s.closed(f) {
		return false
	}
	raw, ok, err := s.cache.Recall(ctx, key)
	if err != nil {
		s.logger.Warn("Report cache unavailable", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("Discarding unreadable cached report", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) remember(ctx context.Context, f report.Filter, key string, v any) {
	if s.cache == nil || !s.closed(f) {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Remember(ctx, key, string(raw), closedCacheTT); err != nil {
		s.logger.Warn("Failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

// fillDays returns one row per day in [from, to) with zero rows for days
// without orders
func fillDays(rows []report.DailyRevenue, from, to time.Time) []report.DailyRevenue {
	byDate := make(map[string]report.DailyRevenue, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	out := []report.DailyRevenue{}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		if r, ok := byDate[key]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, report.DailyRevenue{Date: key, Revenue: decimal.Zero})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
