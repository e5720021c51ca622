package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/application/inventory"
	"github.com/ramenshop/backend/internal/domain/report"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SalesSummary(ctx context.Context, f report.Filter) (*report.SalesSummary, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SalesSummary), args.Error(1)
}

func (m *MockRepository) DailyRevenue(ctx context.Context, f report.Filter) ([]report.DailyRevenue, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]report.DailyRevenue), args.Error(1)
}

func (m *MockRepository) TopProducts(ctx context.Context, f report.Filter) ([]report.TopProduct, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]report.TopProduct), args.Error(1)
}

func (m *MockRepository) LaborByEmployee(ctx context.Context, f report.Filter) ([]report.LaborLine, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]report.LaborLine), args.Error(1)
}

func (m *MockRepository) ProductionByItem(ctx context.Context, f report.Filter) ([]report.ProductionLine, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]report.ProductionLine), args.Error(1)
}

type mapCache struct {
	values map[string]string
	err    error
}

func (c *mapCache) Remember(_ context.Context, key, result string, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.values[key] = result
	return nil
}

func (c *mapCache) Recall(_ context.Context, key string) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.values[key]
	return v, ok, nil
}

type stubStatus struct {
	window time.Duration
}

func (s *stubStatus) Status(_ context.Context, window time.Duration) (*inventory.StatusResponse, error) {
	s.window = window
	return &inventory.StatusResponse{Window: window.String()}, nil
}

func date(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func march(from, to int) report.Filter {
	return report.Filter{From: date(from), To: date(to).AddDate(0, 0, 1), TopN: defaultTopN}
}

func newService(repo report.Repository, cache ResultCache) *ReportService {
	svc := NewReportService(repo, &stubStatus{}, cache, zap.NewNop())
	svc.now = func() time.Time { return date(20).Add(15 * time.Hour) }
	return svc
}

func TestReportService_SalesFillsMissingDays(t *testing.T) {
	repo := new(MockRepository)
	f := march(1, 3)
	repo.On("SalesSummary", mock.Anything, f).Return(&report.SalesSummary{OrderCount: 3, Revenue: decimal.RequireFromString("54.00")}, nil)
	repo.On("DailyRevenue", mock.Anything, f).Return([]report.DailyRevenue{
		{Date: "2026-03-01", OrderCount: 2, Revenue: decimal.RequireFromString("36.00")},
		{Date: "2026-03-03", OrderCount: 1, Revenue: decimal.RequireFromString("18.00")},
	}, nil)
	repo.On("TopProducts", mock.Anything, f).Return([]report.TopProduct(nil), nil)

	r, err := newService(repo, nil).Sales(context.Background(), RangeRequest{From: date(1), To: date(3)})
	require.NoError(t, err)

	assert.Equal(t, int64(3), r.Summary.OrderCount)
	require.Len(t, r.Daily, 3)
	assert.Equal(t, "2026-03-02", r.Daily[1].Date)
	assert.True(t, r.Daily[1].Revenue.IsZero())
	assert.NotNil(t, r.TopProducts)
}

func TestReportService_SalesCachesClosedPeriods(t *testing.T) {
	repo := new(MockRepository)
	cache := &mapCache{values: map[string]string{}}
	f := march(1, 7)
	repo.On("SalesSummary", mock.Anything, f).Return(&report.SalesSummary{OrderCount: 9}, nil).Once()
	repo.On("DailyRevenue", mock.Anything, f).Return([]report.DailyRevenue{}, nil).Once()
	repo.On("TopProducts", mock.Anything, f).Return([]report.TopProduct{{Rank: 1, ProductID: uuid.New(), ProductName: "Tonkotsu", Quantity: 9}}, nil).Once()
	svc := newService(repo, cache)

	first, err := svc.Sales(context.Background(), RangeRequest{From: date(1), To: date(7)})
	require.NoError(t, err)
	second, err := svc.Sales(context.Background(), RangeRequest{From: date(1), To: date(7)})
	require.NoError(t, err)

	assert.Equal(t, first.Summary.OrderCount, second.Summary.OrderCount)
	assert.Equal(t, "Tonkotsu", second.TopProducts[0].ProductName)
	assert.Len(t, cache.values, 1)
	repo.AssertExpectations(t)
}

func TestReportService_SalesSkipsCacheForOpenPeriods(t *testing.T) {
	repo := new(MockRepository)
	cache := &mapCache{values: map[string]string{}}
	f := march(14, 20)
	repo.On("SalesSummary", mock.Anything, f).Return(&report.SalesSummary{}, nil).Twice()
	repo.On("DailyRevenue", mock.Anything, f).Return([]report.DailyRevenue{}, nil).Twice()
	repo.On("TopProducts", mock.Anything, f).Return([]report.TopProduct{}, nil).Twice()
	svc := newService(repo, cache)

	for range 2 {
		_, err := svc.Sales(context.Background(), RangeRequest{From: date(14), To: date(20)})
		require.NoError(t, err)
	}
	assert.Empty(t, cache.values)
	repo.AssertExpectations(t)
}

func TestReportService_BrokenCacheFallsThrough(t *testing.T) {
	repo := new(MockRepository)
	f := march(1, 1)
	repo.On("SalesSummary", mock.Anything, f).Return(&report.SalesSummary{OrderCount: 1}, nil)
	repo.On("DailyRevenue", mock.Anything, f).Return([]report.DailyRevenue{}, nil)
	repo.On("TopProducts", mock.Anything, f).Return([]report.TopProduct{}, nil)

	r, err := newService(repo, &mapCache{err: errors.New("redis down")}).Sales(context.Background(), RangeRequest{From: date(1), To: date(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Summary.OrderCount)
}

func TestReportService_RejectsBadRanges(t *testing.T) {
	svc := newService(new(MockRepository), nil)
	var de *shared.DomainError

	_, err := svc.Sales(context.Background(), RangeRequest{From: date(5), To: date(1)})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_TIME_RANGE", de.Code)

	_, err = svc.Labor(context.Background(), RangeRequest{From: date(1).AddDate(-2, 0, 0), To: date(1)})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_TIME_RANGE", de.Code)
}

func TestReportService_LaborTotals(t *testing.T) {
	repo := new(MockRepository)
	repo.On("LaborByEmployee", mock.Anything, march(1, 14)).Return([]report.LaborLine{
		{EmployeeName: "Hana", Hours: decimal.RequireFromString("30.5"), Pay: decimal.RequireFromString("610.00")},
		{EmployeeName: "Ren", Hours: decimal.RequireFromString("12"), Pay: decimal.RequireFromString("216.00")},
	}, nil)

	r, err := newService(repo, nil).Labor(context.Background(), RangeRequest{From: date(1), To: date(14)})
	require.NoError(t, err)
	assert.True(t, r.TotalHours.Equal(decimal.RequireFromString("42.5")))
	assert.True(t, r.TotalPay.Equal(decimal.RequireFromString("826")))
}

func TestReportService_ProductionTotals(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ProductionByItem", mock.Anything, march(2, 2)).Return([]report.ProductionLine{
		{ItemName: "Tonkotsu broth", Batches: 2, Portions: 80},
		{ItemName: "Chashu", Batches: 1, Portions: 24},
	}, nil)

	r, err := newService(repo, nil).Production(context.Background(), RangeRequest{From: date(2), To: date(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.TotalBatches)
	assert.Equal(t, int64(104), r.TotalPortions)
}

func TestReportService_InventoryWindow(t *testing.T) {
	status := &stubStatus{}
	svc := NewReportService(new(MockRepository), status, nil, zap.NewNop())

	_, err := svc.Inventory(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, status.window)

	_, err = svc.Inventory(context.Background(), 45)
	require.Error(t, err)
}
