package inventory

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFridgeRepository struct {
	mock.Mock
}

func (m *MockFridgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Fridge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Fridge), args.Error(1)
}

func (m *MockFridgeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Fridge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Fridge), args.Error(1)
}

func (m *MockFridgeRepository) FindByQRToken(ctx context.Context, token string) (*inventory.Fridge, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Fridge), args.Error(1)
}

func (m *MockFridgeRepository) FindAll(ctx context.Context, activeOnly bool) ([]inventory.Fridge, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]inventory.Fridge), args.Error(1)
}

func (m *MockFridgeRepository) Save(ctx context.Context, fridge *inventory.Fridge) error {
	return m.Called(ctx, fridge).Error(0)
}

type MockProductionItemRepository struct {
	mock.Mock
}

func (m *MockProductionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductionItem), args.Error(1)
}

func (m *MockProductionItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.ProductionItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]inventory.ProductionItem), args.Error(1)
}

func (m *MockProductionItemRepository) FindBySKU(ctx context.Context, sku string) (*inventory.ProductionItem, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductionItem), args.Error(1)
}

func (m *MockProductionItemRepository) FindByQRToken(ctx context.Context, token string) (*inventory.ProductionItem, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductionItem), args.Error(1)
}

func (m *MockProductionItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ProductionItem, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.ProductionItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductionItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductionItemRepository) Save(ctx context.Context, item *inventory.ProductionItem) error {
	return m.Called(ctx, item).Error(0)
}

type MockProductionLogRepository struct {
	mock.Mock
}

func (m *MockProductionLogRepository) FindAll(ctx context.Context, filter inventory.ProductionLogFilter) ([]inventory.ProductionLog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.ProductionLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductionLogRepository) Save(ctx context.Context, log *inventory.ProductionLog) error {
	return m.Called(ctx, log).Error(0)
}

// memStock keeps stock rows in memory. Saves are staged and only become
// visible on commit, so a failed transaction leaves the rows untouched.
type memStock struct {
	mu     sync.Mutex
	rows   map[[2]uuid.UUID]inventory.FridgeStock
	staged map[[2]uuid.UUID]inventory.FridgeStock
}

func newMemStock(rows ...*inventory.FridgeStock) *memStock {
	s := &memStock{rows: map[[2]uuid.UUID]inventory.FridgeStock{}}
	for _, r := range rows {
		s.rows[[2]uuid.UUID{r.FridgeID, r.ProductionItemID}] = *r
	}
	return s
}

func (s *memStock) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = map[[2]uuid.UUID]inventory.FridgeStock{}
}

func (s *memStock) finish(commit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if commit {
		for k, v := range s.staged {
			s.rows[k] = v
		}
	}
	s.staged = nil
}

func (s *memStock) get(fridgeID, itemID uuid.UUID) (inventory.FridgeStock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[[2]uuid.UUID{fridgeID, itemID}]
	return r, ok
}

func (s *memStock) FindByFridge(_ context.Context, fridgeID uuid.UUID) ([]inventory.FridgeStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []inventory.FridgeStock
	for k, v := range s.rows {
		if k[0] == fridgeID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ProductionItemID.String() < out[b].ProductionItemID.String() })
	return out, nil
}

func (s *memStock) GetForUpdate(_ context.Context, fridgeID, itemID uuid.UUID) (*inventory.FridgeStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rows[[2]uuid.UUID{fridgeID, itemID}]; ok {
		return &r, nil
	}
	return inventory.NewFridgeStock(fridgeID, itemID), nil
}

func (s *memStock) FindAll(_ context.Context) ([]inventory.FridgeStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inventory.FridgeStock, 0, len(s.rows))
	for _, v := range s.rows {
		out = append(out, v)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID.String() < out[b].ID.String() })
	return out, nil
}

func (s *memStock) FindExpiringBefore(_ context.Context, t time.Time) ([]inventory.FridgeStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []inventory.FridgeStock
	for _, v := range s.rows {
		if v.Portions > 0 && v.EarliestExpiry != nil && v.EarliestExpiry.Before(t) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].EarliestExpiry.Before(*out[b].EarliestExpiry) })
	return out, nil
}

func (s *memStock) Save(_ context.Context, stock *inventory.FridgeStock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uuid.UUID{stock.FridgeID, stock.ProductionItemID}
	if s.staged != nil {
		s.staged[key] = *stock
		return nil
	}
	s.rows[key] = *stock
	return nil
}

type memMovements struct {
	mu   sync.Mutex
	rows []inventory.InventoryMovement
	err  error
}

func (m *memMovements) Create(_ context.Context, mv *inventory.InventoryMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *mv)
	return nil
}

func (m *memMovements) FindByFridge(_ context.Context, fridgeID uuid.UUID, limit int) ([]inventory.InventoryMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.InventoryMovement
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].FridgeID == fridgeID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

// fakeScope runs fn directly and commits staged stock only on success
type fakeScope struct {
	fridges   *MockFridgeRepository
	items     *MockProductionItemRepository
	stock     *memStock
	logs      *MockProductionLogRepository
	movements *memMovements
}

func (s *fakeScope) Execute(_ context.Context, fn func(tx.TransactionalRepositories) error) error {
	s.stock.begin()
	err := fn(s)
	s.stock.finish(err == nil)
	return err
}

func (s *fakeScope) Products() catalog.ProductRepository { return nil }
func (s *fakeScope) Classes() catalog.ClassRepository { return nil }
func (s *fakeScope) Bookings() catalog.BookingRepository { return nil }
func (s *fakeScope) Carts() commerce.CartRepository { return nil }
func (s *fakeScope) Orders() order.Repository { return nil }
func (s *fakeScope) Fridges() inventory.FridgeRepository { return s.fridges }
func (s *fakeScope) ProductionItems() inventory.ProductionItemRepository { return s.items }
func (s *fakeScope) Stock() inventory.StockRepository { return s.stock }
func (s *fakeScope) ProductionLogs() inventory.ProductionLogRepository { return s.logs }
func (s *fakeScope) Movements() inventory.MovementRepository { return s.movements }

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

type fakeQR struct{}

func (fakeQR) URLFor(token string) string { return "https://shop.test/qr/" + token }

func (fakeQR) PNG(token string, _ int) ([]byte, error) {
	return append([]byte("\x89PNG"), token...), nil
}

func staffCtx() context.Context {
	return shared.WithActor(context.Background(), shared.Actor{UserID: uuid.New(), Role: shared.RoleEmployee})
}

func newFridge(t *testing.T, name string, capacity string) *inventory.Fridge {
	t.Helper()
	f, err := inventory.NewFridge(name, "Kitchen", inventory.FridgeKindWalkIn, decimal.RequireFromString(capacity))
	require.NoError(t, err)
	return f
}

func newItem(t *testing.T, name, sku string, portionsPerCase, par, shelfLife int) *inventory.ProductionItem {
	t.Helper()
	item, err := inventory.NewProductionItem(name, sku, "broth", portionsPerCase, par, shelfLife)
	require.NoError(t, err)
	return item
}

func stocked(fridge *inventory.Fridge, item *inventory.ProductionItem, portions int) *inventory.FridgeStock {
	s := inventory.NewFridgeStock(fridge.ID, item.ID)
	s.Portions = portions
	return s
}
