package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Recipe, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindAll(ctx context.Context, filter catalog.RecipeFilter) ([]catalog.Recipe, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) Save(ctx context.Context, recipe *catalog.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Class), args.Error(1)
}

func (m *MockClassRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Class), args.Error(1)
}

func (m *MockClassRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Class, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Class), args.Error(1)
}

func (m *MockClassRepository) FindAll(ctx context.Context, filter catalog.ClassFilter) ([]catalog.Class, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Class), args.Get(1).(int64), args.Error(2)
}

func (m *MockClassRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassRepository) Save(ctx context.Context, class *catalog.Class) error {
	return m.Called(ctx, class).Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ClassBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ClassBooking), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context, filter catalog.BookingFilter) ([]catalog.ClassBooking, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.ClassBooking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) Save(ctx context.Context, booking *catalog.ClassBooking) error {
	return m.Called(ctx, booking).Error(0)
}

// fakeScope runs fn against the mocks without a database; an error from
// fn is returned as-is, like a rolled back transaction
type fakeScope struct {
	classes  *MockClassRepository
	bookings *MockBookingRepository
}

func (s *fakeScope) Execute(_ context.Context, fn func(tx.TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) Products() catalog.ProductRepository { return nil }
func (s *fakeScope) Classes() catalog.ClassRepository { return s.classes }
func (s *fakeScope) Bookings() catalog.BookingRepository { return s.bookings }
func (s *fakeScope) Carts() commerce.CartRepository { return nil }
func (s *fakeScope) Orders() order.Repository { return nil }
func (s *fakeScope) Fridges() inventory.FridgeRepository { return nil }
func (s *fakeScope) ProductionItems() inventory.ProductionItemRepository { return nil }
func (s *fakeScope) Stock() inventory.StockRepository { return nil }
func (s *fakeScope) ProductionLogs() inventory.ProductionLogRepository { return nil }
func (s *fakeScope) Movements() inventory.MovementRepository { return nil }

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
