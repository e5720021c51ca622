package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/ramenshop/backend/internal/infrastructure/auth"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.EmployeeProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.EmployeeProfile), args.Error(1)
}

func (m *MockEmployeeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*workforce.EmployeeProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.EmployeeProfile), args.Error(1)
}

func (m *MockEmployeeRepository) FindByBadgeToken(ctx context.Context, token string) (*workforce.EmployeeProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.EmployeeProfile), args.Error(1)
}

func (m *MockEmployeeRepository) FindAll(ctx context.Context, activeOnly bool) ([]workforce.EmployeeProfile, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]workforce.EmployeeProfile), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, profile *workforce.EmployeeProfile) error {
	return m.Called(ctx, profile).Error(0)
}

// recordingPublisher keeps published events
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

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-that-is-long-enough-123",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "ramen-test",
		MaxRefreshCount:        3,
	})
}
