package workforce

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShiftRepository struct {
	mock.Mock
}

func (m *MockShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Shift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Shift), args.Error(1)
}

func (m *MockShiftRepository) FindAll(ctx context.Context, filter workforce.ShiftFilter) ([]workforce.Shift, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]workforce.Shift), args.Get(1).(int64), args.Error(2)
}

func (m *MockShiftRepository) FindOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]workforce.Shift, error) {
	args := m.Called(ctx, employeeID, start, end, excludeID)
	return args.Get(0).([]workforce.Shift), args.Error(1)
}

func (m *MockShiftRepository) Save(ctx context.Context, shift *workforce.Shift) error {
	return m.Called(ctx, shift).Error(0)
}

func (m *MockShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
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

// memEntries is an in-memory time entry store that applies the same
// owner rule as the database: only admins and the service actor see
// other employees' rows
type memEntries struct {
	mu      sync.Mutex
	entries map[uuid.UUID]workforce.TimeEntry
	actors  []shared.Actor
}

func newMemEntries(entries ...*workforce.TimeEntry) *memEntries {
	m := &memEntries{entries: map[uuid.UUID]workforce.TimeEntry{}}
	for _, e := range entries {
		m.entries[e.ID] = *e
	}
	return m
}

func (m *memEntries) visible(ctx context.Context, e workforce.TimeEntry) bool {
	actor := shared.ActorFrom(ctx)
	return actor.BypassesRowPolicy() || actor.UserID == e.OwnerID
}

func (m *memEntries) FindByID(ctx context.Context, id uuid.UUID) (*workforce.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || !m.visible(ctx, e) {
		return nil, shared.ErrNotFound
	}
	return &e, nil
}

func (m *memEntries) FindOpen(ctx context.Context, employeeID uuid.UUID) (*workforce.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.OwnerID == employeeID && e.IsOpen() && m.visible(ctx, e) {
			return &e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memEntries) FindAll(ctx context.Context, f workforce.TimeEntryFilter) ([]workforce.TimeEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []workforce.TimeEntry
	for _, e := range m.entries {
		switch {
		case !m.visible(ctx, e):
		case f.EmployeeID != nil && e.OwnerID != *f.EmployeeID:
		case f.From != nil && e.ClockIn.Before(*f.From):
		case f.To != nil && !e.ClockIn.Before(*f.To):
		case f.OpenOnly && !e.IsOpen():
		default:
			out = append(out, e)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if f.OrderDir == "desc" {
			return out[a].ClockIn.After(out[b].ClockIn)
		}
		return out[a].ClockIn.Before(out[b].ClockIn)
	})
	total := int64(len(out))
	start := min(f.Offset(), len(out))
	end := min(start+f.Limit(), len(out))
	return out[start:end], total, nil
}

func (m *memEntries) FindOpenSince(ctx context.Context, cutoff time.Time) ([]workforce.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []workforce.TimeEntry
	for _, e := range m.entries {
		if e.IsOpen() && e.ClockIn.Before(cutoff) && m.visible(ctx, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEntries) Save(ctx context.Context, entry *workforce.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors = append(m.actors, shared.ActorFrom(ctx))
	if !m.visible(ctx, *entry) {
		return shared.ErrForbidden
	}
	m.entries[entry.ID] = *entry
	return nil
}

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

type fakeBadges struct{}

func (fakeBadges) BadgeURLFor(token string) string { return "https://shop.test/timeclock/badge/" + token }

func (fakeBadges) BadgePNG(token string, _ int) ([]byte, error) {
	return append([]byte("\x89PNG"), token...), nil
}

func employeeCtx(id uuid.UUID) context.Context {
	return shared.WithActor(context.Background(), shared.Actor{UserID: id, Role: shared.RoleEmployee})
}

func adminCtx() context.Context {
	return shared.WithActor(context.Background(), shared.Actor{UserID: uuid.New(), Role: shared.RoleAdmin})
}

func newProfile(t *testing.T, name, rate string) *workforce.EmployeeProfile {
	t.Helper()
	p, err := workforce.NewEmployeeProfile(uuid.New(), name, decimal.RequireFromString(rate))
	require.NoError(t, err)
	return p
}

func closedEntry(t *testing.T, p *workforce.EmployeeProfile, in time.Time, d time.Duration, brk int) *workforce.TimeEntry {
	t.Helper()
	e, err := workforce.StartEntry(p.UserID, p.HourlyRate, in, workforce.EntrySourceWeb, "")
	require.NoError(t, err)
	require.NoError(t, e.Close(in.Add(d), &brk, false, workforce.DefaultBreakPolicy(), ""))
	e.ClearDomainEvents()
	return e
}
