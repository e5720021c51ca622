package workforce

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// TimeEntryFilter narrows time entry listings
type TimeEntryFilter struct {
	shared.Filter
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
	OpenOnly   bool
}

// TimeEntryRepository persists time entries. Reads are limited to the
// actor's own entries unless the actor bypasses the row policy.
type TimeEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)
	// FindOpen returns the open entry of an employee or shared.ErrNotFound
	FindOpen(ctx context.Context, employeeID uuid.UUID) (*TimeEntry, error)
	FindAll(ctx context.Context, filter TimeEntryFilter) ([]TimeEntry, int64, error)
	// FindOpenSince returns entries still open that started before cutoff
	FindOpenSince(ctx context.Context, cutoff time.Time) ([]TimeEntry, error)
	Save(ctx context.Context, entry *TimeEntry) error
}

// ShiftFilter narrows shift listings
type ShiftFilter struct {
	shared.Filter
	EmployeeID    *uuid.UUID
	From          *time.Time
	To            *time.Time
	PublishedOnly bool
}

// ShiftRepository persists shifts
type ShiftRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	FindAll(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)
	// FindOverlapping returns shifts of the employee intersecting [start, end),
	// ignoring excludeID
	FindOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]Shift, error)
	Save(ctx context.Context, shift *Shift) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository persists employee profiles
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EmployeeProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*EmployeeProfile, error)
	FindByBadgeToken(ctx context.Context, token string) (*EmployeeProfile, error)
	FindAll(ctx context.Context, activeOnly bool) ([]EmployeeProfile, error)
	Save(ctx context.Context, profile *EmployeeProfile) error
}
