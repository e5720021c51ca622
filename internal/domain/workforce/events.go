package workforce

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeTimeEntry = "TimeEntry"
	AggregateTypeShift     = "Shift"
)

// Event types
const (
	EventTypeClockedIn      = "ClockedIn"
	EventTypeClockedOut     = "ClockedOut"
	EventTypeShiftPublished = "ShiftPublished"
)

// ClockedInEvent is published when an employee clocks in
type ClockedInEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID   `json:"employee_id"`
	ClockIn    time.Time   `json:"clock_in"`
	Source     EntrySource `json:"source"`
}

// NewClockedInEvent creates a ClockedInEvent
func NewClockedInEvent(e *TimeEntry) *ClockedInEvent {
	return &ClockedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClockedIn, AggregateTypeTimeEntry, e.ID),
		EmployeeID:      e.OwnerID,
		ClockIn:         e.ClockIn,
		Source:          e.Source,
	}
}

// ClockedOutEvent is published when an employee clocks out
type ClockedOutEvent struct {
	shared.BaseDomainEvent
	EmployeeID    uuid.UUID       `json:"employee_id"`
	WorkedMinutes int             `json:"worked_minutes"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	Pay           decimal.Decimal `json:"pay"`
	Source        EntrySource     `json:"source"`
}

// NewClockedOutEvent creates a ClockedOutEvent
func NewClockedOutEvent(e *TimeEntry) *ClockedOutEvent {
	return &ClockedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClockedOut, AggregateTypeTimeEntry, e.ID),
		EmployeeID:      e.OwnerID,
		WorkedMinutes:   e.WorkedMinutes,
		TotalHours:      e.TotalHours,
		Pay:             e.Pay,
		Source:          e.Source,
	}
}

// ShiftPublishedEvent is published when a shift becomes visible to its employee
type ShiftPublishedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Station    string    `json:"station"`
}

// NewShiftPublishedEvent creates a ShiftPublishedEvent
func NewShiftPublishedEvent(s *Shift) *ShiftPublishedEvent {
	return &ShiftPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftPublished, AggregateTypeShift, s.ID),
		EmployeeID:      s.EmployeeID,
		StartsAt:        s.StartsAt,
		EndsAt:          s.EndsAt,
		Station:         s.Station,
	}
}
