package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntrySource records how a time entry was started
type EntrySource string

const (
	EntrySourceWeb   EntrySource = "web"
	EntrySourceQR    EntrySource = "qr"
	EntrySourceAdmin EntrySource = "admin"
)

// Clock state errors
var (
	ErrAlreadyClockedIn = shared.NewDomainError("ALREADY_CLOCKED_IN", "You are already clocked in")
	ErrNotClockedIn     = shared.NewDomainError("NOT_CLOCKED_IN", "You are not clocked in")
)

// TimeEntry is one clock-in/clock-out span of an employee. OwnerID is the
// employee's user ID.
type TimeEntry struct {
	shared.OwnedAggregateRoot
	ClockIn        time.Time       `gorm:"not null;index"`
	ClockOut       *time.Time      `gorm:"index"`
	BreakMinutes   int             `gorm:"not null;default:0"`
	Rounded        bool            `gorm:"not null;default:false"`
	ElapsedMinutes int             `gorm:"not null;default:0"`
	WorkedMinutes  int             `gorm:"not null;default:0"`
	TotalHours     decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	HourlyRate     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Pay            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Source         EntrySource     `gorm:"type:varchar(10);not null;default:'web'"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TimeEntry) TableName() string {
	return "time_entries"
}

// StartEntry opens a new time entry at the given instant
func StartEntry(employeeID uuid.UUID, rate decimal.Decimal, at time.Time, source EntrySource, notes string) (*TimeEntry, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	if source == "" {
		source = EntrySourceWeb
	}

	e := &TimeEntry{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(employeeID),
		ClockIn:            at.Truncate(time.Second),
		HourlyRate:         shared.RoundMoney(rate),
		TotalHours:         decimal.Zero,
		Pay:                decimal.Zero,
		Source:             source,
		Notes:              strings.TrimSpace(notes),
	}
	e.AddDomainEvent(NewClockedInEvent(e))
	return e, nil
}

// EmployeeID returns the employee who owns the entry
func (e *TimeEntry) EmployeeID() uuid.UUID {
	return e.OwnerID
}

// IsOpen reports whether the employee is still clocked in
func (e *TimeEntry) IsOpen() bool {
	return e.ClockOut == nil
}

// Close clocks the entry out and computes hours and pay
func (e *TimeEntry) Close(at time.Time, breakMinutes *int, roundToQuarter bool, policy BreakPolicy, notes string) error {
	if !e.IsOpen() {
		return ErrNotClockedIn
	}
	out := at.Truncate(time.Second)
	if err := e.apply(e.ClockIn, out, breakMinutes, roundToQuarter, policy); err != nil {
		return err
	}
	if n := strings.TrimSpace(notes); n != "" {
		if e.Notes != "" {
			e.Notes += "\n"
		}
		e.Notes += n
	}
	e.IncrementVersion()
	e.AddDomainEvent(NewClockedOutEvent(e))
	return nil
}

// Correct rewrites the times of an entry and recomputes it. A nil
// breakMinutes applies the policy's suggested break.
func (e *TimeEntry) Correct(clockIn, clockOut time.Time, breakMinutes *int, roundToQuarter bool, policy BreakPolicy) error {
	if err := e.apply(clockIn.Truncate(time.Second), clockOut.Truncate(time.Second), breakMinutes, roundToQuarter, policy); err != nil {
		return err
	}
	e.ClockIn = clockIn.Truncate(time.Second)
	e.IncrementVersion()
	return nil
}

// SuggestedBreak returns the break suggested if the entry closed at now
func (e *TimeEntry) SuggestedBreak(now time.Time, policy BreakPolicy) int {
	elapsed, err := ElapsedMinutes(e.ClockIn, now)
	if err != nil {
		return 0
	}
	return policy.Suggest(elapsed)
}

func (e *TimeEntry) apply(clockIn, clockOut time.Time, breakMinutes *int, roundToQuarter bool, policy BreakPolicy) error {
	w, err := CalculateWorked(clockIn, clockOut, breakMinutes, roundToQuarter, policy)
	if err != nil {
		return err
	}
	e.ClockOut = &clockOut
	e.BreakMinutes = w.BreakMinutes
	e.Rounded = w.Rounded
	e.ElapsedMinutes = w.ElapsedMinutes
	e.WorkedMinutes = w.WorkedMinutes
	e.TotalHours = w.Hours
	e.Pay = PayFor(w.Hours, e.HourlyRate)
	return nil
}

// OpenFor returns how long the entry has been open at now
func (e *TimeEntry) OpenFor(now time.Time) time.Duration {
	if !e.IsOpen() {
		return 0
	}
	return now.Sub(e.ClockIn)
}
