package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// MaxShiftLength is the longest shift that can be scheduled
const MaxShiftLength = 16 * time.Hour

// ErrShiftOverlap is returned when a shift intersects another shift of the
// same employee
var ErrShiftOverlap = shared.NewDomainError("SHIFT_OVERLAP", "Employee already has a shift at that time")

// Shift is a scheduled block of work for one employee
type Shift struct {
	shared.BaseAggregateRoot
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null"`
	Station     string    `gorm:"type:varchar(100)"`
	Notes       string    `gorm:"type:text"`
	Published   bool      `gorm:"not null;default:false"`
	PublishedAt *time.Time
}

// TableName returns the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// NewShift creates an unpublished shift
func NewShift(employeeID uuid.UUID, startsAt, endsAt time.Time, station, notes string) (*Shift, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	s := &Shift{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
	}
	if err := s.setWindow(startsAt, endsAt); err != nil {
		return nil, err
	}
	s.Station = strings.TrimSpace(station)
	s.Notes = strings.TrimSpace(notes)
	return s, nil
}

// Reschedule changes the window and details of the shift
func (s *Shift) Reschedule(startsAt, endsAt time.Time, station, notes string) error {
	if err := s.setWindow(startsAt, endsAt); err != nil {
		return err
	}
	s.Station = strings.TrimSpace(station)
	s.Notes = strings.TrimSpace(notes)
	s.IncrementVersion()
	if s.Published {
		s.AddDomainEvent(NewShiftPublishedEvent(s))
	}
	return nil
}

// Publish makes the shift visible to the employee
func (s *Shift) Publish() error {
	if s.Published {
		return shared.NewDomainError("INVALID_STATE", "Shift is already published")
	}
	now := time.Now()
	s.Published = true
	s.PublishedAt = &now
	s.IncrementVersion()
	s.AddDomainEvent(NewShiftPublishedEvent(s))
	return nil
}

// Duration returns the scheduled length
func (s *Shift) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// Overlaps reports whether the two windows intersect. Touching ends do not
// overlap.
func (s *Shift) Overlaps(startsAt, endsAt time.Time) bool {
	return s.StartsAt.Before(endsAt) && startsAt.Before(s.EndsAt)
}

func (s *Shift) setWindow(startsAt, endsAt time.Time) error {
	if !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_TIME_RANGE", "Shift must end after it starts")
	}
	if endsAt.Sub(startsAt) > MaxShiftLength {
		return shared.NewDomainError("INVALID_TIME_RANGE", "Shift cannot be longer than 16 hours")
	}
	s.StartsAt = startsAt
	s.EndsAt = endsAt
	return nil
}
