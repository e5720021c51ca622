package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClassStatus is the lifecycle state of a workshop
type ClassStatus string

const (
	ClassStatusScheduled ClassStatus = "scheduled"
	ClassStatusCancelled ClassStatus = "cancelled"
)

// Class is a bookable cooking workshop
type Class struct {
	shared.BaseAggregateRoot
	Title           string          `gorm:"type:varchar(200);not null"`
	Slug            string          `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description     string          `gorm:"type:text"`
	Instructor      string          `gorm:"type:varchar(150)"`
	StartsAt        time.Time       `gorm:"not null;index"`
	DurationMinutes int             `gorm:"not null"`
	Capacity        int             `gorm:"not null"`
	SeatsBooked     int             `gorm:"not null;default:0"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Location        string          `gorm:"type:varchar(200)"`
	ImageURL        string          `gorm:"type:varchar(500)"`
	Status          ClassStatus     `gorm:"type:varchar(20);not null;default:'scheduled';index"`
}

// TableName returns the table name for GORM
func (Class) TableName() string {
	return "classes"
}

// ClassDetails carries the editable fields of a class
type ClassDetails struct {
	Title           string
	Slug            string
	Description     string
	Instructor      string
	StartsAt        time.Time
	DurationMinutes int
	Capacity        int
	Price           decimal.Decimal
	Location        string
	ImageURL        string
}

// NewClass creates a scheduled class
func NewClass(d ClassDetails) (*Class, error) {
	c := &Class{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            ClassStatusScheduled,
	}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields. Capacity cannot drop below the
// seats already booked.
func (c *Class) Update(d ClassDetails) error {
	if d.Capacity < c.SeatsBooked {
		return shared.NewDomainError("CAPACITY_EXCEEDED",
			fmt.Sprintf("%d seats are already booked", c.SeatsBooked))
	}
	if err := c.apply(d); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// SeatsLeft returns the number of unbooked seats
func (c *Class) SeatsLeft() int {
	if left := c.Capacity - c.SeatsBooked; left > 0 {
		return left
	}
	return 0
}

// EndsAt returns when the class finishes
func (c *Class) EndsAt() time.Time {
	return c.StartsAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Reserve takes seats for a booking made at now
func (c *Class) Reserve(seats int, now time.Time) error {
	if seats < 1 {
		return shared.NewDomainError("INVALID_SEATS", "Book at least one seat")
	}
	if c.Status == ClassStatusCancelled {
		return shared.NewDomainError("CLASS_CANCELLED", "This class has been cancelled")
	}
	if !c.StartsAt.After(now) {
		return shared.NewDomainError("CLASS_STARTED", "This class has already started")
	}
	if seats > c.SeatsLeft() {
		return shared.NewDomainError("CAPACITY_EXCEEDED",
			fmt.Sprintf("Only %d seats left", c.SeatsLeft()))
	}
	c.SeatsBooked += seats
	c.IncrementVersion()
	return nil
}

// Release returns seats from a cancelled booking
func (c *Class) Release(seats int) {
	c.SeatsBooked -= seats
	if c.SeatsBooked < 0 {
		c.SeatsBooked = 0
	}
	c.IncrementVersion()
}

// Cancel cancels the class
func (c *Class) Cancel() error {
	if c.Status == ClassStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Class is already cancelled")
	}
	c.Status = ClassStatusCancelled
	c.IncrementVersion()
	return nil
}

func (c *Class) apply(d ClassDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Class title cannot be empty")
	}
	if d.StartsAt.IsZero() {
		return shared.NewDomainError("INVALID_TIME", "Start time is required")
	}
	if d.DurationMinutes <= 0 {
		return shared.NewDomainError("INVALID_DURATION", "Duration must be positive")
	}
	if d.Capacity < 1 {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be at least 1")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	slug, err := resolveSlug(d.Slug, title)
	if err != nil {
		return err
	}
	c.Title = title
	c.Slug = slug
	c.Description = strings.TrimSpace(d.Description)
	c.Instructor = strings.TrimSpace(d.Instructor)
	c.StartsAt = d.StartsAt
	c.DurationMinutes = d.DurationMinutes
	c.Capacity = d.Capacity
	c.Price = shared.RoundMoney(d.Price)
	c.Location = strings.TrimSpace(d.Location)
	c.ImageURL = strings.TrimSpace(d.ImageURL)
	return nil
}
