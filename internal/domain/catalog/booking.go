package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BookingStatus is the state of a class booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ClassBooking reserves seats in a class for a customer (the owner)
type ClassBooking struct {
	shared.OwnedAggregateRoot
	ClassID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Seats       int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      BookingStatus   `gorm:"type:varchar(20);not null;default:'confirmed'"`
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (ClassBooking) TableName() string {
	return "class_bookings"
}

// BookClass reserves seats in class for customerID
func BookClass(class *Class, customerID uuid.UUID, seats int, now time.Time) (*ClassBooking, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if err := class.Reserve(seats, now); err != nil {
		return nil, err
	}
	b := &ClassBooking{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(customerID),
		ClassID:            class.ID,
		Seats:              seats,
		UnitPrice:          class.Price,
		Total:              shared.RoundMoney(class.Price.Mul(decimal.NewFromInt(int64(seats)))),
		Status:             BookingStatusConfirmed,
	}
	b.AddDomainEvent(NewClassBookedEvent(b, class))
	return b, nil
}

// Cancel cancels the booking and releases its seats in class
func (b *ClassBooking) Cancel(class *Class, now time.Time) error {
	if b.Status == BookingStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Booking is already cancelled")
	}
	if class.ID != b.ClassID {
		return shared.NewDomainError("INVALID_CLASS", "Booking does not belong to this class")
	}
	if class.Status == ClassStatusScheduled && !class.StartsAt.After(now) {
		return shared.NewDomainError("CLASS_STARTED", "Bookings cannot be cancelled after the class starts")
	}
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.IncrementVersion()
	class.Release(b.Seats)
	return nil
}
