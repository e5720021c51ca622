package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	Category      string
	Featured      *bool
	AvailableOnly bool
}

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	// ExistsBySlug ignores the row with excludeID
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecipeFilter narrows recipe listings
type RecipeFilter struct {
	shared.Filter
	PublishedOnly bool
}

// RecipeRepository persists recipes
type RecipeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)
	FindBySlug(ctx context.Context, slug string) (*Recipe, error)
	FindAll(ctx context.Context, filter RecipeFilter) ([]Recipe, int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClassFilter narrows class listings
type ClassFilter struct {
	shared.Filter
	UpcomingAfter *time.Time
	Status        ClassStatus
}

// ClassRepository persists classes
type ClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Class, error)
	// FindByIDForUpdate locks the row when called inside a transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Class, error)
	FindBySlug(ctx context.Context, slug string) (*Class, error)
	FindAll(ctx context.Context, filter ClassFilter) ([]Class, int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, class *Class) error
}

// BookingFilter narrows booking listings
type BookingFilter struct {
	shared.Filter
	ClassID *uuid.UUID
	Status  BookingStatus
}

// BookingRepository persists class bookings. Customers only see their own.
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ClassBooking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]ClassBooking, int64, error)
	Save(ctx context.Context, booking *ClassBooking) error
}
