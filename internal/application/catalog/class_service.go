package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClassService manages workshops and their bookings
type ClassService struct {
	classRepo   catalog.ClassRepository
	bookingRepo catalog.BookingRepository
	txScope     tx.TransactionScope
	events      shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewClassService creates a new ClassService
func NewClassService(
	classRepo catalog.ClassRepository,
	bookingRepo catalog.BookingRepository,
	txScope tx.TransactionScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classRepo:   classRepo,
		bookingRepo: bookingRepo,
		txScope:     txScope,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns a page of classes. The public sees upcoming scheduled
// classes only.
func (s *ClassService) List(ctx context.Context, f ClassListFilter) (*shared.Paginated[ClassResponse], error) {
	filter := catalog.ClassFilter{Filter: f.filter("starts_at", "asc")}
	if shared.ActorFrom(ctx).IsStaff() {
		filter.Status = catalog.ClassStatus(f.Status)
		if !f.IncludePast {
			now := s.now()
			filter.UpcomingAfter = &now
		}
	} else {
		now := s.now()
		filter.UpcomingAfter = &now
		filter.Status = catalog.ClassStatusScheduled
	}

	classes, total, err := s.classRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ClassResponse, len(classes))
	for i := range classes {
		items[i] = ToClassResponse(&classes[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// GetBySlug returns one class
func (s *ClassService) GetBySlug(ctx context.Context, slug string) (*ClassResponse, error) {
	class, err := s.classRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToClassResponse(class)
	return &resp, nil
}

// Create schedules a class
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*ClassResponse, error) {
	class, err := catalog.NewClass(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, class.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}
	s.logger.Info("Class scheduled",
		zap.String("class_id", class.ID.String()),
		zap.Time("starts_at", class.StartsAt),
		zap.Int("capacity", class.Capacity))
	resp := ToClassResponse(class)
	return &resp, nil
}

// Update replaces a class's editable fields
func (s *ClassService) Update(ctx context.Context, id uuid.UUID, req ClassRequest) (*ClassResponse, error) {
	var resp ClassResponse
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		class, err := repos.Classes().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := class.Update(req.details()); err != nil {
			return err
		}
		if err := s.ensureSlugFree(ctx, class.Slug, class.ID); err != nil {
			return err
		}
		if err := repos.Classes().Save(ctx, class); err != nil {
			return err
		}
		resp = ToClassResponse(class)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel cancels a class together with its confirmed bookings
func (s *ClassService) Cancel(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	var (
		resp      ClassResponse
		cancelled int
	)
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		class, err := repos.Classes().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := class.Cancel(); err != nil {
			return err
		}

		now := s.now()
		filter := catalog.BookingFilter{
			Filter:  shared.DefaultFilter(),
			ClassID: &class.ID,
			Status:  catalog.BookingStatusConfirmed,
		}
		filter.PageSize = 100
		for {
			// cancelled bookings drop out of the filter, so page 1 is always next
			bookings, _, err := repos.Bookings().FindAll(ctx, filter)
			if err != nil {
				return err
			}
			if len(bookings) == 0 {
				break
			}
			for i := range bookings {
				if err := bookings[i].Cancel(class, now); err != nil {
					return err
				}
				if err := repos.Bookings().Save(ctx, &bookings[i]); err != nil {
					return err
				}
				cancelled++
			}
		}

		if err := repos.Classes().Save(ctx, class); err != nil {
			return err
		}
		resp = ToClassResponse(class)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Class cancelled",
		zap.String("class_id", id.String()),
		zap.Int("bookings_cancelled", cancelled))
	return &resp, nil
}

// Book reserves seats for the calling customer. The class row is locked
// while seats are counted.
func (s *ClassService) Book(ctx context.Context, classID uuid.UUID, req BookClassRequest) (*BookingResponse, error) {
	actor := shared.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return nil, shared.ErrUnauthorized
	}

	var (
		booking *catalog.ClassBooking
		class   *catalog.Class
	)
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		var err error
		class, err = repos.Classes().FindByIDForUpdate(ctx, classID)
		if err != nil {
			return err
		}
		booking, err = catalog.BookClass(class, actor.UserID, req.Seats, s.now())
		if err != nil {
			return err
		}
		if err := repos.Classes().Save(ctx, class); err != nil {
			return err
		}
		return repos.Bookings().Save(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Class booked",
		zap.String("booking_id", booking.ID.String()),
		zap.String("class_id", class.ID.String()),
		zap.Int("seats", booking.Seats),
		zap.Int("seats_left", class.SeatsLeft()))
	if err := shared.PublishAndClear(ctx, s.events, booking); err != nil {
		s.logger.Warn("Failed to publish booking events", zap.Error(err))
	}
	resp := ToBookingResponse(booking, class)
	return &resp, nil
}

// CancelBooking cancels a booking and returns its seats. Customers can
// only reach their own bookings.
func (s *ClassService) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error) {
	var resp BookingResponse
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		booking, err := repos.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		class, err := repos.Classes().FindByIDForUpdate(ctx, booking.ClassID)
		if err != nil {
			return err
		}
		if err := booking.Cancel(class, s.now()); err != nil {
			return err
		}
		if err := repos.Classes().Save(ctx, class); err != nil {
			return err
		}
		if err := repos.Bookings().Save(ctx, booking); err != nil {
			return err
		}
		resp = ToBookingResponse(booking, class)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Booking cancelled", zap.String("booking_id", bookingID.String()))
	return &resp, nil
}

// ListBookings returns the caller's bookings, or everyone's for staff
func (s *ClassService) ListBookings(ctx context.Context, f BookingListFilter) (*shared.Paginated[BookingResponse], error) {
	filter := catalog.BookingFilter{
		Filter:  f.filter("created_at", "desc"),
		ClassID: f.ClassID,
		Status:  catalog.BookingStatus(f.Status),
	}
	bookings, total, err := s.bookingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	classes := make(map[uuid.UUID]*catalog.Class)
	items := make([]BookingResponse, len(bookings))
	for i := range bookings {
		id := bookings[i].ClassID
		class, ok := classes[id]
		if !ok {
			if class, err = s.classRepo.FindByID(ctx, id); err != nil {
				return nil, err
			}
			classes[id] = class
		}
		items[i] = ToBookingResponse(&bookings[i], class)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

func (s *ClassService) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	taken, err := s.classRepo.ExistsBySlug(ctx, slug, self)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("SLUG_TAKEN", "Another class already uses slug "+slug)
	}
	return nil
}
