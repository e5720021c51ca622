package workforce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"go.uber.org/zap"
)

// ShiftService schedules employees
type ShiftService struct {
	shiftRepo    workforce.ShiftRepository
	employeeRepo workforce.EmployeeRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewShiftService creates a new ShiftService
func NewShiftService(
	shiftRepo workforce.ShiftRepository,
	employeeRepo workforce.EmployeeRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ShiftService {
	return &ShiftService{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		events:       events,
		logger:       logger,
	}
}

// List returns shifts for managers
func (s *ShiftService) List(ctx context.Context, f ShiftListFilter) (*shared.Paginated[ShiftResponse], error) {
	filter := workforce.ShiftFilter{
		Filter:     shared.DefaultFilter(),
		EmployeeID: f.EmployeeID,
		From:       f.From,
		To:         f.To,
	}
	filter.OrderBy, filter.OrderDir = "starts_at", "asc"
	if f.Published != nil && *f.Published {
		filter.PublishedOnly = true
	}
	return s.list(ctx, filter, f.Page, f.PageSize)
}

// Mine returns the caller's published shifts
func (s *ShiftService) Mine(ctx context.Context, f ShiftListFilter) (*shared.Paginated[ShiftResponse], error) {
	actor := shared.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return nil, shared.ErrUnauthorized
	}
	filter := workforce.ShiftFilter{
		Filter:        shared.DefaultFilter(),
		EmployeeID:    &actor.UserID,
		From:          f.From,
		To:            f.To,
		PublishedOnly: true,
	}
	filter.OrderBy, filter.OrderDir = "starts_at", "asc"
	return s.list(ctx, filter, f.Page, f.PageSize)
}

func (s *ShiftService) list(ctx context.Context, filter workforce.ShiftFilter, page, pageSize int) (*shared.Paginated[ShiftResponse], error) {
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	shifts, total, err := s.shiftRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := employeeNames(ctx, s.employeeRepo)
	if err != nil {
		return nil, err
	}
	result := make([]ShiftResponse, len(shifts))
	for i := range shifts {
		result[i] = ToShiftResponse(&shifts[i], names[shifts[i].EmployeeID])
	}
	p := shared.NewPaginated(result, total, filter.Page, filter.Limit())
	return &p, nil
}

// Create schedules an unpublished shift
func (s *ShiftService) Create(ctx context.Context, req ShiftRequest) (*ShiftResponse, error) {
	employee, err := s.employee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	shift, err := workforce.NewShift(req.EmployeeID, req.StartsAt, req.EndsAt, req.Station, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, shift); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	s.logger.Info("Shift scheduled",
		zap.String("shift_id", shift.ID.String()),
		zap.String("employee", employee.DisplayName),
		zap.Time("starts_at", shift.StartsAt))
	resp := ToShiftResponse(shift, employee.DisplayName)
	return &resp, nil
}

// Update reschedules a shift. A published shift notifies the employee
// again.
func (s *ShiftService) Update(ctx context.Context, id uuid.UUID, req ShiftRequest) (*ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != shift.EmployeeID {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "A shift cannot be moved to another employee; delete it and schedule a new one")
	}
	employee, err := s.employee(ctx, shift.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := shift.Reschedule(req.StartsAt, req.EndsAt, req.Station, req.Notes); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, shift); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	s.publish(ctx, shift)
	resp := ToShiftResponse(shift, employee.DisplayName)
	return &resp, nil
}

// Publish makes a shift visible to its employee, who gets an email
func (s *ShiftService) Publish(ctx context.Context, id uuid.UUID) (*ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shift.Publish(); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	s.logger.Info("Shift published", zap.String("shift_id", shift.ID.String()))
	s.publish(ctx, shift)

	names, err := employeeNames(ctx, s.employeeRepo)
	if err != nil {
		return nil, err
	}
	resp := ToShiftResponse(shift, names[shift.EmployeeID])
	return &resp, nil
}

// Delete removes a shift
func (s *ShiftService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.shiftRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.shiftRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Shift deleted", zap.String("shift_id", id.String()))
	return nil
}

func (s *ShiftService) ensureFree(ctx context.Context, shift *workforce.Shift) error {
	clashes, err := s.shiftRepo.FindOverlapping(ctx, shift.EmployeeID, shift.StartsAt, shift.EndsAt, shift.ID)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		c := clashes[0]
		return shared.NewDomainError("SHIFT_OVERLAP", fmt.Sprintf(
			"Employee already has a shift from %s to %s",
			c.StartsAt.Format(time.RFC3339), c.EndsAt.Format(time.RFC3339)))
	}
	return nil
}

func (s *ShiftService) employee(ctx context.Context, userID uuid.UUID) (*workforce.EmployeeProfile, error) {
	p, err := s.employeeRepo.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "No employee profile for this user")
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, shared.NewDomainError("EMPLOYEE_INACTIVE", "Employee is not active")
	}
	return p, nil
}

func (s *ShiftService) publish(ctx context.Context, shift *workforce.Shift) {
	if err := shared.PublishAndClear(ctx, s.events, shift); err != nil {
		s.logger.Warn("Failed to publish shift events", zap.String("shift_id", shift.ID.String()), zap.Error(err))
	}
}
