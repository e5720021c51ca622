package workforce

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"go.uber.org/zap"
)

// BadgeCodes renders employee badge links and images
type BadgeCodes interface {
	BadgeURLFor(token string) string
	BadgePNG(token string, size int) ([]byte, error)
}

// EmployeeService manages pay rates and badges
type EmployeeService struct {
	employeeRepo workforce.EmployeeRepository
	entryRepo    workforce.TimeEntryRepository
	badges       BadgeCodes
	logger       *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(
	employeeRepo workforce.EmployeeRepository,
	entryRepo workforce.TimeEntryRepository,
	badges BadgeCodes,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, entryRepo: entryRepo, badges: badges, logger: logger}
}

// List returns employees with whether they are clocked in right now
func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error) {
	profiles, err := s.employeeRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	open, err := allEntries(ctx, s.entryRepo, workforce.TimeEntryFilter{OpenOnly: true})
	if err != nil {
		return nil, err
	}
	clockedIn := make(map[uuid.UUID]bool, len(open))
	for _, e := range open {
		clockedIn[e.EmployeeID()] = true
	}

	result := make([]EmployeeResponse, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		result[i] = ToEmployeeResponse(p, clockedIn[p.UserID], s.badges.BadgeURLFor(p.BadgeToken))
	}
	sort.Slice(result, func(a, b int) bool { return result[a].DisplayName < result[b].DisplayName })
	return result, nil
}

// SetRate changes the hourly rate used for entries started from now on
func (s *EmployeeService) SetRate(ctx context.Context, id uuid.UUID, req SetRateRequest) (*EmployeeResponse, error) {
	p, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	old := p.HourlyRate
	if err := p.SetHourlyRate(req.HourlyRate); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Hourly rate changed",
		zap.String("employee", p.DisplayName),
		zap.String("from", old.StringFixed(2)),
		zap.String("to", p.HourlyRate.StringFixed(2)),
		zap.String("changed_by", shared.ActorFrom(ctx).UserID.String()))
	resp := ToEmployeeResponse(p, false, s.badges.BadgeURLFor(p.BadgeToken))
	return &resp, nil
}

// RotateBadge invalidates the printed badge
func (s *EmployeeService) RotateBadge(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	p, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	token := p.RotateBadge()
	if err := s.employeeRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Badge rotated", zap.String("employee", p.DisplayName))
	resp := ToEmployeeResponse(p, false, s.badges.BadgeURLFor(token))
	return &resp, nil
}

// BadgeQRCode renders the employee badge as PNG
func (s *EmployeeService) BadgeQRCode(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	p, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.badges.BadgePNG(p.BadgeToken, size)
}
