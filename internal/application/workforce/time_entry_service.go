package workforce

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TimeEntryService is the admin side of time tracking
type TimeEntryService struct {
	entryRepo    workforce.TimeEntryRepository
	employeeRepo workforce.EmployeeRepository
	policy       workforce.BreakPolicy
	logger       *zap.Logger
	now          func() time.Time
}

// NewTimeEntryService creates a new TimeEntryService. policy decides the
// break of corrections that leave it out.
func NewTimeEntryService(
	entryRepo workforce.TimeEntryRepository,
	employeeRepo workforce.EmployeeRepository,
	policy workforce.BreakPolicy,
	logger *zap.Logger,
) *TimeEntryService {
	return &TimeEntryService{entryRepo: entryRepo, employeeRepo: employeeRepo, policy: policy, logger: logger, now: time.Now}
}

// List returns a page of time entries, newest first
func (s *TimeEntryService) List(ctx context.Context, f TimeEntryListFilter) (*shared.Paginated[TimeEntryResponse], error) {
	filter := workforce.TimeEntryFilter{
		Filter:     shared.DefaultFilter(),
		EmployeeID: f.EmployeeID,
		From:       f.From,
		OpenOnly:   f.OpenOnly,
	}
	filter.OrderBy, filter.OrderDir = "clock_in", "desc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy, filter.OrderDir = f.OrderBy, f.OrderDir
	}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		filter.To = &end
	}

	entries, total, err := s.entryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := employeeNames(ctx, s.employeeRepo)
	if err != nil {
		return nil, err
	}
	result := make([]TimeEntryResponse, len(entries))
	for i := range entries {
		result[i] = ToTimeEntryResponse(&entries[i])
		result[i].EmployeeName = names[entries[i].EmployeeID()]
	}
	page := shared.NewPaginated(result, total, filter.Page, filter.Limit())
	return &page, nil
}

// Correct rewrites the times and break of an entry and recomputes hours
// and pay at the entry's rate
func (s *TimeEntryService) Correct(ctx context.Context, id uuid.UUID, req CorrectEntryRequest) (*TimeEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClockOut.After(s.now().Add(time.Minute)) {
		return nil, shared.NewDomainError("INVALID_TIME_RANGE", "Clock-out cannot be in the future")
	}
	before := entry.Pay
	if err := entry.Correct(req.ClockIn, req.ClockOut, req.BreakMinutes, req.RoundToQuarterHour, s.policy); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		if entry.Notes != "" {
			entry.Notes += "\n"
		}
		entry.Notes += req.Notes
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Time entry corrected",
		zap.String("entry_id", id.String()),
		zap.String("corrected_by", shared.ActorFrom(ctx).UserID.String()),
		zap.String("pay_before", before.StringFixed(2)),
		zap.String("pay_after", entry.Pay.StringFixed(2)))
	resp := ToTimeEntryResponse(entry)
	return &resp, nil
}

// Payroll sums closed entries per employee for clock-ins in [from, to].
// Both dates are inclusive days.
func (s *TimeEntryService) Payroll(ctx context.Context, from, to time.Time) (*PayrollResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_TIME_RANGE", "The end of the period is before its start")
	}
	end := to.AddDate(0, 0, 1)
	entries, err := allEntries(ctx, s.entryRepo, workforce.TimeEntryFilter{From: &from, To: &end})
	if err != nil {
		return nil, err
	}
	names, err := employeeNames(ctx, s.employeeRepo)
	if err != nil {
		return nil, err
	}

	resp := &PayrollResponse{From: from, To: to, Employees: []PayrollLine{}, Hours: decimal.Zero, Pay: decimal.Zero}
	lines := make(map[uuid.UUID]*PayrollLine)
	for i := range entries {
		e := &entries[i]
		line, ok := lines[e.EmployeeID()]
		if !ok {
			line = &PayrollLine{
				EmployeeID:   e.EmployeeID(),
				EmployeeName: names[e.EmployeeID()],
				Hours:        decimal.Zero,
				Pay:          decimal.Zero,
			}
			lines[e.EmployeeID()] = line
		}
		if e.IsOpen() {
			line.OpenEntries++
			continue
		}
		line.Entries++
		line.WorkedMinutes += e.WorkedMinutes
		line.Hours = line.Hours.Add(e.TotalHours)
		line.Pay = line.Pay.Add(e.Pay)
		resp.Hours = resp.Hours.Add(e.TotalHours)
		resp.Pay = resp.Pay.Add(e.Pay)
	}
	for _, l := range lines {
		resp.Employees = append(resp.Employees, *l)
	}
	sort.Slice(resp.Employees, func(a, b int) bool {
		return resp.Employees[a].EmployeeName < resp.Employees[b].EmployeeName
	})
	return resp, nil
}

func employeeNames(ctx context.Context, repo workforce.EmployeeRepository) (map[uuid.UUID]string, error) {
	profiles, err := repo.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}
	return names, nil
}
