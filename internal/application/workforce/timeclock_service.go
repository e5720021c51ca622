package workforce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const recentEntries = 10

// TimeClockService clocks employees in and out, from the web and from
// badge scans
type TimeClockService struct {
	entryRepo    workforce.TimeEntryRepository
	employeeRepo workforce.EmployeeRepository
	events       shared.EventPublisher
	config       config.TimeClockConfig
	policy       workforce.BreakPolicy
	logger       *zap.Logger
	now          func() time.Time
}

// BreakPolicyFromConfig overrides the default break policy with the
// configured threshold and length
func BreakPolicyFromConfig(cfg config.TimeClockConfig) workforce.BreakPolicy {
	policy := workforce.DefaultBreakPolicy()
	if cfg.SuggestBreakAfter > 0 {
		policy.SuggestAfter = cfg.SuggestBreakAfter
	}
	if cfg.SuggestedBreak > 0 {
		policy.SuggestedMinutes = int(cfg.SuggestedBreak / time.Minute)
	}
	return policy
}

// NewTimeClockService creates a new TimeClockService
func NewTimeClockService(
	entryRepo workforce.TimeEntryRepository,
	employeeRepo workforce.EmployeeRepository,
	events shared.EventPublisher,
	cfg config.TimeClockConfig,
	logger *zap.Logger,
) *TimeClockService {
	policy := BreakPolicyFromConfig(cfg)
	if cfg.PayrollPeriodDefault <= 0 {
		cfg.PayrollPeriodDefault = 14 * 24 * time.Hour
	}
	return &TimeClockService{
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		events:       events,
		config:       cfg,
		policy:       policy,
		logger:       logger,
		now:          time.Now,
	}
}

// Status returns the caller's open entry, recent entries and totals for
// the current pay period
func (s *TimeClockService) Status(ctx context.Context) (*TimeTrackingStatus, error) {
	actor := shared.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return nil, shared.ErrUnauthorized
	}
	now := s.now()
	status := &TimeTrackingStatus{Recent: []TimeEntryResponse{}}

	open, err := s.entryRepo.FindOpen(ctx, actor.UserID)
	switch {
	case err == nil:
		resp := ToTimeEntryResponse(open)
		status.ClockedIn = true
		status.Open = &resp
		status.OpenMinutes = int(open.OpenFor(now) / time.Minute)
		status.SuggestedBreak = open.SuggestedBreak(now, s.policy)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	recent := workforce.TimeEntryFilter{Filter: shared.DefaultFilter(), EmployeeID: &actor.UserID}
	recent.PageSize = recentEntries
	recent.OrderBy, recent.OrderDir = "clock_in", "desc"
	entries, _, err := s.entryRepo.FindAll(ctx, recent)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		status.Recent = append(status.Recent, ToTimeEntryResponse(&entries[i]))
	}

	from := now.Add(-s.config.PayrollPeriodDefault)
	totals, err := s.periodTotals(ctx, actor.UserID, from, now)
	if err != nil {
		return nil, err
	}
	status.Period = totals
	return status, nil
}

// Act performs a web clock action for the caller
func (s *TimeClockService) Act(ctx context.Context, req ClockRequest) (*ClockResult, error) {
	actor := shared.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return nil, shared.ErrUnauthorized
	}
	profile, err := s.profile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.act(ctx, profile, req.Action, req.BreakMinutes, req.RoundToQuarterHour, req.Notes, workforce.EntrySourceWeb)
}

// BadgeAct performs a clock action for the employee a badge belongs to.
// It needs no session: the badge token identifies the employee and the
// work runs under the service actor.
func (s *TimeClockService) BadgeAct(ctx context.Context, req BadgeClockRequest) (*ClockResult, error) {
	ctx = shared.WithActor(ctx, shared.ServiceActor())

	profile, err := s.employeeRepo.FindByBadgeToken(ctx, req.BadgeToken)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INVALID_BADGE", "Badge not recognised")
	}
	if err != nil {
		return nil, err
	}
	if err := profile.RecordBadgeScan(s.now(), s.config.BadgeScanCooldown); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	action := req.Action
	if action == ActionToggle {
		action = ActionClockIn
		if _, err := s.entryRepo.FindOpen(ctx, profile.UserID); err == nil {
			action = ActionClockOut
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return s.act(ctx, profile, action, req.BreakMinutes, req.RoundToQuarterHour, req.Notes, workforce.EntrySourceQR)
}

func (s *TimeClockService) act(
	ctx context.Context,
	profile *workforce.EmployeeProfile,
	action string,
	breakMinutes *int,
	round *bool,
	notes string,
	source workforce.EntrySource,
) (*ClockResult, error) {
	var (
		entry *workforce.TimeEntry
		err   error
	)
	switch action {
	case ActionClockIn:
		entry, err = s.clockIn(ctx, profile, source, notes)
	case ActionClockOut:
		entry, err = s.clockOut(ctx, profile, breakMinutes, round, notes)
	default:
		return nil, shared.NewDomainError("INVALID_ACTION", "Action must be clock_in or clock_out")
	}
	if err != nil {
		return nil, err
	}

	if err := shared.PublishAndClear(ctx, s.events, entry); err != nil {
		s.logger.Warn("Failed to publish time entry events", zap.String("entry_id", entry.ID.String()), zap.Error(err))
	}
	resp := ToTimeEntryResponse(entry)
	resp.EmployeeName = profile.DisplayName
	return &ClockResult{Action: action, EmployeeName: profile.DisplayName, Entry: resp}, nil
}

func (s *TimeClockService) clockIn(ctx context.Context, profile *workforce.EmployeeProfile, source workforce.EntrySource, notes string) (*workforce.TimeEntry, error) {
	_, err := s.entryRepo.FindOpen(ctx, profile.UserID)
	if err == nil {
		return nil, workforce.ErrAlreadyClockedIn
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	entry, err := workforce.StartEntry(profile.UserID, profile.HourlyRate, s.now(), source, notes)
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Clocked in",
		zap.String("employee", profile.DisplayName),
		zap.String("source", string(source)),
		zap.Time("at", entry.ClockIn))
	return entry, nil
}

func (s *TimeClockService) clockOut(ctx context.Context, profile *workforce.EmployeeProfile, breakMinutes *int, round *bool, notes string) (*workforce.TimeEntry, error) {
	entry, err := s.entryRepo.FindOpen(ctx, profile.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, workforce.ErrNotClockedIn
	}
	if err != nil {
		return nil, err
	}

	roundToQuarter := s.config.RoundToQuarterHour
	if round != nil {
		roundToQuarter = *round
	}
	if err := entry.Close(s.now(), breakMinutes, roundToQuarter, s.policy, notes); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Clocked out",
		zap.String("employee", profile.DisplayName),
		zap.Int("worked_minutes", entry.WorkedMinutes),
		zap.String("pay", entry.Pay.StringFixed(2)))
	return entry, nil
}

// FlagStaleEntries logs entries left open longer than the configured
// threshold and returns how many there are
func (s *TimeClockService) FlagStaleEntries(ctx context.Context) (int, error) {
	if s.config.StaleEntryAfter <= 0 {
		return 0, nil
	}
	now := s.now()
	entries, err := s.entryRepo.FindOpenSince(ctx, now.Add(-s.config.StaleEntryAfter))
	if err != nil {
		return 0, err
	}
	for i := range entries {
		e := &entries[i]
		s.logger.Warn("Time entry open too long",
			zap.String("entry_id", e.ID.String()),
			zap.String("employee_id", e.EmployeeID().String()),
			zap.Time("clock_in", e.ClockIn),
			zap.Duration("open_for", e.OpenFor(now).Round(time.Minute)))
	}
	return len(entries), nil
}

func (s *TimeClockService) profile(ctx context.Context, userID uuid.UUID) (*workforce.EmployeeProfile, error) {
	p, err := s.employeeRepo.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, shared.NewDomainError("EMPLOYEE_INACTIVE", "Employee is not active")
	}
	return p, nil
}

func (s *TimeClockService) periodTotals(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (PeriodTotals, error) {
	totals := PeriodTotals{From: from, To: to, Hours: decimal.Zero, Pay: decimal.Zero}
	entries, err := allEntries(ctx, s.entryRepo, workforce.TimeEntryFilter{EmployeeID: &employeeID, From: &from, To: &to})
	if err != nil {
		return totals, err
	}
	for i := range entries {
		if entries[i].IsOpen() {
			continue
		}
		totals.Entries++
		totals.WorkedMinutes += entries[i].WorkedMinutes
		totals.Hours = totals.Hours.Add(entries[i].TotalHours)
		totals.Pay = totals.Pay.Add(entries[i].Pay)
	}
	return totals, nil
}

// allEntries walks every page of a time entry listing
func allEntries(ctx context.Context, repo workforce.TimeEntryRepository, filter workforce.TimeEntryFilter) ([]workforce.TimeEntry, error) {
	filter.Filter = shared.DefaultFilter()
	filter.PageSize = 100
	filter.OrderBy, filter.OrderDir = "clock_in", "asc"

	var all []workforce.TimeEntry
	for {
		page, total, err := repo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		filter.Page++
	}
}
