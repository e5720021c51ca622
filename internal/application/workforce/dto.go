package workforce

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/shopspring/decimal"
)

// Clock actions
const (
	ActionClockIn  = "clock_in"
	ActionClockOut = "clock_out"
	// ActionToggle is accepted from badge scanners only
	ActionToggle = "toggle"
)

// ========== Employees ==========

// EmployeeResponse is the API view of an employee profile
type EmployeeResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	DisplayName     string          `json:"display_name"`
	HourlyRate      decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
	Active          bool            `json:"active"`
	ClockedIn       bool            `json:"clocked_in"`
	LastBadgeScanAt *time.Time      `json:"last_badge_scan_at,omitempty"`
	BadgeURL        string          `json:"badge_url,omitempty"`
}

// SetRateRequest changes an employee's hourly rate
type SetRateRequest struct {
	HourlyRate decimal.Decimal `json:"hourly_rate" swaggertype:"string" example:"18.50"`
}

// ========== Shifts ==========

// ShiftRequest creates or reschedules a shift. EmployeeID is the
// employee's user ID.
type ShiftRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Station    string    `json:"station" binding:"max=100"`
	Notes      string    `json:"notes" binding:"max=1000"`
}

// ShiftListFilter narrows shift listings. To is exclusive.
type ShiftListFilter struct {
	EmployeeID *uuid.UUID `form:"employee_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Published  *bool      `form:"published"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ShiftResponse is the API view of a shift
type ShiftResponse struct {
	ID           uuid.UUID  `json:"id"`
	EmployeeID   uuid.UUID  `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	Hours        string     `json:"hours"`
	Station      string     `json:"station,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Published    bool       `json:"published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// ========== Time tracking ==========

// ClockRequest is an employee's clock action from the web
type ClockRequest struct {
	Action             string `json:"action" binding:"required,oneof=clock_in clock_out"`
	BreakMinutes       *int   `json:"break_minutes" binding:"omitempty,oneof=0 15 30 45 60"`
	RoundToQuarterHour *bool  `json:"round_to_quarter_hour"`
	Notes              string `json:"notes" binding:"max=500"`
}

// BadgeClockRequest is a clock action from a badge scan
type BadgeClockRequest struct {
	BadgeToken         string `json:"badge_token" binding:"required,max=64"`
	Action             string `json:"action" binding:"required,oneof=clock_in clock_out toggle"`
	BreakMinutes       *int   `json:"break_minutes" binding:"omitempty,oneof=0 15 30 45 60"`
	RoundToQuarterHour *bool  `json:"round_to_quarter_hour"`
	Notes              string `json:"notes" binding:"max=500"`
}

// TimeEntryResponse is the API view of a time entry
type TimeEntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmployeeID     uuid.UUID       `json:"employee_id"`
	EmployeeName   string          `json:"employee_name,omitempty"`
	ClockIn        time.Time       `json:"clock_in"`
	ClockOut       *time.Time      `json:"clock_out,omitempty"`
	Open           bool            `json:"open"`
	BreakMinutes   int             `json:"break_minutes"`
	Rounded        bool            `json:"rounded"`
	ElapsedMinutes int             `json:"elapsed_minutes"`
	WorkedMinutes  int             `json:"worked_minutes"`
	TotalHours     decimal.Decimal `json:"total_hours" swaggertype:"string"`
	HourlyRate     decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
	Pay            decimal.Decimal `json:"pay" swaggertype:"string"`
	Source         string          `json:"source"`
	Notes          string          `json:"notes,omitempty"`
}

// ClockResult is the outcome of a clock action
type ClockResult struct {
	Action       string            `json:"action"`
	EmployeeName string            `json:"employee_name,omitempty"`
	Entry        TimeEntryResponse `json:"entry"`
}

// PeriodTotals sums closed entries in a period
type PeriodTotals struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Entries       int             `json:"entries"`
	WorkedMinutes int             `json:"worked_minutes"`
	Hours         decimal.Decimal `json:"hours" swaggertype:"string"`
	Pay           decimal.Decimal `json:"pay" swaggertype:"string"`
}

// TimeTrackingStatus is an employee's clock dashboard
type TimeTrackingStatus struct {
	ClockedIn      bool                `json:"clocked_in"`
	Open           *TimeEntryResponse  `json:"open_entry,omitempty"`
	OpenMinutes    int                 `json:"open_minutes"`
	SuggestedBreak int                 `json:"suggested_break_minutes"`
	Recent         []TimeEntryResponse `json:"recent"`
	Period         PeriodTotals        `json:"period"`
}

// TimeEntryListFilter narrows the admin listing. To is inclusive.
type TimeEntryListFilter struct {
	EmployeeID *uuid.UUID `form:"employee_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	OpenOnly   bool       `form:"open_only"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,max=30"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CorrectEntryRequest rewrites a time entry. Correcting an open entry
// closes it.
type CorrectEntryRequest struct {
	ClockIn            time.Time `json:"clock_in" binding:"required"`
	ClockOut           time.Time `json:"clock_out" binding:"required"`
	// BreakMinutes defaults to the suggested break when omitted
	BreakMinutes       *int      `json:"break_minutes" binding:"omitempty,oneof=0 15 30 45 60"`
	RoundToQuarterHour bool      `json:"round_to_quarter_hour"`
	Notes              string    `json:"notes" binding:"max=500"`
}

// PayrollLine is one employee in the payroll summary
type PayrollLine struct {
	EmployeeID    uuid.UUID       `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Entries       int             `json:"entries"`
	WorkedMinutes int             `json:"worked_minutes"`
	Hours         decimal.Decimal `json:"hours" swaggertype:"string"`
	Pay           decimal.Decimal `json:"pay" swaggertype:"string"`
	OpenEntries   int             `json:"open_entries"`
}

// PayrollResponse sums closed entries per employee
type PayrollResponse struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Employees []PayrollLine   `json:"employees"`
	Hours     decimal.Decimal `json:"total_hours" swaggertype:"string"`
	Pay       decimal.Decimal `json:"total_pay" swaggertype:"string"`
}

// ========== Mapping ==========

// ToTimeEntryResponse maps a time entry
func ToTimeEntryResponse(e *workforce.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID(),
		ClockIn:        e.ClockIn,
		ClockOut:       e.ClockOut,
		Open:           e.IsOpen(),
		BreakMinutes:   e.BreakMinutes,
		Rounded:        e.Rounded,
		ElapsedMinutes: e.ElapsedMinutes,
		WorkedMinutes:  e.WorkedMinutes,
		TotalHours:     e.TotalHours,
		HourlyRate:     e.HourlyRate,
		Pay:            e.Pay,
		Source:         string(e.Source),
		Notes:          e.Notes,
	}
}

// ToShiftResponse maps a shift
func ToShiftResponse(s *workforce.Shift, employeeName string) ShiftResponse {
	return ShiftResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		EmployeeName: employeeName,
		StartsAt:     s.StartsAt,
		EndsAt:       s.EndsAt,
		Hours:        workforce.HoursFromMinutes(int(s.Duration() / time.Minute)).StringFixed(2),
		Station:      s.Station,
		Notes:        s.Notes,
		Published:    s.Published,
		PublishedAt:  s.PublishedAt,
	}
}

// ToEmployeeResponse maps an employee profile
func ToEmployeeResponse(p *workforce.EmployeeProfile, clockedIn bool, badgeURL string) EmployeeResponse {
	return EmployeeResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		HourlyRate:      p.HourlyRate,
		Active:          p.Active,
		ClockedIn:       clockedIn,
		LastBadgeScanAt: p.LastBadgeScanAt,
		BadgeURL:        badgeURL,
	}
}
