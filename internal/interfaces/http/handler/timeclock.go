package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	workforceapp "github.com/ramenshop/backend/internal/application/workforce"
)

// TimeClockHandler handles clocking in and out, time entry corrections
// and payroll
type TimeClockHandler struct {
	BaseHandler
	clockService *workforceapp.TimeClockService
	entryService *workforceapp.TimeEntryService
}

// NewTimeClockHandler creates a new TimeClockHandler
func NewTimeClockHandler(clockService *workforceapp.TimeClockService, entryService *workforceapp.TimeEntryService) *TimeClockHandler {
	return &TimeClockHandler{clockService: clockService, entryService: entryService}
}

// PayrollQuery is the period of a payroll summary
type PayrollQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// Status godoc
// @ID           getTimeTracking
// @Summary      My clock status
// @Description  Open entry, recent entries and pay period totals
// @Tags         time-tracking
// @Produce      json
// @Success      200 {object} APIResponse[workforceapp.TimeTrackingStatus]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/time-tracking [get]
func (h *TimeClockHandler) Status(c *gin.Context) {
	status, err := h.clockService.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Act godoc
// @ID           clockAction
// @Summary      Clock in or out
// @Tags         time-tracking
// @Accept       json
// @Produce      json
// @Param        request body workforceapp.ClockRequest true "Clock action"
// @Success      200 {object} APIResponse[workforceapp.ClockResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/time-tracking [post]
func (h *TimeClockHandler) Act(c *gin.Context) {
	var req workforceapp.ClockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.clockService.Act(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BadgeAct godoc
// @ID           badgeClockAction
// @Summary      Clock by badge scan
// @Description  Used by the shop's scanner; the badge token identifies the employee. Repeated scans within the cooldown are rejected.
// @Tags         time-tracking
// @Accept       json
// @Produce      json
// @Param        request body workforceapp.BadgeClockRequest true "Badge scan"
// @Success      200 {object} APIResponse[workforceapp.ClockResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /timeclock/qr [post]
func (h *TimeClockHandler) BadgeAct(c *gin.Context) {
	var req workforceapp.BadgeClockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.clockService.BadgeAct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListEntries godoc
// @ID           listTimeEntries
// @Summary      List time entries
// @Tags         time-tracking
// @Produce      json
// @Param        employee_id query string false "Employee profile ID" format(uuid)
// @Param        from        query string false "First day (YYYY-MM-DD)"
// @Param        to          query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        open_only   query bool   false "Only entries still clocked in"
// @Param        order_by    query string false "clock_in or total_hours"
// @Param        order_dir   query string false "asc or desc"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]workforceapp.TimeEntryResponse]
// @Security     BearerAuth
// @Router       /time-entries [get]
func (h *TimeClockHandler) ListEntries(c *gin.Context) {
	var f workforceapp.TimeEntryListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.entryService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// CorrectEntry godoc
// @ID           correctTimeEntry
// @Summary      Correct a time entry
// @Description  Hours and pay are recomputed; correcting an open entry closes it
// @Tags         time-tracking
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Entry ID" format(uuid)
// @Param        request body workforceapp.CorrectEntryRequest true "Corrected times"
// @Success      200 {object} APIResponse[workforceapp.TimeEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /time-entries/{id} [put]
func (h *TimeClockHandler) CorrectEntry(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req workforceapp.CorrectEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.entryService.Correct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Payroll godoc
// @ID           getPayroll
// @Summary      Payroll summary
// @Description  Closed entries per employee for clock-ins between the two days, both inclusive
// @Tags         time-tracking
// @Produce      json
// @Param        from query string true "First day (YYYY-MM-DD)"
// @Param        to   query string true "Last day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[workforceapp.PayrollResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll [get]
func (h *TimeClockHandler) Payroll(c *gin.Context) {
	var q PayrollQuery
	if !h.bindQuery(c, &q) {
		return
	}
	summary, err := h.entryService.Payroll(c.Request.Context(), q.From, q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
