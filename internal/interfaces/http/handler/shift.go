package handler

import (
	"github.com/gin-gonic/gin"
	workforceapp "github.com/ramenshop/backend/internal/application/workforce"
)

// ShiftHandler handles the shift schedule
type ShiftHandler struct {
	BaseHandler
	shiftService *workforceapp.ShiftService
}

// NewShiftHandler creates a new ShiftHandler
func NewShiftHandler(shiftService *workforceapp.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// List godoc
// @ID           listShifts
// @Summary      List shifts
// @Tags         shifts
// @Produce      json
// @Param        employee_id query string false "Employee user ID" format(uuid)
// @Param        from        query string false "Start, RFC 3339"
// @Param        to          query string false "End, exclusive, RFC 3339"
// @Param        published   query bool   false "Published filter"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]workforceapp.ShiftResponse]
// @Security     BearerAuth
// @Router       /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	var f workforceapp.ShiftListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.shiftService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Mine godoc
// @ID           listMyShifts
// @Summary      My published shifts
// @Tags         shifts
// @Produce      json
// @Param        from      query string false "Start, RFC 3339"
// @Param        to        query string false "End, exclusive, RFC 3339"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]workforceapp.ShiftResponse]
// @Security     BearerAuth
// @Router       /employee/shifts [get]
func (h *ShiftHandler) Mine(c *gin.Context) {
	var f workforceapp.ShiftListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.shiftService.Mine(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Create godoc
// @ID           createShift
// @Summary      Schedule a shift
// @Description  Shifts of one employee may not overlap
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        request body workforceapp.ShiftRequest true "Shift"
// @Success      201 {object} APIResponse[workforceapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts [post]
func (h *ShiftHandler) Create(c *gin.Context) {
	var req workforceapp.ShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shift, err := h.shiftService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shift)
}

// Update godoc
// @ID           updateShift
// @Summary      Reschedule a shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Shift ID" format(uuid)
// @Param        request body workforceapp.ShiftRequest true "Shift"
// @Success      200 {object} APIResponse[workforceapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id} [put]
func (h *ShiftHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req workforceapp.ShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shift, err := h.shiftService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Publish godoc
// @ID           publishShift
// @Summary      Publish a shift
// @Description  Makes the shift visible to the employee and notifies them
// @Tags         shifts
// @Produce      json
// @Param        id path string true "Shift ID" format(uuid)
// @Success      200 {object} APIResponse[workforceapp.ShiftResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id}/publish [post]
func (h *ShiftHandler) Publish(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	shift, err := h.shiftService.Publish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Delete godoc
// @ID           deleteShift
// @Summary      Delete a shift
// @Tags         shifts
// @Param        id path string true "Shift ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shifts/{id} [delete]
func (h *ShiftHandler) Delete(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.shiftService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
