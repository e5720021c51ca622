package handler

import (
	"github.com/gin-gonic/gin"
	workforceapp "github.com/ramenshop/backend/internal/application/workforce"
)

// EmployeeHandler handles employee profiles, pay rates and badges
type EmployeeHandler struct {
	BaseHandler
	employeeService *workforceapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *workforceapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// List godoc
// @ID           listEmployees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        active query bool false "Active employees only" default(true)
// @Success      200 {object} APIResponse[[]workforceapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employeeService.List(c.Request.Context(), c.DefaultQuery("active", "true") != "false")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employees)
}

// SetRate godoc
// @ID           setEmployeeRate
// @Summary      Change an hourly rate
// @Description  Applies to entries closed from now on
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Employee profile ID" format(uuid)
// @Param        request body workforceapp.SetRateRequest true "Rate"
// @Success      200 {object} APIResponse[workforceapp.EmployeeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id}/rate [put]
func (h *EmployeeHandler) SetRate(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req workforceapp.SetRateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.SetRate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// RotateBadge godoc
// @ID           rotateEmployeeBadge
// @Summary      Issue a new badge
// @Description  The old badge stops working
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee profile ID" format(uuid)
// @Success      200 {object} APIResponse[workforceapp.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id}/badge/rotate [post]
func (h *EmployeeHandler) RotateBadge(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.RotateBadge(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// BadgeQRCode godoc
// @ID           getEmployeeBadge
// @Summary      Badge QR code
// @Tags         employees
// @Produce      png
// @Param        id   path  string true  "Employee profile ID" format(uuid)
// @Param        size query int    false "Pixels" default(512)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id}/badge.png [get]
func (h *EmployeeHandler) BadgeQRCode(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	png, err := h.employeeService.BadgeQRCode(c.Request.Context(), id, queryInt(c, "size", defaultQRSize, minQRSize, maxQRSize))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePNG(c, png)
}
