package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/ramenshop/backend/internal/application/catalog"
)

// ClassHandler handles cooking classes and their bookings
type ClassHandler struct {
	BaseHandler
	classService *catalogapp.ClassService
}

// NewClassHandler creates a new ClassHandler
func NewClassHandler(classService *catalogapp.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// List godoc
// @ID           listClasses
// @Summary      List classes
// @Description  Upcoming classes; staff may include past ones
// @Tags         classes
// @Produce      json
// @Param        include_past query bool   false "Include classes that already started (staff)"
// @Param        status       query string false "scheduled or cancelled"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.ClassResponse]
// @Router       /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	var f catalogapp.ClassListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.classService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetBySlug godoc
// @ID           getClass
// @Summary      Get a class
// @Tags         classes
// @Produce      json
// @Param        slug path string true "Class slug"
// @Success      200 {object} APIResponse[catalogapp.ClassResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /classes/{slug} [get]
func (h *ClassHandler) GetBySlug(c *gin.Context) {
	class, err := h.classService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// Create godoc
// @ID           createClass
// @Summary      Schedule a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ClassRequest true "Class"
// @Success      201 {object} APIResponse[catalogapp.ClassResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req catalogapp.ClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	class, err := h.classService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, class)
}

// Update godoc
// @ID           updateClass
// @Summary      Replace a class
// @Description  Capacity cannot drop below the seats already booked
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Class ID" format(uuid)
// @Param        request body catalogapp.ClassRequest true "Class"
// @Success      200 {object} APIResponse[catalogapp.ClassResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	class, err := h.classService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// Cancel godoc
// @ID           cancelClass
// @Summary      Cancel a class
// @Description  Cancels every confirmed booking with it
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ClassResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id}/cancel [post]
func (h *ClassHandler) Cancel(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.classService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// Book godoc
// @ID           bookClass
// @Summary      Book seats
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Class ID" format(uuid)
// @Param        request body catalogapp.BookClassRequest true "Seats"
// @Success      201 {object} APIResponse[catalogapp.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id}/bookings [post]
func (h *ClassHandler) Book(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.BookClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	booking, err := h.classService.Book(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, booking)
}

// ListBookings godoc
// @ID           listBookings
// @Summary      List bookings
// @Description  Customers see their own bookings, staff see all
// @Tags         bookings
// @Produce      json
// @Param        class_id  query string false "Class ID" format(uuid)
// @Param        status    query string false "confirmed or cancelled"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.BookingResponse]
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *ClassHandler) ListBookings(c *gin.Context) {
	var f catalogapp.BookingListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.classService.ListBookings(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// CancelBooking godoc
// @ID           cancelBooking
// @Summary      Cancel a booking
// @Description  Returns the seats to the class
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.BookingResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/cancel [post]
func (h *ClassHandler) CancelBooking(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	booking, err := h.classService.CancelBooking(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, booking)
}
