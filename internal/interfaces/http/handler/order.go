package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/ramenshop/backend/internal/application/order"
)

// OrderHandler handles orders. Customers only ever see their own.
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        status           query string false "Order status"
// @Param        fulfillment_type query string false "delivery or pickup"
// @Param        search           query string false "Order number or contact"
// @Param        from             query string false "First day (YYYY-MM-DD)"
// @Param        to               query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        page             query int    false "Page number" default(1)
// @Param        page_size        query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var f orderapp.OrderListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.orderService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	o, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// GetByNumber godoc
// @ID           getOrderByNumber
// @Summary      Look up an order by number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number" example(RS-20260314-K7Q2XM)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/by-number/{number} [get]
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	o, err := h.orderService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Customers may cancel while the order is pending, staff also once it is confirmed
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                 true  "Order ID" format(uuid)
// @Param        request body orderapp.CancelRequest false "Reason"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req orderapp.CancelRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	o, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Transition godoc
// @ID           transitionOrder
// @Summary      Move an order to its next status
// @Description  Illegal transitions are rejected with 422; the response lists the next legal statuses
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Order ID" format(uuid)
// @Param        request body orderapp.TransitionRequest true "Target status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req orderapp.TransitionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	o, err := h.orderService.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
