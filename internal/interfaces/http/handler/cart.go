package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	commerceapp "github.com/ramenshop/backend/internal/application/commerce"
	"github.com/ramenshop/backend/internal/interfaces/http/dto"
	"github.com/ramenshop/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the customer's cart and checkout
type CartHandler struct {
	BaseHandler
	cartService     *commerceapp.CartService
	checkoutService *commerceapp.CheckoutService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *commerceapp.CartService, checkoutService *commerceapp.CheckoutService) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService}
}

// Get godoc
// @ID           getCart
// @Summary      Get my cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[commerceapp.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product
// @Description  Adding a product already in the cart increases its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body commerceapp.AddItemRequest true "Product and quantity"
// @Success      200 {object} APIResponse[commerceapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req commerceapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cart, err := h.cartService.AddItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Set a line's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string                        true "Product ID" format(uuid)
// @Param        request   body commerceapp.UpdateItemRequest true "Quantity"
// @Success      200 {object} APIResponse[commerceapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := h.paramID(c, "productId")
	if !ok {
		return
	}
	var req commerceapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cart, err := h.cartService.UpdateItem(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[commerceapp.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.paramID(c, "productId")
	if !ok {
		return
	}
	cart, err := h.cartService.RemoveItem(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[commerceapp.CartResponse]
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.cartService.Clear(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Quote godoc
// @ID           quoteCheckout
// @Summary      Price the cart
// @Description  Totals at current catalog prices, without placing an order
// @Tags         checkout
// @Produce      json
// @Param        fulfillment_type query string true "delivery or pickup"
// @Success      200 {object} APIResponse[commerceapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout/quote [get]
func (h *CartHandler) Quote(c *gin.Context) {
	var req commerceapp.QuoteRequest
	if !h.bindQuery(c, &req) {
		return
	}
	quote, err := h.checkoutService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Checkout godoc
// @ID           checkout
// @Summary      Place an order
// @Description  Re-prices the cart, creates the order and empties the cart.
// @Description  Retrying with the same Idempotency-Key returns the first order with Idempotent-Replayed: true.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                       false "Client generated key, at most 128 characters"
// @Param        request         body   commerceapp.CheckoutRequest true  "Contact and fulfillment"
// @Success      201 {object} APIResponse[commerceapp.CheckoutResult]
// @Success      200 {object} APIResponse[commerceapp.CheckoutResult] "Replayed"
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	key := c.GetHeader(middleware.IdempotencyKeyHeader)
	if len(key) > 128 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
		return
	}
	var req commerceapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.checkoutService.Checkout(c.Request.Context(), key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		c.Header(middleware.IdempotentReplayedHeader, "true")
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}
