package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/ramenshop/backend/internal/application/inventory"
)

const (
	defaultQRSize = 512
	minQRSize     = 128
	maxQRSize     = 2048
)

// FridgeHandler handles fridges, their stock and labels
type FridgeHandler struct {
	BaseHandler
	fridgeService *inventoryapp.FridgeService
}

// NewFridgeHandler creates a new FridgeHandler
func NewFridgeHandler(fridgeService *inventoryapp.FridgeService) *FridgeHandler {
	return &FridgeHandler{fridgeService: fridgeService}
}

// List godoc
// @ID           listFridges
// @Summary      List fridges
// @Tags         fridges
// @Produce      json
// @Param        active query bool false "Active fridges only" default(true)
// @Success      200 {object} APIResponse[[]inventoryapp.FridgeResponse]
// @Security     BearerAuth
// @Router       /fridges [get]
func (h *FridgeHandler) List(c *gin.Context) {
	fridges, err := h.fridgeService.List(c.Request.Context(), c.DefaultQuery("active", "true") != "false")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fridges)
}

// Get godoc
// @ID           getFridge
// @Summary      Get a fridge with its utilization
// @Tags         fridges
// @Produce      json
// @Param        id path string true "Fridge ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.FridgeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id} [get]
func (h *FridgeHandler) Get(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	fridge, err := h.fridgeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fridge)
}

// Create godoc
// @ID           createFridge
// @Summary      Add a fridge
// @Tags         fridges
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.FridgeRequest true "Fridge"
// @Success      201 {object} APIResponse[inventoryapp.FridgeResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges [post]
func (h *FridgeHandler) Create(c *gin.Context) {
	var req inventoryapp.FridgeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fridge, err := h.fridgeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fridge)
}

// Update godoc
// @ID           updateFridge
// @Summary      Replace a fridge
// @Description  Capacity cannot shrink below the current load
// @Tags         fridges
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Fridge ID" format(uuid)
// @Param        request body inventoryapp.FridgeRequest true "Fridge"
// @Success      200 {object} APIResponse[inventoryapp.FridgeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id} [put]
func (h *FridgeHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.FridgeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fridge, err := h.fridgeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fridge)
}

// Inventory godoc
// @ID           getFridgeInventory
// @Summary      Fridge contents
// @Description  Per item portions and cases plus the fridge's utilization
// @Tags         fridges
// @Produce      json
// @Param        id path string true "Fridge ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.FridgeInventoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id}/inventory [get]
func (h *FridgeHandler) Inventory(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	inv, err := h.fridgeService.Inventory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// AdjustStock godoc
// @ID           adjustFridgeStock
// @Summary      Add, remove or set stock
// @Description  Removing more than is stored fails with INSUFFICIENT_STOCK; overfilling fails with CAPACITY_EXCEEDED
// @Tags         fridges
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Fridge ID" format(uuid)
// @Param        request body inventoryapp.StockActionRequest true "Stock action"
// @Success      200 {object} APIResponse[inventoryapp.StockLineResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id}/inventory [post]
func (h *FridgeHandler) AdjustStock(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.StockActionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	line, err := h.fridgeService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Transfer godoc
// @ID           transferFridgeStock
// @Summary      Move stock to another fridge
// @Description  Both sides change in one transaction; capacity is checked on the target
// @Tags         fridges
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Source fridge ID" format(uuid)
// @Param        request body inventoryapp.TransferRequest true "Transfer"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id}/transfer [post]
func (h *FridgeHandler) Transfer(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.fridgeService.Transfer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Movements godoc
// @ID           listFridgeMovements
// @Summary      Stock audit trail
// @Tags         fridges
// @Produce      json
// @Param        id    path  string true  "Fridge ID" format(uuid)
// @Param        limit query int    false "Rows" default(50)
// @Success      200 {object} APIResponse[[]inventoryapp.MovementResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id}/movements [get]
func (h *FridgeHandler) Movements(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	rows, err := h.fridgeService.Movements(c.Request.Context(), id, queryInt(c, "limit", 0, 0, 500))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// QRCode godoc
// @ID           getFridgeQR
// @Summary      Fridge label
// @Description  PNG QR code encoding the fridge's scan URL
// @Tags         fridges
// @Produce      png
// @Param        id   path  string true  "Fridge ID" format(uuid)
// @Param        size query int    false "Pixels" default(512)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id}/qr.png [get]
func (h *FridgeHandler) QRCode(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	png, err := h.fridgeService.QRCode(c.Request.Context(), id, queryInt(c, "size", defaultQRSize, minQRSize, maxQRSize))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePNG(c, png)
}

// RotateQR godoc
// @ID           rotateFridgeQR
// @Summary      Issue a new label token
// @Description  Labels printed with the old token stop resolving
// @Tags         fridges
// @Produce      json
// @Param        id path string true "Fridge ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.QRRotateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fridges/{id}/qr/rotate [post]
func (h *FridgeHandler) RotateQR(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.fridgeService.RotateQR(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func writePNG(c *gin.Context, png []byte) {
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
