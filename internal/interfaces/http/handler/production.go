package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/ramenshop/backend/internal/application/inventory"
)

// ProductionHandler handles production items, production logging and
// label scans
type ProductionHandler struct {
	BaseHandler
	itemService       *inventoryapp.ProductionItemService
	productionService *inventoryapp.ProductionService
	qrService         *inventoryapp.QRService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(
	itemService *inventoryapp.ProductionItemService,
	productionService *inventoryapp.ProductionService,
	qrService *inventoryapp.QRService,
) *ProductionHandler {
	return &ProductionHandler{
		itemService:       itemService,
		productionService: productionService,
		qrService:         qrService,
	}
}

// ListItems godoc
// @ID           listProductionItems
// @Summary      List production items
// @Tags         production
// @Produce      json
// @Param        search    query string false "Name or SKU contains"
// @Param        category  query string false "Category"
// @Param        active    query bool   false "Active filter"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventoryapp.ProductionItemResponse]
// @Security     BearerAuth
// @Router       /production-items [get]
func (h *ProductionHandler) ListItems(c *gin.Context) {
	var f inventoryapp.ProductionItemListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.itemService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetItem godoc
// @ID           getProductionItem
// @Summary      Get a production item
// @Tags         production
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.ProductionItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-items/{id} [get]
func (h *ProductionHandler) GetItem(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	item, err := h.itemService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateItem godoc
// @ID           createProductionItem
// @Summary      Add a production item
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.ProductionItemRequest true "Item"
// @Success      201 {object} APIResponse[inventoryapp.ProductionItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-items [post]
func (h *ProductionHandler) CreateItem(c *gin.Context) {
	var req inventoryapp.ProductionItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem godoc
// @ID           updateProductionItem
// @Summary      Replace a production item
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Item ID" format(uuid)
// @Param        request body inventoryapp.ProductionItemRequest true "Item"
// @Success      200 {object} APIResponse[inventoryapp.ProductionItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-items/{id} [put]
func (h *ProductionHandler) UpdateItem(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ProductionItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.itemService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ItemQRCode godoc
// @ID           getProductionItemQR
// @Summary      Item label
// @Tags         production
// @Produce      png
// @Param        id   path  string true  "Item ID" format(uuid)
// @Param        size query int    false "Pixels" default(512)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-items/{id}/qr.png [get]
func (h *ProductionHandler) ItemQRCode(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	png, err := h.itemService.QRCode(c.Request.Context(), id, queryInt(c, "size", defaultQRSize, minQRSize, maxQRSize))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePNG(c, png)
}

// RotateItemQR godoc
// @ID           rotateProductionItemQR
// @Summary      Issue a new item label token
// @Tags         production
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.QRRotateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-items/{id}/qr/rotate [post]
func (h *ProductionHandler) RotateItemQR(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.itemService.RotateQR(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// LogProduction godoc
// @ID           logProduction
// @Summary      Log a production batch
// @Description  Adds the batch to the fridge's stock; expiry follows the item's shelf life
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.ProductionLogRequest true "Batch"
// @Success      201 {object} APIResponse[inventoryapp.ProductionLogResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-logs [post]
func (h *ProductionHandler) LogProduction(c *gin.Context) {
	var req inventoryapp.ProductionLogRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.productionService.Log(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListProduction godoc
// @ID           listProductionLogs
// @Summary      List production logs
// @Tags         production
// @Produce      json
// @Param        item_id   query string false "Item ID" format(uuid)
// @Param        fridge_id query string false "Fridge ID" format(uuid)
// @Param        from      query string false "First day (YYYY-MM-DD)"
// @Param        to        query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventoryapp.ProductionLogResponse]
// @Security     BearerAuth
// @Router       /production-logs [get]
func (h *ProductionHandler) ListProduction(c *gin.Context) {
	var f inventoryapp.ProductionLogListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.productionService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ResolveQR godoc
// @ID           resolveQR
// @Summary      Resolve a scanned label
// @Tags         production
// @Produce      json
// @Param        token path string true "Label token"
// @Success      200 {object} APIResponse[inventoryapp.QRTarget]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /qr/{token} [get]
func (h *ProductionHandler) ResolveQR(c *gin.Context) {
	target, err := h.qrService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, target)
}
