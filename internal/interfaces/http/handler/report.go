package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/ramenshop/backend/internal/application/report"
)

// ReportHandler serves the back office reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// InventoryReportQuery is the expiry window of the inventory report
type InventoryReportQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=30"`
}

// Sales godoc
// @ID           getSalesReport
// @Summary      Sales report
// @Description  Revenue summary, daily trend and best sellers. Cancelled orders are excluded.
// @Tags         reports
// @Produce      json
// @Param        from  query string true  "First day (YYYY-MM-DD)"
// @Param        to    query string true  "Last day, inclusive (YYYY-MM-DD)"
// @Param        top_n query int    false "Best sellers to list" default(10)
// @Success      200 {object} APIResponse[reportapp.SalesReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	var req reportapp.RangeRequest
	if !h.bindQuery(c, &req) {
		return
	}
	rep, err := h.reportService.Sales(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Labor godoc
// @ID           getLaborReport
// @Summary      Labor report
// @Tags         reports
// @Produce      json
// @Param        from query string true "First day (YYYY-MM-DD)"
// @Param        to   query string true "Last day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.LaborReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/labor [get]
func (h *ReportHandler) Labor(c *gin.Context) {
	var req reportapp.RangeRequest
	if !h.bindQuery(c, &req) {
		return
	}
	rep, err := h.reportService.Labor(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Production godoc
// @ID           getProductionReport
// @Summary      Production report
// @Tags         reports
// @Produce      json
// @Param        from query string true "First day (YYYY-MM-DD)"
// @Param        to   query string true "Last day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.ProductionReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/production [get]
func (h *ReportHandler) Production(c *gin.Context) {
	var req reportapp.RangeRequest
	if !h.bindQuery(c, &req) {
		return
	}
	rep, err := h.reportService.Production(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Inventory godoc
// @ID           getInventoryReport
// @Summary      Inventory status
// @Description  Fridge utilization, items below par and stock expiring within the window
// @Tags         reports
// @Produce      json
// @Param        days query int false "Expiry window in days" default(3)
// @Success      200 {object} APIResponse[inventoryapp.StatusResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	var q InventoryReportQuery
	if !h.bindQuery(c, &q) {
		return
	}
	rep, err := h.reportService.Inventory(c.Request.Context(), q.Days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}
