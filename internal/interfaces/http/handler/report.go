package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/pestops/backend/internal/application/report"
)

// ReportHandler handles revenue report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetYearlyRevenue returns the per-entity monthly revenue matrix for a year.
// Query parameters: year (required), mode (customer|branch, default customer),
// sale_statuses (repeatable, defaults to the unbilled set).
func (h *ReportHandler) GetYearlyRevenue(c *gin.Context) {
	var filter reportapp.YearlyRevenueFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.GetYearlyRevenue(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/revenue/yearly", h.GetYearlyRevenue)
	}
}
