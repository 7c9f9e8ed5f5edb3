package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/pestops/backend/internal/application/billing"
	"github.com/pestops/backend/internal/interfaces/http/dto"
)

// BillingHandler handles invoice draft, balance and receipt API endpoints
type BillingHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	balanceService *billingapp.BalanceService
	receiptService *billingapp.ReceiptService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	invoiceService *billingapp.InvoiceService,
	balanceService *billingapp.BalanceService,
	receiptService *billingapp.ReceiptService,
) *BillingHandler {
	return &BillingHandler{
		invoiceService: invoiceService,
		balanceService: balanceService,
		receiptService: receiptService,
	}
}

// GetInvoiceDrafts returns invoice drafts for a period. Query parameters:
// year (required), month (0 = whole year), combine (merge branch drafts
// into one draft per customer).
func (h *BillingHandler) GetInvoiceDrafts(c *gin.Context) {
	var filter billingapp.InvoiceDraftFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	drafts, err := h.invoiceService.GetInvoiceDrafts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drafts)
}

// ExportInvoiceRows returns invoice draft line items as tabular rows in the
// accounting-import column order, header row first.
func (h *BillingHandler) ExportInvoiceRows(c *gin.Context) {
	var filter billingapp.InvoiceDraftFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, err := h.invoiceService.ExportInvoiceRows(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// GetCustomerBalance returns the debt/collections balance for one customer
func (h *BillingHandler) GetCustomerBalance(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	customerID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	balance, err := h.balanceService.GetCustomerBalance(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// CheckReceipt marks a collection receipt as checked by an administrator
func (h *BillingHandler) CheckReceipt(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}
	receiptID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.CheckReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	{
		billing.GET("/invoice-drafts", h.GetInvoiceDrafts)
		billing.GET("/invoice-drafts/export", h.ExportInvoiceRows)
		billing.GET("/customers/:id/balance", h.GetCustomerBalance)
		billing.POST("/receipts/:id/check", h.CheckReceipt)
	}
}
