package billing

import (
	"context"
	"fmt"

	"github.com/pestops/backend/internal/domain/billing"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService produces invoice drafts from the billable events of a
// period, either one draft per (customer, branch, month) or combined per
// customer. Invoicing acts on approved material sales only; draft sales are
// not invoiceable.
type InvoiceService struct {
	snapshots billing.SnapshotRepository
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(snapshots billing.SnapshotRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		snapshots: snapshots,
		logger:    logger,
	}
}

// InvoiceDraftFilter defines the request filter for invoice drafts. Month is
// optional (0 means the whole year); Combine merges per-branch drafts into
// one draft per customer and month.
type InvoiceDraftFilter struct {
	Year    int  `form:"year" binding:"required"`
	Month   int  `form:"month"`
	Combine bool `form:"combine"`
}

// InvoiceLineItemResponse is one line of an invoice draft. The field order
// mirrors the accounting-import spreadsheet columns and must not change.
type InvoiceLineItemResponse struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	VATRate     float64 `json:"vat_rate"`
}

// InvoiceDraftResponse represents one invoice draft
type InvoiceDraftResponse struct {
	CustomerID   string                    `json:"customer_id"`
	CustomerName string                    `json:"customer_name"`
	BranchID     string                    `json:"branch_id,omitempty"`
	BranchName   string                    `json:"branch_name,omitempty"`
	Year         int                       `json:"year"`
	Month        int                       `json:"month"`
	LineItems    []InvoiceLineItemResponse `json:"line_items"`
	Total        float64                   `json:"total"`
}

// GetInvoiceDrafts returns the invoice drafts for the period
func (s *InvoiceService) GetInvoiceDrafts(ctx context.Context, filter InvoiceDraftFilter) ([]InvoiceDraftResponse, error) {
	drafts, snap, err := s.buildDrafts(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceDraftResponse, len(drafts))
	for i := range drafts {
		responses[i] = projectDraft(snap, &drafts[i])
	}

	return responses, nil
}

// ExportColumns is the header row of the invoice export, in the column order
// the accounting import expects.
var ExportColumns = []string{"title", "description", "quantity", "unit", "unit_price", "discount", "vat_rate"}

// ExportInvoiceRows flattens the period's invoice drafts into spreadsheet
// rows. The first row is the header; every following row is one line item in
// the fixed column order.
func (s *InvoiceService) ExportInvoiceRows(ctx context.Context, filter InvoiceDraftFilter) ([][]string, error) {
	drafts, _, err := s.buildDrafts(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := [][]string{ExportColumns}
	for i := range drafts {
		for _, item := range drafts[i].LineItems {
			rows = append(rows, []string{
				item.Title,
				item.Description,
				item.Quantity.String(),
				item.Unit,
				item.UnitPrice.StringFixed(2),
				item.Discount.StringFixed(2),
				item.VATRate.StringFixed(2),
			})
		}
	}

	return rows, nil
}

func (s *InvoiceService) buildDrafts(ctx context.Context, filter InvoiceDraftFilter) ([]billing.InvoiceDraft, *billing.Snapshot, error) {
	if filter.Month < 0 || filter.Month > 12 {
		return nil, nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load billing snapshot: %w", err)
	}

	events, err := billing.Collect(snap, billing.ApprovedSaleStatuses())
	if err != nil {
		return nil, nil, err
	}

	filtered := events[:0]
	for _, e := range events {
		if !e.InYear(filter.Year) {
			continue
		}
		if filter.Month != 0 && int(e.Month()) != filter.Month {
			continue
		}
		filtered = append(filtered, e)
	}

	drafts, err := billing.GroupInvoices(snap, filtered)
	if err != nil {
		return nil, nil, err
	}
	if filter.Combine {
		drafts = billing.CombineByCustomer(snap, drafts)
	}

	s.logger.Debug("invoice drafts built",
		zap.Int("year", filter.Year),
		zap.Int("month", filter.Month),
		zap.Bool("combine", filter.Combine),
		zap.Int("drafts", len(drafts)))

	return drafts, snap, nil
}

func projectDraft(snap *billing.Snapshot, draft *billing.InvoiceDraft) InvoiceDraftResponse {
	resp := InvoiceDraftResponse{
		CustomerID: draft.CustomerID.String(),
		Year:       draft.Period.Year,
		Month:      int(draft.Period.Month),
		LineItems:  make([]InvoiceLineItemResponse, len(draft.LineItems)),
		Total:      toFloat64(draft.Total),
	}
	if customer := snap.Customer(draft.CustomerID); customer != nil {
		resp.CustomerName = customer.DisplayName
	}
	if draft.BranchID != nil {
		resp.BranchID = draft.BranchID.String()
		if branch := snap.Branch(*draft.BranchID); branch != nil {
			resp.BranchName = branch.DisplayName
		}
	}
	for i, item := range draft.LineItems {
		resp.LineItems[i] = InvoiceLineItemResponse{
			Title:       item.Title,
			Description: item.Description,
			Quantity:    toFloat64(item.Quantity),
			Unit:        item.Unit,
			UnitPrice:   toFloat64(item.UnitPrice),
			Discount:    toFloat64(item.Discount),
			VATRate:     toFloat64(item.VATRate),
		}
	}
	return resp
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
