package report

import (
	"context"
	"fmt"

	"github.com/pestops/backend/internal/domain/billing"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService computes the dashboard revenue reports. It loads a billing
// snapshot, runs the aggregation engine and projects the matrix into the
// row/column views the dashboard renders.
type ReportService struct {
	snapshots billing.SnapshotRepository
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(snapshots billing.SnapshotRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		snapshots: snapshots,
		logger:    logger,
	}
}

// YearlyRevenueFilter defines the request filter for the yearly revenue report
type YearlyRevenueFilter struct {
	Year         int      `form:"year" binding:"required"`
	Mode         string   `form:"mode"`
	SaleStatuses []string `form:"sale_statuses"`
}

// RevenueCellResponse is one month of one report row
type RevenueCellResponse struct {
	Month         int     `json:"month"`
	MaterialSales float64 `json:"material_sales"`
	MonthlyFee    float64 `json:"monthly_fee"`
	PerVisitFee   float64 `json:"per_visit_fee"`
	VisitCount    int     `json:"visit_count"`
	Total         float64 `json:"total"`
}

// RevenueRowResponse is one entity row of the yearly revenue report
type RevenueRowResponse struct {
	EntityID    string                  `json:"entity_id"`
	DisplayName string                  `json:"display_name"`
	Months      [12]RevenueCellResponse `json:"months"`
	YearTotal   float64                 `json:"year_total"`
}

// UnpricedEntityResponse identifies an entity with no pricing rule anywhere
// in its scope chain. Such entities still appear as zero rows; the separate
// list is what lets the dashboard flag them instead of hiding the gap.
type UnpricedEntityResponse struct {
	EntityID    string `json:"entity_id"`
	DisplayName string `json:"display_name"`
}

// YearlyRevenueResponse is the full yearly revenue report
type YearlyRevenueResponse struct {
	Year             int                      `json:"year"`
	Mode             string                   `json:"mode"`
	Rows             []RevenueRowResponse     `json:"rows"`
	MonthTotals      [12]float64              `json:"month_totals"`
	GrandTotal       float64                  `json:"grand_total"`
	UnpricedEntities []UnpricedEntityResponse `json:"unpriced_entities"`
}

// GetYearlyRevenue returns the revenue report for the given year, one row per
// customer or per branch depending on the mode.
func (s *ReportService) GetYearlyRevenue(ctx context.Context, filter YearlyRevenueFilter) (*YearlyRevenueResponse, error) {
	mode, err := parseMode(filter.Mode)
	if err != nil {
		return nil, err
	}
	statuses, err := parseSaleStatuses(filter.SaleStatuses)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load billing snapshot: %w", err)
	}

	events, err := billing.Collect(snap, statuses)
	if err != nil {
		return nil, err
	}

	matrix, err := billing.Aggregate(snap, events, mode, filter.Year)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("yearly revenue computed",
		zap.Int("year", filter.Year),
		zap.String("mode", string(mode)),
		zap.Int("entities", len(matrix.Entities)),
		zap.Int("events", len(events)))

	return projectMatrix(matrix), nil
}

func projectMatrix(matrix *billing.RevenueMatrix) *YearlyRevenueResponse {
	resp := &YearlyRevenueResponse{
		Year:             matrix.Year,
		Mode:             string(matrix.Mode),
		Rows:             make([]RevenueRowResponse, len(matrix.Entities)),
		UnpricedEntities: []UnpricedEntityResponse{},
	}

	for i := range matrix.Entities {
		entity := &matrix.Entities[i]
		row := RevenueRowResponse{
			EntityID:    entity.EntityID.String(),
			DisplayName: entity.DisplayName,
			YearTotal:   toFloat64(entity.YearTotal()),
		}
		for j := range entity.Months {
			cell := &entity.Months[j]
			row.Months[j] = RevenueCellResponse{
				Month:         int(cell.Month),
				MaterialSales: toFloat64(cell.MaterialSales),
				MonthlyFee:    toFloat64(cell.MonthlyFee),
				PerVisitFee:   toFloat64(cell.PerVisitFee),
				VisitCount:    cell.VisitCount,
				Total:         toFloat64(cell.Total),
			}
		}
		resp.Rows[i] = row

		if entity.Unpriced {
			resp.UnpricedEntities = append(resp.UnpricedEntities, UnpricedEntityResponse{
				EntityID:    entity.EntityID.String(),
				DisplayName: entity.DisplayName,
			})
		}
	}

	for i, t := range matrix.MonthTotals() {
		resp.MonthTotals[i] = toFloat64(t)
	}
	resp.GrandTotal = toFloat64(matrix.GrandTotal())

	return resp
}

func parseMode(mode string) (billing.AggregationMode, error) {
	switch mode {
	case "", "customer":
		return billing.ModeCustomer, nil
	case "branch":
		return billing.ModeBranch, nil
	default:
		return "", shared.NewDomainError("INVALID_MODE", "Mode must be customer or branch")
	}
}

func parseSaleStatuses(statuses []string) (billing.SaleStatusSet, error) {
	if len(statuses) == 0 {
		return billing.UnbilledSaleStatuses(), nil
	}

	parsed := make([]fieldops.MaterialSaleStatus, 0, len(statuses))
	for _, raw := range statuses {
		status := fieldops.MaterialSaleStatus(raw)
		switch status {
		case fieldops.MaterialSaleStatusDraft,
			fieldops.MaterialSaleStatusApproved,
			fieldops.MaterialSaleStatusInvoiced,
			fieldops.MaterialSaleStatusPaid:
			parsed = append(parsed, status)
		default:
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown material sale status: "+raw)
		}
	}
	return billing.NewSaleStatusSet(parsed...), nil
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
