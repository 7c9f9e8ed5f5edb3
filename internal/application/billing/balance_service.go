package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// BalanceService computes customer balances: everything billable to date
// netted against the recorded collections.
type BalanceService struct {
	snapshots billing.SnapshotRepository
	logger    *zap.Logger
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(snapshots billing.SnapshotRepository, logger *zap.Logger) *BalanceService {
	return &BalanceService{
		snapshots: snapshots,
		logger:    logger,
	}
}

// BalanceEventResponse is one billable event contributing to the debt
type BalanceEventResponse struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Amount     float64   `json:"amount"`
	ReportRef  string    `json:"report_ref,omitempty"`
}

// BalanceReceiptResponse is one collection receipt netted against the debt
type BalanceReceiptResponse struct {
	ReceiptID      string    `json:"receipt_id"`
	ReceiptNo      string    `json:"receipt_no"`
	ReceivedAt     time.Time `json:"received_at"`
	Amount         float64   `json:"amount"`
	CheckedByAdmin bool      `json:"checked_by_admin"`
}

// CustomerBalanceResponse represents a customer's running balance
type CustomerBalanceResponse struct {
	CustomerID       string                   `json:"customer_id"`
	CustomerName     string                   `json:"customer_name"`
	TotalDebt        float64                  `json:"total_debt"`
	TotalCollections float64                  `json:"total_collections"`
	Balance          float64                  `json:"balance"`
	Events           []BalanceEventResponse   `json:"events"`
	Receipts         []BalanceReceiptResponse `json:"receipts"`
}

// GetCustomerBalance returns the customer's balance with the contributing
// events and receipts itemized.
func (s *BalanceService) GetCustomerBalance(ctx context.Context, customerID uuid.UUID) (*CustomerBalanceResponse, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load billing snapshot: %w", err)
	}

	events, err := billing.Collect(snap, billing.UnbilledSaleStatuses())
	if err != nil {
		return nil, err
	}

	balance, err := billing.CalculateCustomerBalance(snap, events, customerID)
	if err != nil {
		return nil, err
	}

	resp := &CustomerBalanceResponse{
		CustomerID:       balance.CustomerID.String(),
		TotalDebt:        toFloat64(balance.TotalDebt),
		TotalCollections: toFloat64(balance.TotalCollections),
		Balance:          toFloat64(balance.Balance),
		Events:           make([]BalanceEventResponse, len(balance.Events)),
		Receipts:         make([]BalanceReceiptResponse, len(balance.Receipts)),
	}
	if customer := snap.Customer(balance.CustomerID); customer != nil {
		resp.CustomerName = customer.DisplayName
	}
	for i, e := range balance.Events {
		resp.Events[i] = BalanceEventResponse{
			EventID:    e.ID.String(),
			Kind:       string(e.Kind),
			OccurredAt: e.OccurredAt,
			Amount:     toFloat64(e.ResolvedAmount),
			ReportRef:  e.ReportRef,
		}
	}
	for i, r := range balance.Receipts {
		resp.Receipts[i] = BalanceReceiptResponse{
			ReceiptID:      r.ID.String(),
			ReceiptNo:      r.ReceiptNo,
			ReceivedAt:     r.ReceivedAt,
			Amount:         toFloat64(r.Amount),
			CheckedByAdmin: r.CheckedByAdmin,
		}
	}

	s.logger.Debug("customer balance computed",
		zap.String("customer_id", resp.CustomerID),
		zap.Int("events", len(resp.Events)),
		zap.Int("receipts", len(resp.Receipts)))

	return resp, nil
}
