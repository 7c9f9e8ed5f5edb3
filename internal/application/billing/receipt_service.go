package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"go.uber.org/zap"
)

// ReceiptService handles the administrative side of collection receipts
type ReceiptService struct {
	receipts fieldops.CollectionReceiptRepository
	logger   *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(receipts fieldops.CollectionReceiptRepository, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		receipts: receipts,
		logger:   logger,
	}
}

// CheckReceipt marks a receipt as acknowledged by an administrator. The
// transition is one-way; an already checked receipt is rejected.
func (s *ReceiptService) CheckReceipt(ctx context.Context, receiptID uuid.UUID) (*BalanceReceiptResponse, error) {
	receipt, err := s.receipts.FindByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("find receipt %s: %w", receiptID, err)
	}

	if err := receipt.MarkChecked(); err != nil {
		return nil, err
	}

	if err := s.receipts.Save(ctx, receipt); err != nil {
		return nil, fmt.Errorf("save receipt %s: %w", receiptID, err)
	}

	s.logger.Info("receipt checked",
		zap.String("receipt_id", receiptID.String()),
		zap.String("receipt_no", receipt.ReceiptNo))

	return &BalanceReceiptResponse{
		ReceiptID:      receipt.ID.String(),
		ReceiptNo:      receipt.ReceiptNo,
		ReceivedAt:     receipt.ReceivedAt,
		Amount:         toFloat64(receipt.Amount),
		CheckedByAdmin: receipt.CheckedByAdmin,
	}, nil
}
