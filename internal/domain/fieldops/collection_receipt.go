package fieldops

import (
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CollectionReceipt records money collected from a customer. Receipts are
// netted against the customer's billable amounts by the balance calculator.
type CollectionReceipt struct {
	shared.BaseAggregateRoot
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID       *uuid.UUID      `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedAt     time.Time       `gorm:"not null;index"`
	ReceiptNo      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CheckedByAdmin bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CollectionReceipt) TableName() string {
	return "collection_receipts"
}

// NewCollectionReceipt records a collection from a customer
func NewCollectionReceipt(customerID uuid.UUID, branchID *uuid.UUID, amount decimal.Decimal, receivedAt time.Time, receiptNo string) (*CollectionReceipt, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Receipt must belong to a customer")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Receipt amount must be positive")
	}
	if receivedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Receipt date cannot be empty")
	}
	if receiptNo == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NO", "Receipt number cannot be empty")
	}

	return &CollectionReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		BranchID:          branchID,
		Amount:            amount,
		ReceivedAt:        receivedAt,
		ReceiptNo:         receiptNo,
	}, nil
}

// MarkChecked records the administrative acknowledgement of the receipt.
// The transition is one-way: there is no path back to unchecked.
func (r *CollectionReceipt) MarkChecked() error {
	if r.CheckedByAdmin {
		return shared.NewDomainError("ALREADY_CHECKED", "Receipt is already checked")
	}

	r.CheckedByAdmin = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
