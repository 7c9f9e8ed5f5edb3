package fieldops

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VisitRepository defines the persistence interface for visits
type VisitRepository interface {
	Save(ctx context.Context, visit *Visit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	FindCompletedInPeriod(ctx context.Context, from, to time.Time) ([]Visit, error)
}

// MaterialSaleRepository defines the persistence interface for material sales
type MaterialSaleRepository interface {
	Save(ctx context.Context, sale *MaterialSale) error
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialSale, error)
	FindByStatusInPeriod(ctx context.Context, statuses []MaterialSaleStatus, from, to time.Time) ([]MaterialSale, error)
}

// CollectionReceiptRepository defines the persistence interface for receipts
type CollectionReceiptRepository interface {
	Save(ctx context.Context, receipt *CollectionReceipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*CollectionReceipt, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]CollectionReceipt, error)
	FindAll(ctx context.Context) ([]CollectionReceipt, error)
}
