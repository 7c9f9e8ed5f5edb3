package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/shared"
)

// GormCollectionReceiptRepository implements CollectionReceiptRepository using GORM
type GormCollectionReceiptRepository struct {
	db *gorm.DB
}

// NewGormCollectionReceiptRepository creates a new GormCollectionReceiptRepository
func NewGormCollectionReceiptRepository(db *gorm.DB) *GormCollectionReceiptRepository {
	return &GormCollectionReceiptRepository{db: db}
}

// Save creates or updates a collection receipt
func (r *GormCollectionReceiptRepository) Save(ctx context.Context, receipt *fieldops.CollectionReceipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// FindByID finds a collection receipt by its ID
func (r *GormCollectionReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*fieldops.CollectionReceipt, error) {
	var receipt fieldops.CollectionReceipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByCustomer finds all receipts of a customer ordered by receipt date
func (r *GormCollectionReceiptRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]fieldops.CollectionReceipt, error) {
	var receipts []fieldops.CollectionReceipt
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("received_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindAll finds all collection receipts ordered by receipt date
func (r *GormCollectionReceiptRepository) FindAll(ctx context.Context) ([]fieldops.CollectionReceipt, error) {
	var receipts []fieldops.CollectionReceipt
	if err := r.db.WithContext(ctx).
		Order("received_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Ensure GormCollectionReceiptRepository implements CollectionReceiptRepository
var _ fieldops.CollectionReceiptRepository = (*GormCollectionReceiptRepository)(nil)
