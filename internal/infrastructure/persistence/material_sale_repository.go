package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/shared"
)

// GormMaterialSaleRepository implements MaterialSaleRepository using GORM
type GormMaterialSaleRepository struct {
	db *gorm.DB
}

// NewGormMaterialSaleRepository creates a new GormMaterialSaleRepository
func NewGormMaterialSaleRepository(db *gorm.DB) *GormMaterialSaleRepository {
	return &GormMaterialSaleRepository{db: db}
}

// Save creates or updates a material sale together with its lines
func (r *GormMaterialSaleRepository) Save(ctx context.Context, sale *fieldops.MaterialSale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sale).Error; err != nil {
			return err
		}
		// Lines are replaced wholesale so removed lines do not linger.
		if err := tx.Where("material_sale_id = ?", sale.ID).Delete(&fieldops.SaleLine{}).Error; err != nil {
			return err
		}
		if len(sale.Lines) == 0 {
			return nil
		}
		return tx.Create(&sale.Lines).Error
	})
}

// FindByID finds a material sale by its ID, including lines
func (r *GormMaterialSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*fieldops.MaterialSale, error) {
	var sale fieldops.MaterialSale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByStatusInPeriod finds material sales in one of the given statuses
// whose occurrence date falls within [from, to), including lines.
func (r *GormMaterialSaleRepository) FindByStatusInPeriod(ctx context.Context, statuses []fieldops.MaterialSaleStatus, from, to time.Time) ([]fieldops.MaterialSale, error) {
	if len(statuses) == 0 {
		return []fieldops.MaterialSale{}, nil
	}

	var sales []fieldops.MaterialSale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status IN ? AND occurred_at >= ? AND occurred_at < ?", statuses, from, to).
		Order("occurred_at ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Ensure GormMaterialSaleRepository implements MaterialSaleRepository
var _ fieldops.MaterialSaleRepository = (*GormMaterialSaleRepository)(nil)
