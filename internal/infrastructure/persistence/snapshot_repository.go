package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pestops/backend/internal/domain/billing"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
)

// GormSnapshotRepository loads the full billing snapshot from the database.
// Reports, invoice drafts and balances all work off one consistent read, so
// the whole snapshot is loaded inside a single transaction.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Load reads all billing-relevant aggregates and assembles a snapshot
func (r *GormSnapshotRepository) Load(ctx context.Context) (*billing.Snapshot, error) {
	var (
		customers []partner.Customer
		branches  []partner.Branch
		rules     []partner.PricingRule
		visits    []fieldops.Visit
		sales     []fieldops.MaterialSale
		receipts  []fieldops.CollectionReceipt
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("display_name ASC").Find(&customers).Error; err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		if err := tx.Order("display_name ASC").Find(&branches).Error; err != nil {
			return fmt.Errorf("load branches: %w", err)
		}
		if err := tx.Find(&rules).Error; err != nil {
			return fmt.Errorf("load pricing rules: %w", err)
		}
		if err := tx.Where("status = ?", fieldops.VisitStatusCompleted).
			Order("occurred_at ASC").
			Find(&visits).Error; err != nil {
			return fmt.Errorf("load visits: %w", err)
		}
		if err := tx.Preload("Lines").
			Order("occurred_at ASC").
			Find(&sales).Error; err != nil {
			return fmt.Errorf("load material sales: %w", err)
		}
		if err := tx.Order("received_at ASC").Find(&receipts).Error; err != nil {
			return fmt.Errorf("load collection receipts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return billing.NewSnapshot(customers, branches, rules, visits, sales, receipts)
}

// Ensure GormSnapshotRepository implements SnapshotRepository
var _ billing.SnapshotRepository = (*GormSnapshotRepository)(nil)
