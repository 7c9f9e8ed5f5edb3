package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pestops/backend/internal/domain/partner"
	"github.com/pestops/backend/internal/domain/shared"
)

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *partner.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Branch, error) {
	var branch partner.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// FindByCustomer finds all branches of a customer ordered by display name
func (r *GormBranchRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.Branch, error) {
	var branches []partner.Branch
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("display_name ASC").
		Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// FindAll finds all branches ordered by display name
func (r *GormBranchRepository) FindAll(ctx context.Context) ([]partner.Branch, error) {
	var branches []partner.Branch
	if err := r.db.WithContext(ctx).
		Order("display_name ASC").
		Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Ensure GormBranchRepository implements BranchRepository
var _ partner.BranchRepository = (*GormBranchRepository)(nil)
