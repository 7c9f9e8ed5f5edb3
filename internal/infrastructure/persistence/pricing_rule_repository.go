package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pestops/backend/internal/domain/partner"
	"github.com/pestops/backend/internal/domain/shared"
)

// GormPricingRuleRepository implements PricingRuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// Save creates or updates a pricing rule
func (r *GormPricingRuleRepository) Save(ctx context.Context, rule *partner.PricingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// FindByCustomer finds the pricing rule scoped to a customer
func (r *GormPricingRuleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*partner.PricingRule, error) {
	var rule partner.PricingRule
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByBranch finds the pricing rule scoped to a branch
func (r *GormPricingRuleRepository) FindByBranch(ctx context.Context, branchID uuid.UUID) (*partner.PricingRule, error) {
	var rule partner.PricingRule
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindAll finds all pricing rules
func (r *GormPricingRuleRepository) FindAll(ctx context.Context) ([]partner.PricingRule, error) {
	var rules []partner.PricingRule
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Ensure GormPricingRuleRepository implements PricingRuleRepository
var _ partner.PricingRuleRepository = (*GormPricingRuleRepository)(nil)
