package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PricingRule holds the billing configuration for a single scope: either one
// customer or one branch, never both. A nil price means "not set", which is
// distinct from an explicit zero; the billing engine relies on that
// distinction when deciding fallback and suppression.
//
// Rules are mutated by administrators at any time and are read at resolution
// time, so re-running a report for a past period reflects the current rule
// set. That is deliberate, but it means past reports are not reproducible
// after a price change.
type PricingRule struct {
	shared.BaseAggregateRoot
	CustomerID    *uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	BranchID      *uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	MonthlyPrice  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PerVisitPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (PricingRule) TableName() string {
	return "pricing_rules"
}

// NewCustomerPricingRule creates a pricing rule scoped to a customer
func NewCustomerPricingRule(customerID uuid.UUID) (*PricingRule, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Pricing rule customer cannot be empty")
	}
	return &PricingRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        &customerID,
	}, nil
}

// NewBranchPricingRule creates a pricing rule scoped to a branch
func NewBranchPricingRule(branchID uuid.UUID) (*PricingRule, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Pricing rule branch cannot be empty")
	}
	return &PricingRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          &branchID,
	}, nil
}

// SetMonthlyPrice sets the standing monthly fee for this scope
func (p *PricingRule) SetMonthlyPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}

	p.MonthlyPrice = &price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPerVisitPrice sets the per-visit fee for this scope
func (p *PricingRule) SetPerVisitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Per-visit price cannot be negative")
	}

	p.PerVisitPrice = &price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ClearMonthlyPrice removes the standing monthly fee (back to "not set")
func (p *PricingRule) ClearMonthlyPrice() {
	p.MonthlyPrice = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ClearPerVisitPrice removes the per-visit fee (back to "not set")
func (p *PricingRule) ClearPerVisitPrice() {
	p.PerVisitPrice = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsCustomerScoped returns true if the rule is attached to a customer
func (p *PricingRule) IsCustomerScoped() bool {
	return p.CustomerID != nil
}

// IsBranchScoped returns true if the rule is attached to a branch
func (p *PricingRule) IsBranchScoped() bool {
	return p.BranchID != nil
}
