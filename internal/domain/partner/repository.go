package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
}

// BranchRepository defines the persistence interface for branches
type BranchRepository interface {
	Save(ctx context.Context, branch *Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Branch, error)
	FindAll(ctx context.Context) ([]Branch, error)
}

// PricingRuleRepository defines the persistence interface for pricing rules
type PricingRuleRepository interface {
	Save(ctx context.Context, rule *PricingRule) error
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*PricingRule, error)
	FindByBranch(ctx context.Context, branchID uuid.UUID) (*PricingRule, error)
	FindAll(ctx context.Context) ([]PricingRule, error)
}
