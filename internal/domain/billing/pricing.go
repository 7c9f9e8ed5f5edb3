package billing

import (
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// Pricing resolution is deliberately asymmetric between the two directions of
// the customer/branch hierarchy:
//
//   - the standing monthly fee falls back from branch to customer when viewed
//     per branch, and rolls up from branches to customer when viewed per
//     customer;
//   - the per-visit fee is suppressed at a branch that already carries its
//     own monthly contract, so the same visits are never billed under both
//     models at once.
//
// The report screens all route through these functions; none re-implements
// the rules inline.

// HasMonthlyContract reports whether the rule carries a positive standing
// monthly fee. An unset or zero monthly price is not a contract.
func HasMonthlyContract(rule *partner.PricingRule) bool {
	return rule != nil && rule.MonthlyPrice != nil && rule.MonthlyPrice.IsPositive()
}

// ResolvePerVisitRate resolves the fee charged for one completed visit at the
// given customer/branch scope. Resolution order is deterministic:
//
//  1. the branch's own per-visit price, if positive;
//  2. the customer's per-visit price, but only when the branch has no
//     standing monthly contract of its own (suppression);
//  3. zero.
//
// Missing rules resolve silently to zero: an unpriced scope is a reporting
// gap, not an error.
func ResolvePerVisitRate(customerRule, branchRule *partner.PricingRule) decimal.Decimal {
	if branchRule != nil && branchRule.PerVisitPrice != nil && branchRule.PerVisitPrice.IsPositive() {
		return *branchRule.PerVisitPrice
	}
	if HasMonthlyContract(branchRule) {
		// A branch billed a flat monthly amount never inherits the
		// customer's per-visit rate.
		return decimal.Zero
	}
	if customerRule != nil && customerRule.PerVisitPrice != nil {
		return *customerRule.PerVisitPrice
	}
	return decimal.Zero
}

// ResolveBranchMonthlyFee resolves the standing monthly fee of a branch:
// the branch's own monthly price if set, else the parent customer's
// (fallback). An explicit zero on the branch blocks the fallback.
func ResolveBranchMonthlyFee(customerRule, branchRule *partner.PricingRule) decimal.Decimal {
	if branchRule != nil && branchRule.MonthlyPrice != nil {
		return *branchRule.MonthlyPrice
	}
	if customerRule != nil && customerRule.MonthlyPrice != nil {
		return *customerRule.MonthlyPrice
	}
	return decimal.Zero
}

// ResolveCustomerMonthlyFee resolves the standing monthly fee of a customer
// viewed top-down: the customer's own monthly price plus the sum of its
// branches' own monthly prices (rollup). Branches are not asked to inherit
// here; a branch without a rule contributes nothing.
func ResolveCustomerMonthlyFee(customerRule *partner.PricingRule, branchRules []*partner.PricingRule) decimal.Decimal {
	total := decimal.Zero
	if customerRule != nil && customerRule.MonthlyPrice != nil {
		total = total.Add(*customerRule.MonthlyPrice)
	}
	for _, r := range branchRules {
		if r != nil && r.MonthlyPrice != nil {
			total = total.Add(*r.MonthlyPrice)
		}
	}
	return total
}

// IsUnpriced reports whether a scope has no pricing configured at all:
// neither its own rule nor (for branches) anything to inherit. Report
// projections surface such scopes as a distinct category instead of folding
// them silently into zero-revenue totals.
func IsUnpriced(customerRule, branchRule *partner.PricingRule) bool {
	return ruleEmpty(customerRule) && ruleEmpty(branchRule)
}

func ruleEmpty(rule *partner.PricingRule) bool {
	return rule == nil || (rule.MonthlyPrice == nil && rule.PerVisitPrice == nil)
}
