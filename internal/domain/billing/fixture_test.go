package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newTestCustomer(t *testing.T, code, name string) partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(code, name)
	require.NoError(t, err)
	return *c
}

func newTestBranch(t *testing.T, customerID uuid.UUID, code, name string) partner.Branch {
	t.Helper()
	b, err := partner.NewBranch(customerID, code, name)
	require.NoError(t, err)
	return *b
}

// customerRule builds a pricing rule scoped to a customer; nil prices stay unset
func customerRule(t *testing.T, customerID uuid.UUID, monthly, perVisit *decimal.Decimal) partner.PricingRule {
	t.Helper()
	r, err := partner.NewCustomerPricingRule(customerID)
	require.NoError(t, err)
	r.MonthlyPrice = monthly
	r.PerVisitPrice = perVisit
	return *r
}

// branchRule builds a pricing rule scoped to a branch; nil prices stay unset
func branchRule(t *testing.T, branchID uuid.UUID, monthly, perVisit *decimal.Decimal) partner.PricingRule {
	t.Helper()
	r, err := partner.NewBranchPricingRule(branchID)
	require.NoError(t, err)
	r.MonthlyPrice = monthly
	r.PerVisitPrice = perVisit
	return *r
}

func completedVisit(t *testing.T, customerID uuid.UUID, branchID *uuid.UUID, occurredAt time.Time, reportNumber string) fieldops.Visit {
	t.Helper()
	v, err := fieldops.NewVisit(customerID, branchID, occurredAt)
	require.NoError(t, err)
	require.NoError(t, v.Complete(reportNumber))
	return *v
}

func scheduledVisit(t *testing.T, customerID uuid.UUID, branchID *uuid.UUID, occurredAt time.Time) fieldops.Visit {
	t.Helper()
	v, err := fieldops.NewVisit(customerID, branchID, occurredAt)
	require.NoError(t, err)
	return *v
}

// approvedSale builds an approved single-line material sale with the given total
func approvedSale(t *testing.T, customerID uuid.UUID, branchID *uuid.UUID, occurredAt time.Time, quantity, unitPrice int64) fieldops.MaterialSale {
	t.Helper()
	s, err := fieldops.NewMaterialSale(customerID, branchID, occurredAt)
	require.NoError(t, err)
	require.NoError(t, s.AddLine("Rodent bait station", dec(quantity), "pcs", dec(unitPrice), nil))
	require.NoError(t, s.Approve())
	return *s
}

func receipt(t *testing.T, customerID uuid.UUID, amount int64, receivedAt time.Time, receiptNo string) fieldops.CollectionReceipt {
	t.Helper()
	r, err := fieldops.NewCollectionReceipt(customerID, nil, dec(amount), receivedAt, receiptNo)
	require.NoError(t, err)
	return *r
}

func mustSnapshot(
	t *testing.T,
	customers []partner.Customer,
	branches []partner.Branch,
	rules []partner.PricingRule,
	visits []fieldops.Visit,
	sales []fieldops.MaterialSale,
	receipts []fieldops.CollectionReceipt,
) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(customers, branches, rules, visits, sales, receipts)
	require.NoError(t, err)
	return snap
}

func march(year, day int) time.Time {
	return time.Date(year, time.March, day, 10, 0, 0, 0, time.UTC)
}
