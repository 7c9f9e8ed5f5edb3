package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCustomerBalance(t *testing.T) {
	customer := newTestCustomer(t, "ACME", "Acme Foods")
	other := newTestCustomer(t, "BETA", "Beta Mills")

	rules := []partner.PricingRule{
		customerRule(t, customer.ID, nil, decPtr(50)),
		customerRule(t, other.ID, nil, decPtr(70)),
	}
	visits := []fieldops.Visit{
		completedVisit(t, customer.ID, nil, march(2025, 3), "RPT-1"),
		completedVisit(t, customer.ID, nil, march(2025, 12), "RPT-2"),
		completedVisit(t, other.ID, nil, march(2025, 5), "RPT-3"),
	}
	sales := []fieldops.MaterialSale{
		approvedSale(t, customer.ID, nil, march(2025, 10), 4, 50),
	}
	receipts := []fieldops.CollectionReceipt{
		receipt(t, customer.ID, 120, march(2025, 15), "RC-001"),
		receipt(t, customer.ID, 30, march(2025, 25), "RC-002"),
		receipt(t, other.ID, 999, march(2025, 26), "RC-003"),
	}

	snap := mustSnapshot(t, []partner.Customer{customer, other}, nil, rules, visits, sales, receipts)

	events, err := Collect(snap, UnbilledSaleStatuses())
	require.NoError(t, err)

	balance, err := CalculateCustomerBalance(snap, events, customer.ID)
	require.NoError(t, err)

	t.Run("scalars", func(t *testing.T) {
		assert.True(t, dec(300).Equal(balance.TotalDebt), "2 visits at 50 plus a 200 sale")
		assert.True(t, dec(150).Equal(balance.TotalCollections))
		assert.True(t, dec(150).Equal(balance.Balance))
	})

	t.Run("balance identity", func(t *testing.T) {
		assert.True(t, balance.TotalDebt.Sub(balance.TotalCollections).Equal(balance.Balance))
	})

	t.Run("itemized sums match scalars", func(t *testing.T) {
		eventSum := decimal.Zero
		for _, e := range balance.Events {
			eventSum = eventSum.Add(e.ResolvedAmount)
		}
		assert.True(t, eventSum.Equal(balance.TotalDebt))

		receiptSum := decimal.Zero
		for _, r := range balance.Receipts {
			receiptSum = receiptSum.Add(r.Amount)
		}
		assert.True(t, receiptSum.Equal(balance.TotalCollections))
	})

	t.Run("other customers excluded", func(t *testing.T) {
		require.Len(t, balance.Events, 3)
		require.Len(t, balance.Receipts, 2)
		for _, e := range balance.Events {
			assert.Equal(t, customer.ID, e.CustomerID)
		}
	})
}

func TestCalculateCustomerBalance_NegativeBalance(t *testing.T) {
	customer := newTestCustomer(t, "ACME", "Acme Foods")
	receipts := []fieldops.CollectionReceipt{
		receipt(t, customer.ID, 500, march(2025, 15), "RC-001"),
	}
	snap := mustSnapshot(t, []partner.Customer{customer}, nil, nil, nil, nil, receipts)

	balance, err := CalculateCustomerBalance(snap, nil, customer.ID)
	require.NoError(t, err)
	assert.True(t, dec(-500).Equal(balance.Balance), "overpayment yields a negative balance")
}

func TestCalculateCustomerBalance_UnknownCustomer(t *testing.T) {
	customer := newTestCustomer(t, "ACME", "Acme Foods")
	snap := mustSnapshot(t, []partner.Customer{customer}, nil, nil, nil, nil, nil)

	_, err := CalculateCustomerBalance(snap, nil, uuid.New())
	assert.ErrorIs(t, err, shared.ErrUnknownEntity)
}
