package billing

import (
	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerBalance nets a customer's unbilled billable amounts against
// recorded collections. The contributing lists are retained for audit
// drill-down; the scalars always equal the sums of the itemized lists.
type CustomerBalance struct {
	CustomerID       uuid.UUID                    `json:"customer_id"`
	TotalDebt        decimal.Decimal              `json:"total_debt"`
	TotalCollections decimal.Decimal              `json:"total_collections"`
	Balance          decimal.Decimal              `json:"balance"`
	Events           []BillableEvent              `json:"events"`
	Receipts         []fieldops.CollectionReceipt `json:"receipts"`
}

// CalculateCustomerBalance computes the outstanding balance of one customer
// from events already filtered with the same status predicate the collector
// uses, and the snapshot's collection receipts.
func CalculateCustomerBalance(snap *Snapshot, events []BillableEvent, customerID uuid.UUID) (*CustomerBalance, error) {
	if snap.Customer(customerID) == nil {
		return nil, shared.ErrUnknownEntity
	}

	balance := &CustomerBalance{
		CustomerID:       customerID,
		TotalDebt:        decimal.Zero,
		TotalCollections: decimal.Zero,
		Events:           make([]BillableEvent, 0),
		Receipts:         make([]fieldops.CollectionReceipt, 0),
	}

	for i := range events {
		e := &events[i]
		if e.CustomerID != customerID {
			continue
		}
		balance.Events = append(balance.Events, *e)
		balance.TotalDebt = balance.TotalDebt.Add(e.ResolvedAmount)
	}

	for i := range snap.Receipts {
		r := &snap.Receipts[i]
		if r.CustomerID != customerID {
			continue
		}
		balance.Receipts = append(balance.Receipts, *r)
		balance.TotalCollections = balance.TotalCollections.Add(r.Amount)
	}

	balance.Balance = balance.TotalDebt.Sub(balance.TotalCollections)

	return balance, nil
}
