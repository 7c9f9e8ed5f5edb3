package billing

import (
	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/pestops/backend/internal/domain/shared"
)

// SaleStatusSet is the caller-supplied set of material-sale statuses that
// count as billable. Different reports use different sets: the unbilled views
// exclude invoiced and paid sales, the invoice export requires approval.
type SaleStatusSet map[fieldops.MaterialSaleStatus]struct{}

// NewSaleStatusSet builds a status set from the given statuses
func NewSaleStatusSet(statuses ...fieldops.MaterialSaleStatus) SaleStatusSet {
	set := make(SaleStatusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether the status is in the set
func (s SaleStatusSet) Contains(status fieldops.MaterialSaleStatus) bool {
	_, ok := s[status]
	return ok
}

// UnbilledSaleStatuses is the set used by unbilled-revenue and balance views:
// everything not yet marked invoiced or paid.
func UnbilledSaleStatuses() SaleStatusSet {
	return NewSaleStatusSet(fieldops.MaterialSaleStatusDraft, fieldops.MaterialSaleStatusApproved)
}

// ApprovedSaleStatuses is the set used by the invoice export: only sales that
// passed approval.
func ApprovedSaleStatuses() SaleStatusSet {
	return NewSaleStatusSet(fieldops.MaterialSaleStatusApproved)
}

// Collect normalizes the snapshot's completed visits and eligible material
// sales into billable events. Visits are priced through the resolver;
// material sales already carry their resolved total. An event referencing a
// customer or branch missing from the snapshot fails fast with a validation
// error instead of degrading silently.
func Collect(snap *Snapshot, saleStatuses SaleStatusSet) ([]BillableEvent, error) {
	events := make([]BillableEvent, 0, len(snap.Visits)+len(snap.Sales))

	for i := range snap.Visits {
		v := &snap.Visits[i]
		if v.Status != fieldops.VisitStatusCompleted {
			continue
		}
		branchRule, err := scopeRules(snap, v.CustomerID, v.BranchID)
		if err != nil {
			return nil, err
		}
		customerRule := snap.CustomerRule(v.CustomerID)

		events = append(events, BillableEvent{
			ID:             v.ID,
			Kind:           EventKindVisit,
			CustomerID:     v.CustomerID,
			BranchID:       v.BranchID,
			OccurredAt:     v.OccurredAt,
			ResolvedAmount: ResolvePerVisitRate(customerRule, branchRule),
			ReportRef:      v.ReportNumber,
		})
	}

	for i := range snap.Sales {
		s := &snap.Sales[i]
		if !saleStatuses.Contains(s.Status) {
			continue
		}
		if _, err := scopeRules(snap, s.CustomerID, s.BranchID); err != nil {
			return nil, err
		}

		events = append(events, BillableEvent{
			ID:             s.ID,
			Kind:           EventKindMaterialSale,
			CustomerID:     s.CustomerID,
			BranchID:       s.BranchID,
			OccurredAt:     s.OccurredAt,
			ResolvedAmount: s.TotalAmount,
			SaleLines:      s.Lines,
		})
	}

	return events, nil
}

// scopeRules validates the customer/branch pair of an event against the
// snapshot and returns the branch rule (nil when the event has no branch)
func scopeRules(snap *Snapshot, customerID uuid.UUID, branchID *uuid.UUID) (*partner.PricingRule, error) {
	if snap.Customer(customerID) == nil {
		return nil, shared.ErrUnknownEntity
	}
	if branchID == nil {
		return nil, nil
	}
	branch := snap.Branch(*branchID)
	if branch == nil {
		return nil, shared.ErrUnknownEntity
	}
	if branch.CustomerID != customerID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Event branch does not belong to the event customer")
	}
	return snap.BranchRule(*branchID), nil
}
