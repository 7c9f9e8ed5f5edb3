package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/shopspring/decimal"
)

// EventKind discriminates the two sources of billable events
type EventKind string

const (
	EventKindVisit        EventKind = "visit"
	EventKindMaterialSale EventKind = "material_sale"
)

// BillableEvent is the normalized shape both event sources collapse into.
// Events are immutable once produced by the collector; the standing monthly
// fee is not attached here, it is injected once per period by the aggregator.
type BillableEvent struct {
	ID             uuid.UUID
	Kind           EventKind
	CustomerID     uuid.UUID
	BranchID       *uuid.UUID
	OccurredAt     time.Time
	ResolvedAmount decimal.Decimal
	ReportRef      string
	// SaleLines carries the original product lines of a material sale so
	// invoice drafts can keep one line item per sale line. Empty for visits.
	SaleLines []fieldops.SaleLine
}

// InYear reports whether the event occurred in the given calendar year
func (e *BillableEvent) InYear(year int) bool {
	return e.OccurredAt.Year() == year
}

// Month returns the calendar month the event occurred in
func (e *BillableEvent) Month() time.Month {
	return e.OccurredAt.Month()
}
