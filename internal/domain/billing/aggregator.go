package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregationMode selects the entity axis of the revenue matrix
type AggregationMode string

const (
	ModeCustomer AggregationMode = "customer"
	ModeBranch   AggregationMode = "branch"
)

// AggregationCell is one (entity, month) bucket of the revenue matrix.
// Invariant: Total equals MaterialSales + MonthlyFee + PerVisitFee.
type AggregationCell struct {
	EntityID      uuid.UUID       `json:"entity_id"`
	Month         time.Month      `json:"month"`
	MaterialSales decimal.Decimal `json:"material_sales"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	PerVisitFee   decimal.Decimal `json:"per_visit_fee"`
	VisitCount    int             `json:"visit_count"`
	Total         decimal.Decimal `json:"total"`
}

// EntityYear holds the twelve cells of one entity for the report year
type EntityYear struct {
	EntityID    uuid.UUID           `json:"entity_id"`
	DisplayName string              `json:"display_name"`
	Unpriced    bool                `json:"unpriced"`
	Months      [12]AggregationCell `json:"months"`
}

// Cell returns the cell for the given calendar month
func (e *EntityYear) Cell(month time.Month) AggregationCell {
	return e.Months[int(month)-1]
}

// YearTotal sums the entity's twelve monthly totals
func (e *EntityYear) YearTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Months {
		total = total.Add(e.Months[i].Total)
	}
	return total
}

// RevenueMatrix is the aggregation result: one EntityYear per entity of the
// selected mode, ordered by entity id so repeated runs over an unchanged
// snapshot yield identical output.
type RevenueMatrix struct {
	Mode     AggregationMode `json:"mode"`
	Year     int             `json:"year"`
	Entities []EntityYear    `json:"entities"`
}

// Entity returns the EntityYear for the given id, or nil
func (m *RevenueMatrix) Entity(id uuid.UUID) *EntityYear {
	for i := range m.Entities {
		if m.Entities[i].EntityID == id {
			return &m.Entities[i]
		}
	}
	return nil
}

// MonthTotals sums every entity's cells per calendar month
func (m *RevenueMatrix) MonthTotals() [12]decimal.Decimal {
	var totals [12]decimal.Decimal
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for i := range m.Entities {
		for j := range m.Entities[i].Months {
			totals[j] = totals[j].Add(m.Entities[i].Months[j].Total)
		}
	}
	return totals
}

// GrandTotal sums all cells of the matrix
func (m *RevenueMatrix) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, t := range m.MonthTotals() {
		total = total.Add(t)
	}
	return total
}

// Aggregate buckets the collected events into (entity, month) cells for the
// given year. Every entity of the selected mode appears with twelve cells,
// whether or not it had events.
//
// The standing monthly fee is identical across an entity's twelve cells and
// is resolved with mode-dependent semantics: fallback to the parent customer
// in branch mode, rollup of the branches' own fees in customer mode. The
// asymmetry is intentional; collapsing it to one rule silently changes
// totals.
func Aggregate(snap *Snapshot, events []BillableEvent, mode AggregationMode, year int) (*RevenueMatrix, error) {
	if mode != ModeCustomer && mode != ModeBranch {
		return nil, shared.NewDomainError("INVALID_MODE", "Aggregation mode must be 'customer' or 'branch'")
	}
	if year <= 0 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Aggregation year must be positive")
	}

	matrix := &RevenueMatrix{Mode: mode, Year: year}
	index := make(map[uuid.UUID]int)

	switch mode {
	case ModeBranch:
		for i := range snap.Branches {
			b := &snap.Branches[i]
			customerRule := snap.CustomerRule(b.CustomerID)
			branchRule := snap.BranchRule(b.ID)
			entity := newEntityYear(b.ID, b.DisplayName, ResolveBranchMonthlyFee(customerRule, branchRule))
			entity.Unpriced = IsUnpriced(customerRule, branchRule)
			index[b.ID] = len(matrix.Entities)
			matrix.Entities = append(matrix.Entities, entity)
		}
	case ModeCustomer:
		for i := range snap.Customers {
			c := &snap.Customers[i]
			customerRule := snap.CustomerRule(c.ID)
			fee := ResolveCustomerMonthlyFee(customerRule, snap.BranchRulesOf(c.ID))
			entity := newEntityYear(c.ID, c.DisplayName, fee)
			entity.Unpriced = customerUnpriced(snap, c.ID)
			index[c.ID] = len(matrix.Entities)
			matrix.Entities = append(matrix.Entities, entity)
		}
	}

	for i := range events {
		e := &events[i]
		if !e.InYear(year) {
			continue
		}

		var entityID uuid.UUID
		switch mode {
		case ModeBranch:
			if e.BranchID == nil {
				// Customer-scope events have no branch row; they only
				// surface in customer mode.
				continue
			}
			entityID = *e.BranchID
		case ModeCustomer:
			entityID = e.CustomerID
		}

		pos, ok := index[entityID]
		if !ok {
			return nil, shared.ErrUnknownEntity
		}
		cell := &matrix.Entities[pos].Months[int(e.Month())-1]
		switch e.Kind {
		case EventKindMaterialSale:
			cell.MaterialSales = cell.MaterialSales.Add(e.ResolvedAmount)
		case EventKindVisit:
			cell.PerVisitFee = cell.PerVisitFee.Add(e.ResolvedAmount)
			cell.VisitCount++
		default:
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown billable event kind")
		}
		cell.Total = cell.MaterialSales.Add(cell.MonthlyFee).Add(cell.PerVisitFee)
	}

	sort.Slice(matrix.Entities, func(i, j int) bool {
		return matrix.Entities[i].EntityID.String() < matrix.Entities[j].EntityID.String()
	})

	return matrix, nil
}

// newEntityYear initializes the twelve cells of an entity with its standing
// monthly fee applied exactly once per month, independent of event activity
func newEntityYear(entityID uuid.UUID, displayName string, monthlyFee decimal.Decimal) EntityYear {
	entity := EntityYear{EntityID: entityID, DisplayName: displayName}
	for i := range entity.Months {
		entity.Months[i] = AggregationCell{
			EntityID:      entityID,
			Month:         time.Month(i + 1),
			MaterialSales: decimal.Zero,
			MonthlyFee:    monthlyFee,
			PerVisitFee:   decimal.Zero,
			Total:         monthlyFee,
		}
	}
	return entity
}

// customerUnpriced reports whether neither the customer nor any of its
// branches has pricing configured
func customerUnpriced(snap *Snapshot, customerID uuid.UUID) bool {
	if !ruleEmpty(snap.CustomerRule(customerID)) {
		return false
	}
	for _, b := range snap.BranchesOf(customerID) {
		if !ruleEmpty(snap.BranchRule(b.ID)) {
			return false
		}
	}
	return true
}
