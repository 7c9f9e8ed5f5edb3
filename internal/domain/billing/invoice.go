package billing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultVATRate is applied to line items whose source product record
// carries no VAT rate of its own.
var DefaultVATRate = decimal.NewFromInt(20)

// VisitLineTitle is the title of the collapsed per-visit line item
const VisitLineTitle = "Service visits"

// InvoiceLineItem is one line of an invoice draft. The field order mirrors
// the accounting-import spreadsheet columns (title, description, quantity,
// unit, unit price, discount, VAT rate) and must not be reordered; the
// downstream import tool depends on it.
type InvoiceLineItem struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

// InvoicePeriod identifies the calendar month an invoice draft covers
type InvoicePeriod struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// InvoiceDraft is an invoice-ready grouping of billable events
type InvoiceDraft struct {
	CustomerID uuid.UUID         `json:"customer_id"`
	BranchID   *uuid.UUID        `json:"branch_id,omitempty"`
	Period     InvoicePeriod     `json:"period"`
	LineItems  []InvoiceLineItem `json:"line_items"`
	Total      decimal.Decimal   `json:"total"`
}

type invoiceKey struct {
	customerID uuid.UUID
	branchID   uuid.UUID // uuid.Nil when the event has no branch
	year       int
	month      time.Month
}

// GroupInvoices groups billable events into one draft per (customer, branch,
// calendar month). Material-sale events keep one line item per original sale
// line; the visit events of a group collapse into a single line whose
// quantity is the visit count and whose description concatenates the
// distinct report references.
func GroupInvoices(snap *Snapshot, events []BillableEvent) ([]InvoiceDraft, error) {
	groups := make(map[invoiceKey][]*BillableEvent)
	order := make([]invoiceKey, 0)

	for i := range events {
		e := &events[i]
		if snap.Customer(e.CustomerID) == nil {
			return nil, shared.ErrUnknownEntity
		}
		branchID := uuid.Nil
		if e.BranchID != nil {
			if snap.Branch(*e.BranchID) == nil {
				return nil, shared.ErrUnknownEntity
			}
			branchID = *e.BranchID
		}
		key := invoiceKey{
			customerID: e.CustomerID,
			branchID:   branchID,
			year:       e.OccurredAt.Year(),
			month:      e.Month(),
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	drafts := make([]InvoiceDraft, 0, len(order))
	for _, key := range order {
		drafts = append(drafts, buildDraft(key, groups[key]))
	}

	sort.Slice(drafts, func(i, j int) bool {
		return draftSortKey(&drafts[i]) < draftSortKey(&drafts[j])
	})

	return drafts, nil
}

// buildDraft turns one event group into an invoice draft. The per-visit rate
// is assumed uniform within a group; a varying rate is a caller data-quality
// issue and the first visit's rate wins.
func buildDraft(key invoiceKey, group []*BillableEvent) InvoiceDraft {
	draft := InvoiceDraft{
		CustomerID: key.customerID,
		Period:     InvoicePeriod{Year: key.year, Month: key.month},
		Total:      decimal.Zero,
	}
	if key.branchID != uuid.Nil {
		branchID := key.branchID
		draft.BranchID = &branchID
	}

	visitCount := 0
	visitRate := decimal.Zero
	reportRefs := make([]string, 0)
	seenRefs := make(map[string]struct{})

	for _, e := range group {
		draft.Total = draft.Total.Add(e.ResolvedAmount)

		switch e.Kind {
		case EventKindVisit:
			visitCount++
			if visitCount == 1 {
				visitRate = e.ResolvedAmount
			}
			if e.ReportRef != "" {
				if _, ok := seenRefs[e.ReportRef]; !ok {
					seenRefs[e.ReportRef] = struct{}{}
					reportRefs = append(reportRefs, e.ReportRef)
				}
			}
		case EventKindMaterialSale:
			for _, line := range e.SaleLines {
				vatRate := DefaultVATRate
				if line.VATRate != nil {
					vatRate = *line.VATRate
				}
				draft.LineItems = append(draft.LineItems, InvoiceLineItem{
					Title:     line.ProductName,
					Quantity:  line.Quantity,
					Unit:      line.Unit,
					UnitPrice: line.UnitPrice,
					Discount:  decimal.Zero,
					VATRate:   vatRate,
				})
			}
		}
	}

	if visitCount > 0 {
		visitLine := InvoiceLineItem{
			Title:       VisitLineTitle,
			Description: strings.Join(reportRefs, ", "),
			Quantity:    decimal.NewFromInt(int64(visitCount)),
			Unit:        "visit",
			UnitPrice:   visitRate,
			Discount:    decimal.Zero,
			VATRate:     DefaultVATRate,
		}
		// The visit line leads; material lines follow in event order.
		draft.LineItems = append([]InvoiceLineItem{visitLine}, draft.LineItems...)
	}

	return draft
}

// CombineByCustomer re-groups already-built per-branch drafts by (customer,
// calendar month), dropping the branch from the key. Every line item's
// description gets the branch name appended so provenance is not lost. This
// is deliberately a second pass over per-branch drafts, never a shortcut
// around branch grouping.
func CombineByCustomer(snap *Snapshot, drafts []InvoiceDraft) []InvoiceDraft {
	type combinedKey struct {
		customerID uuid.UUID
		year       int
		month      time.Month
	}

	combined := make(map[combinedKey]*InvoiceDraft)
	order := make([]combinedKey, 0)

	for i := range drafts {
		d := &drafts[i]
		key := combinedKey{customerID: d.CustomerID, year: d.Period.Year, month: d.Period.Month}
		target, ok := combined[key]
		if !ok {
			target = &InvoiceDraft{
				CustomerID: d.CustomerID,
				Period:     d.Period,
				Total:      decimal.Zero,
			}
			combined[key] = target
			order = append(order, key)
		}

		branchName := ""
		if d.BranchID != nil {
			if branch := snap.Branch(*d.BranchID); branch != nil {
				branchName = branch.DisplayName
			}
		}
		for _, line := range d.LineItems {
			if branchName != "" {
				if line.Description == "" {
					line.Description = branchName
				} else {
					line.Description = line.Description + ", " + branchName
				}
			}
			target.LineItems = append(target.LineItems, line)
		}
		target.Total = target.Total.Add(d.Total)
	}

	result := make([]InvoiceDraft, 0, len(order))
	for _, key := range order {
		result = append(result, *combined[key])
	}

	sort.Slice(result, func(i, j int) bool {
		return draftSortKey(&result[i]) < draftSortKey(&result[j])
	})

	return result
}

func draftSortKey(d *InvoiceDraft) string {
	branch := ""
	if d.BranchID != nil {
		branch = d.BranchID.String()
	}
	return fmt.Sprintf("%s|%s|%04d-%02d", d.CustomerID, branch, d.Period.Year, int(d.Period.Month))
}
