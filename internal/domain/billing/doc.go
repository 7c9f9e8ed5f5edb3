// Package billing is the revenue aggregation engine. It is pure computation
// over an immutable Snapshot of customers, branches, pricing rules, visits,
// material sales and collection receipts.
//
// Pipeline:
//   - Collect normalizes completed visits and eligible material sales into
//     BillableEvents, pricing visits through the resolver.
//   - Aggregate folds events into a 12-month RevenueMatrix per customer or
//     per branch.
//   - GroupInvoices and CombineByCustomer turn events into invoice drafts.
//   - CalculateCustomerBalance nets billable amounts against collections.
//
// Pricing resolution is asymmetric on purpose: branch monthly fees fall back
// to the customer's fee; the customer's own monthly fee is a rollup of the
// branch fees, never an inheritance. A branch with a standing monthly
// contract suppresses the customer's per-visit rate.
//
// The engine holds no state and takes no locks. Rules are read at resolution
// time, so re-running a report after a price change reflects the new rules.
package billing
