package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/pestops/backend/internal/domain/shared"
)

// Snapshot is the immutable data set the engine computes over: customers,
// branches, pricing rules, visits, material sales and collection receipts,
// all fetched up front by a collaborator. The engine performs no I/O of its
// own; pricing rules are resolved as they stand in the snapshot, so a report
// re-run after a rule change reflects the new rules.
type Snapshot struct {
	Customers []partner.Customer
	Branches  []partner.Branch
	Rules     []partner.PricingRule
	Visits    []fieldops.Visit
	Sales     []fieldops.MaterialSale
	Receipts  []fieldops.CollectionReceipt

	customersByID map[uuid.UUID]*partner.Customer
	branchesByID  map[uuid.UUID]*partner.Branch
	customerRules map[uuid.UUID]*partner.PricingRule
	branchRules   map[uuid.UUID]*partner.PricingRule
	branchesOf    map[uuid.UUID][]*partner.Branch
}

// NewSnapshot indexes the given data set and validates its referential
// integrity. A rule or branch referencing an unknown owner is a caller
// programming error and is rejected here rather than absorbed.
func NewSnapshot(
	customers []partner.Customer,
	branches []partner.Branch,
	rules []partner.PricingRule,
	visits []fieldops.Visit,
	sales []fieldops.MaterialSale,
	receipts []fieldops.CollectionReceipt,
) (*Snapshot, error) {
	s := &Snapshot{
		Customers:     customers,
		Branches:      branches,
		Rules:         rules,
		Visits:        visits,
		Sales:         sales,
		Receipts:      receipts,
		customersByID: make(map[uuid.UUID]*partner.Customer, len(customers)),
		branchesByID:  make(map[uuid.UUID]*partner.Branch, len(branches)),
		customerRules: make(map[uuid.UUID]*partner.PricingRule),
		branchRules:   make(map[uuid.UUID]*partner.PricingRule),
		branchesOf:    make(map[uuid.UUID][]*partner.Branch),
	}

	for i := range s.Customers {
		c := &s.Customers[i]
		s.customersByID[c.ID] = c
	}
	for i := range s.Branches {
		b := &s.Branches[i]
		if _, ok := s.customersByID[b.CustomerID]; !ok {
			return nil, shared.NewDomainError("UNKNOWN_ENTITY", "Branch "+b.Code+" references an unknown customer")
		}
		s.branchesByID[b.ID] = b
		s.branchesOf[b.CustomerID] = append(s.branchesOf[b.CustomerID], b)
	}
	for i := range s.Rules {
		r := &s.Rules[i]
		switch {
		case r.CustomerID != nil && r.BranchID != nil:
			return nil, shared.NewDomainError("INVALID_SCOPE", "Pricing rule cannot be attached to both a customer and a branch")
		case r.CustomerID != nil:
			if _, ok := s.customersByID[*r.CustomerID]; !ok {
				return nil, shared.NewDomainError("UNKNOWN_ENTITY", "Pricing rule references an unknown customer")
			}
			s.customerRules[*r.CustomerID] = r
		case r.BranchID != nil:
			if _, ok := s.branchesByID[*r.BranchID]; !ok {
				return nil, shared.NewDomainError("UNKNOWN_ENTITY", "Pricing rule references an unknown branch")
			}
			s.branchRules[*r.BranchID] = r
		default:
			return nil, shared.NewDomainError("INVALID_SCOPE", "Pricing rule must be attached to a customer or a branch")
		}
	}

	return s, nil
}

// Customer returns the customer with the given id, or nil
func (s *Snapshot) Customer(id uuid.UUID) *partner.Customer {
	return s.customersByID[id]
}

// Branch returns the branch with the given id, or nil
func (s *Snapshot) Branch(id uuid.UUID) *partner.Branch {
	return s.branchesByID[id]
}

// CustomerRule returns the pricing rule attached to the customer, or nil
func (s *Snapshot) CustomerRule(customerID uuid.UUID) *partner.PricingRule {
	return s.customerRules[customerID]
}

// BranchRule returns the pricing rule attached to the branch, or nil
func (s *Snapshot) BranchRule(branchID uuid.UUID) *partner.PricingRule {
	return s.branchRules[branchID]
}

// BranchesOf returns the customer's branches in snapshot order
func (s *Snapshot) BranchesOf(customerID uuid.UUID) []*partner.Branch {
	return s.branchesOf[customerID]
}

// BranchRulesOf returns the pricing rules attached to the customer's
// branches, excluding branches without a rule of their own
func (s *Snapshot) BranchRulesOf(customerID uuid.UUID) []*partner.PricingRule {
	branches := s.branchesOf[customerID]
	rules := make([]*partner.PricingRule, 0, len(branches))
	for _, b := range branches {
		if r := s.branchRules[b.ID]; r != nil {
			rules = append(rules, r)
		}
	}
	return rules
}

// SnapshotRepository loads a complete billing snapshot from persistence
type SnapshotRepository interface {
	Load(ctx context.Context) (*Snapshot, error)
}
