package store

import (
	"encoding/json"
	"fmt"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
)

// Snapshot is the complete state of every collection at one point in time
type Snapshot struct {
	Projects  []domain.Project        `json:"projects"`
	Costs     []domain.Cost           `json:"costs"`
	Revenues  []domain.Revenue        `json:"revenues"`
	Expenses  []domain.GeneralExpense `json:"expenses"`
	Customers []domain.Customer       `json:"customers"`
	Suppliers []domain.Supplier       `json:"suppliers"`
	Budgets   []domain.Budget         `json:"budgets"`
}

// View exposes the snapshot to the finance computations
func (s Snapshot) View() finance.Collections {
	return finance.Collections{
		Projects:  s.Projects,
		Costs:     s.Costs,
		Revenues:  s.Revenues,
		Expenses:  s.Expenses,
		Customers: s.Customers,
		Suppliers: s.Suppliers,
		Budgets:   s.Budgets,
	}
}

// Len returns the number of entities in a collection
func (s Snapshot) Len(c domain.Collection) int {
	switch c {
	case domain.CollectionProjects:
		return len(s.Projects)
	case domain.CollectionCosts:
		return len(s.Costs)
	case domain.CollectionRevenues:
		return len(s.Revenues)
	case domain.CollectionExpenses:
		return len(s.Expenses)
	case domain.CollectionCustomers:
		return len(s.Customers)
	case domain.CollectionSuppliers:
		return len(s.Suppliers)
	case domain.CollectionBudgets:
		return len(s.Budgets)
	}
	return 0
}

// Clone returns a deep copy that shares no backing arrays with s
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Projects:  cloneSlice(s.Projects),
		Costs:     cloneSlice(s.Costs),
		Revenues:  cloneSlice(s.Revenues),
		Expenses:  cloneSlice(s.Expenses),
		Customers: cloneSlice(s.Customers),
		Suppliers: cloneSlice(s.Suppliers),
		Budgets:   cloneSlice(s.Budgets),
	}
	for i := range out.Budgets {
		out.Budgets[i].Items = cloneSlice(out.Budgets[i].Items)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Encode serializes every collection into its own JSON blob
func (s Snapshot) Encode() (map[domain.Collection][]byte, error) {
	parts := map[domain.Collection]interface{}{
		domain.CollectionProjects:  nonNil(s.Projects),
		domain.CollectionCosts:     nonNil(s.Costs),
		domain.CollectionRevenues:  nonNil(s.Revenues),
		domain.CollectionExpenses:  nonNil(s.Expenses),
		domain.CollectionCustomers: nonNil(s.Customers),
		domain.CollectionSuppliers: nonNil(s.Suppliers),
		domain.CollectionBudgets:   nonNil(s.Budgets),
	}

	out := make(map[domain.Collection][]byte, len(parts))
	for c, v := range parts {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", c, err)
		}
		out[c] = data
	}
	return out, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// DecodeSnapshot rebuilds a snapshot from per-collection JSON blobs. Missing
// collections decode as empty.
func DecodeSnapshot(blobs map[domain.Collection][]byte) (Snapshot, error) {
	var s Snapshot
	targets := map[domain.Collection]interface{}{
		domain.CollectionProjects:  &s.Projects,
		domain.CollectionCosts:     &s.Costs,
		domain.CollectionRevenues:  &s.Revenues,
		domain.CollectionExpenses:  &s.Expenses,
		domain.CollectionCustomers: &s.Customers,
		domain.CollectionSuppliers: &s.Suppliers,
		domain.CollectionBudgets:   &s.Budgets,
	}

	for c, target := range targets {
		data, ok := blobs[c]
		if !ok || len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, target); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode %s: %w", c, err)
		}
	}

	s.Projects = nonNil(s.Projects)
	s.Costs = nonNil(s.Costs)
	s.Revenues = nonNil(s.Revenues)
	s.Expenses = nonNil(s.Expenses)
	s.Customers = nonNil(s.Customers)
	s.Suppliers = nonNil(s.Suppliers)
	s.Budgets = nonNil(s.Budgets)
	return s, nil
}
