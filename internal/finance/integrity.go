package finance

import (
	"github.com/woodfy/workshop-api/internal/domain"
)

// DanglingReference is a record pointing at an entity that no longer exists.
// Such records are tolerated by every computation and contribute nothing.
type DanglingReference struct {
	Collection domain.Collection `json:"collection"`
	ID         string            `json:"id"`
	Field      string            `json:"field"`
	Target     domain.Collection `json:"target"`
	TargetID   string            `json:"targetId"`
}

// OverdueCandidate is an open item whose date has passed. Status changes
// stay manual; candidates are only reported.
type OverdueCandidate struct {
	Kind   OriginKind           `json:"kind"`
	ID     string               `json:"id"`
	Date   string               `json:"date"`
	Value  float64              `json:"value"`
	Status domain.PaymentStatus `json:"status"`
}

// IntegrityReport summarizes dead references and overdue candidates
type IntegrityReport struct {
	Dangling []DanglingReference `json:"dangling"`
	Overdue  []OverdueCandidate  `json:"overdue"`
}

// Clean reports whether no dangling reference was found
func (r IntegrityReport) Clean() bool {
	return len(r.Dangling) == 0
}

// Collections is a read-only view of every entity collection
type Collections struct {
	Projects  []domain.Project
	Costs     []domain.Cost
	Revenues  []domain.Revenue
	Expenses  []domain.GeneralExpense
	Customers []domain.Customer
	Suppliers []domain.Supplier
	Budgets   []domain.Budget
}

// FindDanglingReferences lists every optional reference whose target is gone
func FindDanglingReferences(c Collections) []DanglingReference {
	projects := make(map[string]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		projects[p.ID] = struct{}{}
	}
	customers := make(map[string]struct{}, len(c.Customers))
	for _, cu := range c.Customers {
		customers[cu.ID] = struct{}{}
	}
	suppliers := make(map[string]struct{}, len(c.Suppliers))
	for _, s := range c.Suppliers {
		suppliers[s.ID] = struct{}{}
	}

	out := []DanglingReference{}
	check := func(set map[string]struct{}, coll domain.Collection, id, field string, target domain.Collection, targetID string) {
		if targetID == "" {
			return
		}
		if _, ok := set[targetID]; !ok {
			out = append(out, DanglingReference{Collection: coll, ID: id, Field: field, Target: target, TargetID: targetID})
		}
	}

	for _, p := range c.Projects {
		check(customers, domain.CollectionProjects, p.ID, "clientId", domain.CollectionCustomers, p.ClientID)
	}
	for _, co := range c.Costs {
		check(projects, domain.CollectionCosts, co.ID, "projectId", domain.CollectionProjects, co.ProjectID)
		check(suppliers, domain.CollectionCosts, co.ID, "supplierId", domain.CollectionSuppliers, co.SupplierID)
	}
	for _, r := range c.Revenues {
		check(projects, domain.CollectionRevenues, r.ID, "projectId", domain.CollectionProjects, r.ProjectID)
	}
	for _, e := range c.Expenses {
		check(suppliers, domain.CollectionExpenses, e.ID, "supplierId", domain.CollectionSuppliers, e.SupplierID)
	}
	for _, b := range c.Budgets {
		check(customers, domain.CollectionBudgets, b.ID, "customerId", domain.CollectionCustomers, b.CustomerID)
	}
	return out
}

// FindOverdueCandidates lists PENDING revenues and expenses dated before today
func FindOverdueCandidates(revenues []domain.Revenue, expenses []domain.GeneralExpense, today string) []OverdueCandidate {
	out := []OverdueCandidate{}
	for _, r := range revenues {
		if r.Status == domain.PaymentStatusPending && r.Date < today {
			out = append(out, OverdueCandidate{Kind: OriginRevenue, ID: r.ID, Date: r.Date, Value: r.Value, Status: r.Status})
		}
	}
	for _, e := range expenses {
		if e.Status == domain.PaymentStatusPending && e.DueDate < today {
			out = append(out, OverdueCandidate{Kind: OriginExpense, ID: e.ID, Date: e.DueDate, Value: e.Value, Status: e.Status})
		}
	}
	return out
}

// CheckIntegrity runs both checks
func CheckIntegrity(c Collections, today string) IntegrityReport {
	return IntegrityReport{
		Dangling: FindDanglingReferences(c),
		Overdue:  FindOverdueCandidates(c.Revenues, c.Expenses, today),
	}
}
