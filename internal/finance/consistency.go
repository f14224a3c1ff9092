package finance

import (
	"github.com/shopspring/decimal"
	"github.com/woodfy/workshop-api/internal/domain"
)

// SameSlice reports whether a and b share their backing array and length.
// Recompute functions return their input slice untouched when nothing
// changed, which callers detect with SameSlice.
func SameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// RecomputeProjectCosts sets every project's RealCost to the sum of the costs
// that reference it. Costs pointing at unknown projects contribute nothing.
// When no project changes, the input slice itself is returned.
func RecomputeProjectCosts(projects []domain.Project, costs []domain.Cost) []domain.Project {
	totals := make(map[string]decimal.Decimal, len(projects))
	for _, c := range costs {
		if c.ProjectID == "" {
			continue
		}
		totals[c.ProjectID] = totals[c.ProjectID].Add(amount(c.Value))
	}

	var out []domain.Project
	for i, p := range projects {
		realCost := float(totals[p.ID])
		if realCost == p.RealCost {
			continue
		}
		if out == nil {
			out = make([]domain.Project, len(projects))
			copy(out, projects)
		}
		out[i].RealCost = realCost
	}

	if out == nil {
		return projects
	}
	return out
}

// RecomputeCustomerStats derives TotalSpent and LastOrder for every customer.
//
// TotalSpent is the sum of ValueSold over the customer's PAID projects.
// LastOrder is the latest date among PAID revenues of those projects; when
// there is none, the stored LastOrder is kept rather than cleared. When no
// customer changes, the input slice itself is returned.
func RecomputeCustomerStats(customers []domain.Customer, projects []domain.Project, revenues []domain.Revenue) []domain.Customer {
	spent := make(map[string]decimal.Decimal, len(customers))
	paidProjectOwner := make(map[string]string)
	for _, p := range projects {
		if p.ClientID == "" || p.PaymentStatus != domain.PaymentStatusPaid {
			continue
		}
		spent[p.ClientID] = spent[p.ClientID].Add(amount(p.ValueSold))
		paidProjectOwner[p.ID] = p.ClientID
	}

	lastOrder := make(map[string]string, len(customers))
	for _, r := range revenues {
		if r.Status != domain.PaymentStatusPaid {
			continue
		}
		owner, ok := paidProjectOwner[r.ProjectID]
		if !ok {
			continue
		}
		if r.Date > lastOrder[owner] {
			lastOrder[owner] = r.Date
		}
	}

	var out []domain.Customer
	for i, c := range customers {
		total := float(spent[c.ID])
		last := c.LastOrder
		if d, ok := lastOrder[c.ID]; ok {
			last = d
		}
		if total == c.TotalSpent && last == c.LastOrder {
			continue
		}
		if out == nil {
			out = make([]domain.Customer, len(customers))
			copy(out, customers)
		}
		out[i].TotalSpent = total
		out[i].LastOrder = last
	}

	if out == nil {
		return customers
	}
	return out
}

// SyncClientNames refreshes the denormalized ClientName of every project from
// its customer. Projects whose customer is gone keep their last known name.
// When no project changes, the input slice itself is returned.
func SyncClientNames(projects []domain.Project, customers []domain.Customer) []domain.Project {
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	var out []domain.Project
	for i, p := range projects {
		name, ok := names[p.ClientID]
		if !ok || name == p.ClientName {
			continue
		}
		if out == nil {
			out = make([]domain.Project, len(projects))
			copy(out, projects)
		}
		out[i].ClientName = name
	}

	if out == nil {
		return projects
	}
	return out
}
