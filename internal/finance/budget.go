package finance

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/woodfy/workshop-api/internal/domain"
)

// ErrPriceLocked is returned when an edit touches a project's sale price or
// estimated cost while an approved budget holds them.
var ErrPriceLocked = errors.New("project price is locked by an approved budget")

// RecalculateBudget recomputes every item's TotalPrice, the budget's
// TotalCost and its FinalPrice from the multiplier formula. The input is
// not modified.
func RecalculateBudget(b domain.Budget) (domain.Budget, error) {
	items := make([]domain.BudgetItem, len(b.Items))
	total := decimal.Zero
	for i, item := range b.Items {
		line := amount(item.Quantity).Mul(amount(item.UnitPrice))
		item.TotalPrice = float(line)
		items[i] = item
		total = total.Add(line)
	}

	q, err := ComputeBudgetPrice(total.InexactFloat64(), b.Multiplier, b.TaxRatePercent)
	if err != nil {
		return b, err
	}

	b.Items = items
	b.TotalCost = float(total)
	b.FinalPrice = q.Price
	return b, nil
}

// BudgetQuote derives tax, profit and margin of a recalculated budget
func BudgetQuote(b domain.Budget) PriceQuote {
	return Evaluate(b.TotalCost, b.FinalPrice, b.TaxRatePercent)
}

// ResolveApprovedBudget returns the most recent APPROVED budget of a customer.
// Among approved budgets sharing the latest date, the one stored last wins.
func ResolveApprovedBudget(budgets []domain.Budget, customerID string) (domain.Budget, bool) {
	if customerID == "" {
		return domain.Budget{}, false
	}
	var (
		best  domain.Budget
		found bool
	)
	for _, b := range budgets {
		if b.CustomerID != customerID || b.Status != domain.BudgetStatusApproved {
			continue
		}
		if !found || b.Date >= best.Date {
			best = b
			found = true
		}
	}
	return best, found
}

// Lock is the price an approved budget imposes on a customer's projects
type Lock struct {
	BudgetID      string
	ValueSold     float64
	EstimatedCost float64
}

// LockFor returns the lock in force for a customer, if any
func LockFor(budgets []domain.Budget, customerID string) (Lock, bool) {
	b, ok := ResolveApprovedBudget(budgets, customerID)
	if !ok {
		return Lock{}, false
	}
	return Lock{BudgetID: b.ID, ValueSold: b.FinalPrice, EstimatedCost: b.TotalCost}, true
}

// Holds reports whether the project's price fields already equal the lock
func (l Lock) Holds(valueSold, estimatedCost float64) bool {
	return l.ValueSold == valueSold && l.EstimatedCost == estimatedCost
}

// CheckEdit refuses requested price values that differ from the lock.
// Nil values mean the field is not being edited.
func (l Lock) CheckEdit(valueSold, estimatedCost *float64) error {
	if valueSold != nil && *valueSold != l.ValueSold {
		return ErrPriceLocked
	}
	if estimatedCost != nil && *estimatedCost != l.EstimatedCost {
		return ErrPriceLocked
	}
	return nil
}

// ApplyBudgetLocks overwrites ValueSold and EstimatedCost of every project
// whose customer has an approved budget. Projects without a lock are left
// as they are. When no project changes, the input slice itself is returned.
func ApplyBudgetLocks(projects []domain.Project, budgets []domain.Budget) []domain.Project {
	locks := make(map[string]Lock)
	for _, p := range projects {
		if _, seen := locks[p.ClientID]; seen || p.ClientID == "" {
			continue
		}
		if l, ok := LockFor(budgets, p.ClientID); ok {
			locks[p.ClientID] = l
		}
	}

	var out []domain.Project
	for i, p := range projects {
		l, ok := locks[p.ClientID]
		if !ok || l.Holds(p.ValueSold, p.EstimatedCost) {
			continue
		}
		if out == nil {
			out = make([]domain.Project, len(projects))
			copy(out, projects)
		}
		out[i].ValueSold = l.ValueSold
		out[i].EstimatedCost = l.EstimatedCost
	}

	if out == nil {
		return projects
	}
	return out
}

// Draft is the price state of a project form
type Draft struct {
	ValueSold     float64
	EstimatedCost float64
	Lock          *Lock
	Cleared       bool
}

// ReconcileDraft returns the price fields a project form must show after its
// customer changed from previousClientID to clientID.
//
// A lock on the new customer always wins. Without one, a price carried over
// from the previous customer's lock is stale: a new project clears it
// unconditionally, an existing project clears it only when the values still
// equal that lock so manual entries survive an edit.
func ReconcileDraft(mode domain.EditMode, previousClientID, clientID string, valueSold, estimatedCost float64, budgets []domain.Budget) Draft {
	if l, ok := LockFor(budgets, clientID); ok {
		return Draft{ValueSold: l.ValueSold, EstimatedCost: l.EstimatedCost, Lock: &l}
	}

	d := Draft{ValueSold: valueSold, EstimatedCost: estimatedCost}
	if previousClientID == "" || previousClientID == clientID {
		return d
	}
	prev, ok := LockFor(budgets, previousClientID)
	if !ok {
		return d
	}

	switch mode {
	case domain.EditModeNew:
		return Draft{Cleared: true}
	case domain.EditModeExisting:
		if prev.Holds(valueSold, estimatedCost) {
			return Draft{Cleared: true}
		}
	}
	return d
}
