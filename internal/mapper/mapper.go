package mapper

import (
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
)

// ToProjectDTO converts Project to ProjectDTO. lock is the budget lock in
// force for the project's customer, nil when the price is editable.
func ToProjectDTO(project domain.Project, lock *finance.Lock) domain.ProjectDTO {
	fin := finance.FinancialsOf(project)
	dto := domain.ProjectDTO{
		Project:       project,
		Profit:        fin.Profit,
		MarginPercent: fin.MarginPercent,
		OverBudget:    fin.OverBudget,
	}
	if lock != nil {
		dto.Locked = true
		dto.LockedBy = lock.BudgetID
	}
	return dto
}

// ToProjectDTOs converts projects, resolving each customer's lock once
func ToProjectDTOs(projects []domain.Project, budgets []domain.Budget) []domain.ProjectDTO {
	locks := make(map[string]*finance.Lock)
	out := make([]domain.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		lock, seen := locks[p.ClientID]
		if !seen {
			if l, ok := finance.LockFor(budgets, p.ClientID); ok {
				lock = &l
			}
			locks[p.ClientID] = lock
		}
		out = append(out, ToProjectDTO(p, lock))
	}
	return out
}

// ToProjectDraftDTO converts a reconciled Draft
func ToProjectDraftDTO(d finance.Draft) domain.ProjectDraftDTO {
	dto := domain.ProjectDraftDTO{
		ValueSold:     d.ValueSold,
		EstimatedCost: d.EstimatedCost,
		Cleared:       d.Cleared,
	}
	if d.Lock != nil {
		dto.Locked = true
		dto.LockedBy = d.Lock.BudgetID
	}
	return dto
}

// ToBudgetDTO converts Budget to BudgetDTO
func ToBudgetDTO(budget domain.Budget, customerName string) domain.BudgetDTO {
	q := finance.BudgetQuote(budget)
	return domain.BudgetDTO{
		Budget:        budget,
		CustomerName:  customerName,
		TaxAmount:     q.TaxAmount,
		Profit:        q.Profit,
		MarginPercent: q.MarginPercent,
	}
}

// ToPriceQuoteDTO converts a PriceQuote
func ToPriceQuoteDTO(q finance.PriceQuote) domain.PriceQuoteDTO {
	return domain.PriceQuoteDTO{
		Cost:          q.Cost,
		Price:         q.Price,
		TaxAmount:     q.TaxAmount,
		Profit:        q.Profit,
		MarginPercent: q.MarginPercent,
	}
}
