package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
)

func TestComputeBudgetPrice(t *testing.T) {
	q, err := finance.ComputeBudgetPrice(1000, 2.5, 6)

	require.NoError(t, err)
	assert.Equal(t, 2659.57, q.Price)
	assert.Equal(t, 1500.0, q.Profit)
	assert.InDelta(t, 56.4, q.MarginPercent, 0.01)
	assert.Equal(t, 159.57, q.TaxAmount)
}

func TestComputeBudgetPrice_TaxAtOrAboveHundred(t *testing.T) {
	_, err := finance.ComputeBudgetPrice(1000, 2, 100)
	assert.ErrorIs(t, err, finance.ErrNoValidPrice)

	_, err = finance.ComputeBudgetPrice(1000, 2, 140)
	assert.ErrorIs(t, err, finance.ErrNoValidPrice)
}

func TestSimulatePrice(t *testing.T) {
	tests := []struct {
		name      string
		cost      float64
		markup    float64
		tax       float64
		wantPrice float64
		wantErr   bool
	}{
		{name: "defaults of the simulator", cost: 1000, markup: 40, tax: 6, wantPrice: 1851.85},
		{name: "no markup no tax", cost: 500, markup: 0, tax: 0, wantPrice: 500},
		{name: "zero cost", cost: 0, markup: 30, tax: 10, wantPrice: 0},
		{name: "exactly one hundred percent", cost: 1000, markup: 94, tax: 6, wantErr: true},
		{name: "above one hundred percent", cost: 1000, markup: 120, tax: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := finance.SimulatePrice(tt.cost, tt.markup, tt.tax)
			if tt.wantErr {
				assert.ErrorIs(t, err, finance.ErrNoValidPrice)
				assert.Equal(t, finance.PriceQuote{}, q)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, q.Price)
		})
	}
}

func TestSimulatePrice_MarginMatchesMarkup(t *testing.T) {
	q, err := finance.SimulatePrice(1000, 40, 6)
	require.NoError(t, err)

	// price*(1-0.46) == cost, so profit is the markup share of the price
	assert.InDelta(t, 40.0, q.MarginPercent, 0.01)
	assert.InDelta(t, 740.74, q.Profit, 0.01)
}

func TestEvaluate_ZeroPrice(t *testing.T) {
	q := finance.Evaluate(100, 0, 6)
	assert.Equal(t, 0.0, q.MarginPercent)
	assert.Equal(t, -100.0, q.Profit)
}

func TestRecalculateBudget(t *testing.T) {
	b := domain.Budget{
		ID:         "b1",
		Multiplier: 2.5,
		Items: []domain.BudgetItem{
			{Description: "Chapa MDF", Quantity: 4, UnitPrice: 150},
			{Description: "Corrediças", Quantity: 8, UnitPrice: 50},
		},
		TaxRatePercent: 6,
	}

	out, err := finance.RecalculateBudget(b)

	require.NoError(t, err)
	assert.Equal(t, 600.0, out.Items[0].TotalPrice)
	assert.Equal(t, 400.0, out.Items[1].TotalPrice)
	assert.Equal(t, 1000.0, out.TotalCost)
	assert.Equal(t, 2659.57, out.FinalPrice)
	assert.Equal(t, 0.0, b.Items[0].TotalPrice, "input must not be mutated")
}

func TestRecalculateBudget_InvalidTax(t *testing.T) {
	_, err := finance.RecalculateBudget(domain.Budget{Multiplier: 2, TaxRatePercent: 100})
	assert.ErrorIs(t, err, finance.ErrNoValidPrice)
}

func TestResolveApprovedBudget(t *testing.T) {
	budgets := []domain.Budget{
		{ID: "old", CustomerID: "cu1", Date: "2024-01-10", Status: domain.BudgetStatusApproved},
		{ID: "new", CustomerID: "cu1", Date: "2024-03-10", Status: domain.BudgetStatusApproved},
		{ID: "draft", CustomerID: "cu1", Date: "2024-06-10", Status: domain.BudgetStatusDraft},
		{ID: "other", CustomerID: "cu2", Date: "2024-09-10", Status: domain.BudgetStatusApproved},
	}

	b, ok := finance.ResolveApprovedBudget(budgets, "cu1")
	require.True(t, ok)
	assert.Equal(t, "new", b.ID)

	_, ok = finance.ResolveApprovedBudget(budgets, "cu3")
	assert.False(t, ok)

	_, ok = finance.ResolveApprovedBudget(budgets, "")
	assert.False(t, ok)
}

func TestResolveApprovedBudget_SameDateLastStoredWins(t *testing.T) {
	budgets := []domain.Budget{
		{ID: "a", CustomerID: "cu1", Date: "2024-03-10", Status: domain.BudgetStatusApproved},
		{ID: "b", CustomerID: "cu1", Date: "2024-03-10", Status: domain.BudgetStatusApproved},
	}
	b, ok := finance.ResolveApprovedBudget(budgets, "cu1")
	require.True(t, ok)
	assert.Equal(t, "b", b.ID)
}

func approvedBudget() domain.Budget {
	return domain.Budget{
		ID:         "b1",
		CustomerID: "cu1",
		Date:       "2024-02-01",
		TotalCost:  7000,
		FinalPrice: 15000,
		Status:     domain.BudgetStatusApproved,
	}
}

func TestApplyBudgetLocks(t *testing.T) {
	budgets := []domain.Budget{approvedBudget()}
	projects := []domain.Project{
		{ID: "p1", ClientID: "cu1", ValueSold: 9000, EstimatedCost: 4000},
		{ID: "p2", ClientID: "cu2", ValueSold: 100, EstimatedCost: 50},
	}

	out := finance.ApplyBudgetLocks(projects, budgets)

	assert.Equal(t, 15000.0, out[0].ValueSold)
	assert.Equal(t, 7000.0, out[0].EstimatedCost)
	assert.Equal(t, 100.0, out[1].ValueSold)
	assert.Equal(t, 9000.0, projects[0].ValueSold, "input must not be mutated")

	again := finance.ApplyBudgetLocks(out, budgets)
	assert.True(t, finance.SameSlice(out, again))
}

func TestLock_CheckEdit(t *testing.T) {
	lock, ok := finance.LockFor([]domain.Budget{approvedBudget()}, "cu1")
	require.True(t, ok)

	same := 15000.0
	other := 12000.0
	cost := 7000.0

	assert.NoError(t, lock.CheckEdit(nil, nil))
	assert.NoError(t, lock.CheckEdit(&same, &cost))
	assert.ErrorIs(t, lock.CheckEdit(&other, nil), finance.ErrPriceLocked)
	assert.ErrorIs(t, lock.CheckEdit(nil, &other), finance.ErrPriceLocked)
}

func TestReconcileDraft(t *testing.T) {
	budgets := []domain.Budget{approvedBudget()}

	t.Run("locked customer overrides values", func(t *testing.T) {
		d := finance.ReconcileDraft(domain.EditModeExisting, "", "cu1", 1, 2, budgets)
		require.NotNil(t, d.Lock)
		assert.Equal(t, "b1", d.Lock.BudgetID)
		assert.Equal(t, 15000.0, d.ValueSold)
		assert.Equal(t, 7000.0, d.EstimatedCost)
	})

	t.Run("new project leaving a locked customer is cleared", func(t *testing.T) {
		d := finance.ReconcileDraft(domain.EditModeNew, "cu1", "cu2", 15000, 7000, budgets)
		assert.True(t, d.Cleared)
		assert.Nil(t, d.Lock)
		assert.Equal(t, 0.0, d.ValueSold)
		assert.Equal(t, 0.0, d.EstimatedCost)
	})

	t.Run("existing project with stale locked price is cleared", func(t *testing.T) {
		d := finance.ReconcileDraft(domain.EditModeExisting, "cu1", "cu2", 15000, 7000, budgets)
		assert.True(t, d.Cleared)
	})

	t.Run("existing project keeps manual values", func(t *testing.T) {
		d := finance.ReconcileDraft(domain.EditModeExisting, "cu1", "cu2", 16000, 7000, budgets)
		assert.False(t, d.Cleared)
		assert.Equal(t, 16000.0, d.ValueSold)
	})

	t.Run("unlocked customers keep values", func(t *testing.T) {
		d := finance.ReconcileDraft(domain.EditModeNew, "cu2", "cu3", 500, 200, budgets)
		assert.False(t, d.Cleared)
		assert.Equal(t, 500.0, d.ValueSold)
		assert.Equal(t, 200.0, d.EstimatedCost)
	})
}
