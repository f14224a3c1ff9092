package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
)

func TestDashboard(t *testing.T) {
	revenues, costs, expenses, projects := ledgerFixture()
	projects = append(projects, domain.Project{ID: "p2", Status: domain.ProjectStatusDelayed})
	projects[0].Status = domain.ProjectStatusInProgress

	stats := finance.Dashboard(finance.Collections{
		Projects: projects,
		Revenues: revenues,
		Costs:    costs,
		Expenses: expenses,
	})

	assert.Equal(t, 1080.0, stats.GrossRevenue)
	assert.Equal(t, 600.0, stats.TotalCosts)
	assert.Equal(t, 480.0, stats.NetProfit)
	assert.InDelta(t, 44.44, stats.RealMarginPercent, 0.01)
	assert.Equal(t, 1, stats.ActiveProjects)
	assert.Equal(t, 1, stats.DelayedProjects)
}

func TestRevenueVsCost(t *testing.T) {
	revenues, costs, expenses, projects := ledgerFixture()
	txs := finance.BuildLedger(revenues, costs, expenses, projects)

	flow := finance.RevenueVsCost(txs, 3, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC))

	require.Len(t, flow, 3)
	assert.Equal(t, "2024-03", flow[0].Month)
	assert.Equal(t, 0.0, flow[0].Revenue)
	assert.Equal(t, "2024-04", flow[1].Month)
	assert.Equal(t, 80.0, flow[1].Revenue)
	assert.Equal(t, "2024-05", flow[2].Month)
	assert.Equal(t, 1000.0, flow[2].Revenue)
	assert.Equal(t, 600.0, flow[2].Costs)
	assert.Equal(t, 400.0, flow[2].Profit)
}

func TestProjectMargins(t *testing.T) {
	projects := []domain.Project{
		{ID: "a", Status: domain.ProjectStatusFinished, ValueSold: 1000, RealCost: 600},
		{ID: "b", Status: domain.ProjectStatusFinished, ValueSold: 1000, RealCost: 100},
		{ID: "c", Status: domain.ProjectStatusInProgress, ValueSold: 1000, RealCost: 0},
		{ID: "d", Status: domain.ProjectStatusFinished, ValueSold: 0, RealCost: 10},
		{ID: "e", Status: domain.ProjectStatusFinished, ValueSold: 300, RealCost: 200},
	}

	margins := finance.ProjectMargins(projects, 2)

	require.Len(t, margins, 2)
	assert.Equal(t, "b", margins[0].ProjectID)
	assert.Equal(t, 90.0, margins[0].MarginPercent)
	assert.Equal(t, "a", margins[1].ProjectID)
	assert.Equal(t, 40.0, margins[1].MarginPercent)
}

func TestFinancialsOf(t *testing.T) {
	f := finance.FinancialsOf(domain.Project{ValueSold: 2000, EstimatedCost: 700, RealCost: 800})

	assert.Equal(t, 1200.0, f.Profit)
	assert.Equal(t, 60.0, f.MarginPercent)
	assert.True(t, f.OverBudget)
}

func TestExpenseBreakdown(t *testing.T) {
	costs := []domain.Cost{
		{ID: "c1", ProjectID: "p1", Value: 400, Date: "2024-05-12"},
		{ID: "c2", ProjectID: "p1", Value: 100, Date: "2024-04-12"},
		{ID: "c3", Value: 999, Date: "2024-05-12"},
	}
	expenses := []domain.GeneralExpense{
		{ID: "e1", Category: domain.ExpenseCategoryRent, Value: 1200, DueDate: "2024-05-01", Status: domain.PaymentStatusPaid},
		{ID: "e2", Category: domain.ExpenseCategoryEnergy, Value: 150, DueDate: "2024-05-25", Status: domain.PaymentStatusPending},
		{ID: "e3", Category: domain.ExpenseCategoryEnergy, Value: 90, DueDate: "2024-05-05", Status: domain.PaymentStatusPaid},
	}

	shares := finance.ExpenseBreakdown(costs, expenses, "2024-05")

	require.Len(t, shares, 3)
	assert.Equal(t, finance.Share{Label: "Aluguel", Value: 1200}, shares[0])
	assert.Equal(t, finance.Share{Label: finance.ProjectCostsBucket, Value: 400}, shares[1])
	assert.Equal(t, finance.Share{Label: "Energia", Value: 90}, shares[2])
}

func TestAnnualProfitOf(t *testing.T) {
	revenues, costs, expenses, projects := ledgerFixture()
	txs := finance.BuildLedger(revenues, costs, expenses, projects)

	p := finance.AnnualProfitOf(txs, 2024)
	assert.Equal(t, 1080.0, p.Income)
	assert.Equal(t, 600.0, p.Outcome)
	assert.Equal(t, 480.0, p.Profit)

	empty := finance.AnnualProfitOf(txs, 2023)
	assert.Equal(t, 0.0, empty.MarginPercent)
}

func TestRevenueByCustomer(t *testing.T) {
	projects := []domain.Project{
		{ClientName: "Ana", ValueSold: 1000, PaymentStatus: domain.PaymentStatusPaid},
		{ClientName: "Ana", ValueSold: 500, PaymentStatus: domain.PaymentStatusPaid},
		{ClientName: "Bruno", ValueSold: 3000, PaymentStatus: domain.PaymentStatusPaid},
		{ClientName: "Carla", ValueSold: 9000, PaymentStatus: domain.PaymentStatusPending},
	}

	shares := finance.RevenueByCustomer(projects)

	require.Len(t, shares, 2)
	assert.Equal(t, "Bruno", shares[0].Label)
	assert.Equal(t, 1500.0, shares[1].Value)
}

func TestPaymentMethodBreakdown(t *testing.T) {
	revenues := []domain.Revenue{
		{Value: 100, PaymentMethod: "PIX", Status: domain.PaymentStatusPaid},
		{Value: 50, Status: domain.PaymentStatusPaid},
		{Value: 70, PaymentMethod: "PIX", Status: domain.PaymentStatusPending},
	}

	shares := finance.PaymentMethodBreakdown(revenues)

	require.Len(t, shares, 2)
	assert.Equal(t, finance.Share{Label: "PIX", Value: 100}, shares[0])
	assert.Equal(t, finance.Share{Label: finance.UnspecifiedPaymentMethod, Value: 50}, shares[1])
}

func TestUpcomingDeliveries(t *testing.T) {
	asOf := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	projects := []domain.Project{
		{ID: "late", Status: domain.ProjectStatusInProgress, DeliveryDate: "2024-05-08"},
		{ID: "soon", Status: domain.ProjectStatusInProgress, DeliveryDate: "2024-05-15"},
		{ID: "far", Status: domain.ProjectStatusInProgress, DeliveryDate: "2024-06-15"},
		{ID: "done", Status: domain.ProjectStatusFinished, DeliveryDate: "2024-05-11"},
		{ID: "nodate", Status: domain.ProjectStatusInProgress},
	}

	out := finance.UpcomingDeliveries(projects, asOf, 7)

	require.Len(t, out, 2)
	assert.Equal(t, "late", out[0].ProjectID)
	assert.Equal(t, -2, out[0].DaysLeft)
	assert.Equal(t, "soon", out[1].ProjectID)
	assert.Equal(t, 5, out[1].DaysLeft)
}

func TestCheckIntegrity(t *testing.T) {
	c := finance.Collections{
		Customers: []domain.Customer{{ID: "cu1"}},
		Projects:  []domain.Project{{ID: "p1", ClientID: "cu1"}, {ID: "p2", ClientID: "ghost"}},
		Costs:     []domain.Cost{{ID: "c1", ProjectID: "p9"}, {ID: "c2", ProjectID: "p1", SupplierID: "s9"}},
		Revenues:  []domain.Revenue{{ID: "r1", ProjectID: "p1", Date: "2024-01-01", Status: domain.PaymentStatusPending}},
		Expenses:  []domain.GeneralExpense{{ID: "e1", DueDate: "2024-12-01", Status: domain.PaymentStatusPending}},
		Budgets:   []domain.Budget{{ID: "b1", CustomerID: "cu2"}},
	}

	report := finance.CheckIntegrity(c, "2024-06-01")

	assert.False(t, report.Clean())
	assert.Len(t, report.Dangling, 4)
	require.Len(t, report.Overdue, 1)
	assert.Equal(t, "r1", report.Overdue[0].ID)
	assert.Equal(t, domain.PaymentStatusPending, c.Revenues[0].Status)
}
