package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/service"
)

func TestReportService(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	seedProject(t, st, domain.Project{ID: "p2", Code: "PROJ-002", ClientID: "c1", DeliveryDate: "2024-06-20"})
	seedProject(t, st, domain.Project{ID: "p3", Code: "PROJ-003", ClientID: "c1", DeliveryDate: "2024-09-01"})
	svc := service.NewReportService(st, fixedClock("2024-06-15"), financeDefaults.DeliveryWindowDays)
	ctx := context.Background()

	t.Run("dashboard", func(t *testing.T) {
		stats := svc.Dashboard(ctx)
		assert.Equal(t, 3000.0, stats.GrossRevenue)
		assert.Equal(t, 1800.0, stats.TotalCosts)
		assert.Equal(t, 1200.0, stats.NetProfit)
		assert.Equal(t, 3, stats.ActiveProjects)
	})

	t.Run("revenue vs cost defaults to six months", func(t *testing.T) {
		flow := svc.RevenueVsCost(ctx, 0)
		require.Len(t, flow, 6)
		assert.Equal(t, "2024-06", flow[5].Month)
		assert.Equal(t, "2024-05", flow[4].Month)
		assert.Equal(t, 3000.0, flow[4].Revenue)
		assert.Equal(t, 1800.0, flow[4].Costs)
	})

	t.Run("expense breakdown", func(t *testing.T) {
		shares := svc.ExpenseBreakdown(ctx, "2024-05")
		require.Len(t, shares, 2)
		assert.Equal(t, domain.ExpenseCategoryRent.Label(), shares[0].Label)
		assert.Equal(t, finance.ProjectCostsBucket, shares[1].Label)

		assert.Empty(t, svc.ExpenseBreakdown(ctx, ""))
	})

	t.Run("annual profit defaults to current year", func(t *testing.T) {
		profit := svc.AnnualProfit(ctx, 0)
		assert.Equal(t, 2024, profit.Year)
		assert.Equal(t, 1200.0, profit.Profit)
	})

	t.Run("payment methods", func(t *testing.T) {
		shares := svc.PaymentMethods(ctx)
		require.Len(t, shares, 1)
		assert.Equal(t, "PIX", shares[0].Label)
	})

	t.Run("upcoming deliveries", func(t *testing.T) {
		due := svc.UpcomingDeliveries(ctx)
		require.Len(t, due, 1)
		assert.Equal(t, "PROJ-002", due[0].Code)
		assert.Equal(t, 5, due[0].DaysLeft)
	})
}

func TestIntegrityService_Check(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	customers := service.NewCustomerService(st, zap.NewNop())
	svc := service.NewIntegrityService(st, fixedClock("2024-06-15"), zap.NewNop())
	ctx := context.Background()

	report := svc.Check(ctx)
	assert.True(t, report.Clean())
	assert.Len(t, report.Overdue, 2)

	require.NoError(t, customers.Delete(ctx, "c1"))

	report = svc.Check(ctx)
	assert.False(t, report.Clean())
	require.NotEmpty(t, report.Dangling)
	assert.Equal(t, "c1", report.Dangling[0].TargetID)
}

func TestPricingService(t *testing.T) {
	svc := service.NewPricingService(financeDefaults)
	ctx := context.Background()

	defaults := svc.Defaults(ctx)
	assert.Equal(t, "BRL", defaults.Currency)
	assert.Equal(t, 2.0, defaults.Multiplier)

	quote, err := svc.Simulate(ctx, &domain.SimulatePriceRequest{Cost: 600, MarkupPercent: 30, TaxPercent: 10})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, quote.Price)

	quote, err = svc.BudgetPrice(ctx, &domain.BudgetPriceRequest{Cost: 400, Multiplier: 2, TaxPercent: 20})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, quote.Price)

	_, err = svc.Simulate(ctx, &domain.SimulatePriceRequest{Cost: 600, MarkupPercent: 80, TaxPercent: 20})
	assert.ErrorIs(t, err, service.ErrNoValidPrice)

	_, err = svc.BudgetPrice(ctx, &domain.BudgetPriceRequest{Cost: 400, Multiplier: 2, TaxPercent: 100})
	assert.ErrorIs(t, err, service.ErrNoValidPrice)
}
