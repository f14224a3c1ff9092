package service

import (
	"context"

	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/store"
)

const (
	defaultFlowMonths  = 6
	defaultMarginLimit  = 8
)

// ReportService computes the dashboard and report views. Every report reads
// one consistent snapshot.
type ReportService struct {
	store      *store.Store
	now        Clock
	windowDays int
}

// NewReportService creates a new report service instance. windowDays bounds
// the upcoming deliveries report.
func NewReportService(st *store.Store, now Clock, windowDays int) *ReportService {
	if now == nil {
		now = systemClock
	}
	return &ReportService{store: st, now: now, windowDays: windowDays}
}

func (s *ReportService) ledger(snap store.Snapshot) []finance.Transaction {
	return finance.BuildLedger(snap.Revenues, snap.Costs, snap.Expenses, snap.Projects)
}

// Dashboard returns the headline figures
func (s *ReportService) Dashboard(ctx context.Context) finance.DashboardStats {
	return finance.Dashboard(s.store.Snapshot().View())
}

// RevenueVsCost returns revenue against outflow for the last months,
// oldest first
func (s *ReportService) RevenueVsCost(ctx context.Context, months int) []finance.MonthFlow {
	if months <= 0 {
		months = defaultFlowMonths
	}
	return finance.RevenueVsCost(s.ledger(s.store.Snapshot()), months, s.now())
}

// ProjectMargins ranks finished projects by realized margin
func (s *ReportService) ProjectMargins(ctx context.Context, limit int) []finance.ProjectMargin {
	if limit <= 0 {
		limit = defaultMarginLimit
	}
	return finance.ProjectMargins(s.store.Projects(), limit)
}

// ExpenseBreakdown splits the outflow of a YYYY-MM month, the current one
// when empty
func (s *ReportService) ExpenseBreakdown(ctx context.Context, month string) []finance.Share {
	if month == "" {
		month = s.now().Format("2006-01")
	}
	snap := s.store.Snapshot()
	return finance.ExpenseBreakdown(snap.Costs, snap.Expenses, month)
}

// AnnualProfit totals the realized result of year, the current one when zero
func (s *ReportService) AnnualProfit(ctx context.Context, year int) finance.AnnualProfit {
	if year == 0 {
		year = s.now().Year()
	}
	return finance.AnnualProfitOf(s.ledger(s.store.Snapshot()), year)
}

// RevenueByCustomer sums the sale price of paid projects per customer
func (s *ReportService) RevenueByCustomer(ctx context.Context) []finance.Share {
	return finance.RevenueByCustomer(s.store.Projects())
}

// PaymentMethods sums paid revenue per payment method
func (s *ReportService) PaymentMethods(ctx context.Context) []finance.Share {
	return finance.PaymentMethodBreakdown(s.store.Revenues())
}

// UpcomingDeliveries lists in-progress projects due soon or overdue
func (s *ReportService) UpcomingDeliveries(ctx context.Context) []finance.UpcomingDelivery {
	return finance.UpcomingDeliveries(s.store.Projects(), s.now(), s.windowDays)
}
