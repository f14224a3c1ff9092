package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/store"
)

var financeDefaults = config.FinanceConfig{
	Currency:             "BRL",
	DefaultMarkupPercent: 40,
	DefaultTaxPercent:    20,
	DefaultMultiplier:    2,
	DeliveryWindowDays:   7,
}

func fixedClock(date string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		return t.Add(10 * time.Hour)
	}
}

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(store.NewMemoryPersister(), zap.NewNop())
	require.NoError(t, st.Load(context.Background()))
	return st
}

// seed writes fixtures straight through the store
func seed(t *testing.T, st *store.Store, fn func(tx *store.Tx) error) {
	t.Helper()
	_, err := st.Mutate(context.Background(), fn)
	require.NoError(t, err)
}

func seedCustomer(t *testing.T, st *store.Store, id, name string) {
	t.Helper()
	seed(t, st, func(tx *store.Tx) error {
		return tx.UpsertCustomer(domain.Customer{ID: id, Name: name})
	})
}

func seedProject(t *testing.T, st *store.Store, p domain.Project) {
	t.Helper()
	if p.Code == "" {
		p.Code = "PROJ-" + p.ID
	}
	if p.StartDate == "" {
		p.StartDate = "2024-05-01"
	}
	if p.Status == "" {
		p.Status = domain.ProjectStatusInProgress
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = domain.PaymentStatusPending
	}
	seed(t, st, func(tx *store.Tx) error { return tx.UpsertProject(p) })
}

func seedApprovedBudget(t *testing.T, st *store.Store, id, customerID, date string, totalCost, finalPrice float64) {
	t.Helper()
	seed(t, st, func(tx *store.Tx) error {
		return tx.UpsertBudget(domain.Budget{
			ID:         id,
			CustomerID: customerID,
			Date:       date,
			Items:      []domain.BudgetItem{{Description: "MDF", Quantity: 1, UnitPrice: totalCost, TotalPrice: totalCost}},
			TotalCost:  totalCost,
			Multiplier: 2,
			FinalPrice: finalPrice,
			Status:     domain.BudgetStatusApproved,
		})
	})
}

func floatPtr(v float64) *float64 {
	return &v
}
