package finance_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
)

func TestRecomputeProjectCosts(t *testing.T) {
	projects := []domain.Project{
		{ID: "p1", Code: "PROJ-001"},
		{ID: "p2", Code: "PROJ-002", RealCost: 50},
	}
	costs := []domain.Cost{
		{ID: "c1", ProjectID: "p1", Value: 500},
		{ID: "c2", ProjectID: "p1", Value: 300},
		{ID: "c3", Value: 999},
		{ID: "c4", ProjectID: "gone", Value: 120},
	}

	t.Run("sums costs per project", func(t *testing.T) {
		out := finance.RecomputeProjectCosts(projects, costs)

		require.Len(t, out, 2)
		assert.Equal(t, 800.0, out[0].RealCost)
		assert.Equal(t, 0.0, out[1].RealCost)
		assert.False(t, finance.SameSlice(projects, out))
		assert.Equal(t, 0.0, projects[0].RealCost, "input must not be mutated")
	})

	t.Run("settled snapshot returns the same slice", func(t *testing.T) {
		settled := finance.RecomputeProjectCosts(projects, costs)
		again := finance.RecomputeProjectCosts(settled, costs)

		assert.True(t, finance.SameSlice(settled, again))
		assert.Equal(t, settled, again)
	})

	t.Run("decimal sums avoid float drift", func(t *testing.T) {
		ps := []domain.Project{{ID: "p"}}
		cs := []domain.Cost{
			{ID: "a", ProjectID: "p", Value: 0.1},
			{ID: "b", ProjectID: "p", Value: 0.2},
		}
		out := finance.RecomputeProjectCosts(ps, cs)
		assert.Equal(t, 0.3, out[0].RealCost)
	})

	t.Run("malformed values count as zero", func(t *testing.T) {
		ps := []domain.Project{{ID: "p"}}
		cs := []domain.Cost{
			{ID: "a", ProjectID: "p", Value: math.NaN()},
			{ID: "b", ProjectID: "p", Value: math.Inf(1)},
			{ID: "c", ProjectID: "p", Value: 10},
		}
		out := finance.RecomputeProjectCosts(ps, cs)
		assert.Equal(t, 10.0, out[0].RealCost)
	})

	t.Run("empty input", func(t *testing.T) {
		out := finance.RecomputeProjectCosts(nil, costs)
		assert.Empty(t, out)
	})
}

func TestRecomputeCustomerStats(t *testing.T) {
	customers := []domain.Customer{
		{ID: "cu1", Name: "Ana"},
		{ID: "cu2", Name: "Bruno", LastOrder: "2023-01-05"},
	}
	projects := []domain.Project{
		{ID: "p1", ClientID: "cu1", ValueSold: 1000, PaymentStatus: domain.PaymentStatusPaid},
		{ID: "p2", ClientID: "cu1", ValueSold: 2000, PaymentStatus: domain.PaymentStatusPending},
		{ID: "p3", ClientID: "cu2", ValueSold: 700, PaymentStatus: domain.PaymentStatusOverdue},
	}
	revenues := []domain.Revenue{
		{ID: "r1", ProjectID: "p1", Value: 500, Date: "2024-03-01", Status: domain.PaymentStatusPaid},
		{ID: "r2", ProjectID: "p1", Value: 500, Date: "2024-04-15", Status: domain.PaymentStatusPaid},
		{ID: "r3", ProjectID: "p1", Value: 100, Date: "2024-06-01", Status: domain.PaymentStatusPending},
		{ID: "r4", ProjectID: "p2", Value: 900, Date: "2024-07-01", Status: domain.PaymentStatusPaid},
	}

	out := finance.RecomputeCustomerStats(customers, projects, revenues)

	require.Len(t, out, 2)
	assert.Equal(t, 1000.0, out[0].TotalSpent)
	assert.Equal(t, "2024-04-15", out[0].LastOrder)
	assert.Equal(t, 0.0, out[1].TotalSpent)
	assert.Equal(t, "2023-01-05", out[1].LastOrder, "lastOrder is kept when no paid revenue exists")

	again := finance.RecomputeCustomerStats(out, projects, revenues)
	assert.True(t, finance.SameSlice(out, again))
}

func TestRecomputeCustomerStats_NoChangeKeepsSlice(t *testing.T) {
	customers := []domain.Customer{{ID: "cu1", Name: "Ana"}}
	out := finance.RecomputeCustomerStats(customers, nil, nil)
	assert.True(t, finance.SameSlice(customers, out))
}

func TestSameSlice(t *testing.T) {
	a := []int{1, 2, 3}
	b := make([]int, 3)
	copy(b, a)

	assert.True(t, finance.SameSlice(a, a))
	assert.False(t, finance.SameSlice(a, b))
	assert.False(t, finance.SameSlice(a, a[:2]))
	assert.True(t, finance.SameSlice([]int{}, nil))
}

func TestSyncClientNames(t *testing.T) {
	customers := []domain.Customer{{ID: "cu1", Name: "Ana Souza"}}
	projects := []domain.Project{
		{ID: "p1", ClientID: "cu1", ClientName: "Ana"},
		{ID: "p2", ClientID: "gone", ClientName: "Antigo"},
	}

	out := finance.SyncClientNames(projects, customers)

	assert.Equal(t, "Ana Souza", out[0].ClientName)
	assert.Equal(t, "Antigo", out[1].ClientName)
	assert.True(t, finance.SameSlice(out, finance.SyncClientNames(out, customers)))
}
