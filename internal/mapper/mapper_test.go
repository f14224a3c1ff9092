package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/mapper"
)

func TestToProjectDTO(t *testing.T) {
	p := domain.Project{ID: "p1", Code: "PROJ-001", ValueSold: 1000, EstimatedCost: 700, RealCost: 800}

	dto := mapper.ToProjectDTO(p, nil)
	assert.Equal(t, p, dto.Project)
	assert.Equal(t, 200.0, dto.Profit)
	assert.Equal(t, 20.0, dto.MarginPercent)
	assert.True(t, dto.OverBudget)
	assert.False(t, dto.Locked)

	dto = mapper.ToProjectDTO(p, &finance.Lock{BudgetID: "b1"})
	assert.True(t, dto.Locked)
	assert.Equal(t, "b1", dto.LockedBy)
}

func TestToProjectDTOs_ResolvesLocksPerCustomer(t *testing.T) {
	projects := []domain.Project{
		{ID: "p1", ClientID: "c1"},
		{ID: "p2", ClientID: "c2"},
		{ID: "p3", ClientID: "c1"},
	}
	budgets := []domain.Budget{
		{ID: "b1", CustomerID: "c1", Date: "2024-04-01", Status: domain.BudgetStatusApproved},
		{ID: "b2", CustomerID: "c2", Date: "2024-04-01", Status: domain.BudgetStatusSent},
	}

	dtos := mapper.ToProjectDTOs(projects, budgets)
	require.Len(t, dtos, 3)
	assert.Equal(t, "b1", dtos[0].LockedBy)
	assert.False(t, dtos[1].Locked)
	assert.Equal(t, "b1", dtos[2].LockedBy)
}

func TestToBudgetDTO(t *testing.T) {
	b := domain.Budget{ID: "b1", TotalCost: 1000, FinalPrice: 2659.57, TaxRatePercent: 6}

	dto := mapper.ToBudgetDTO(b, "Ana Souza")
	assert.Equal(t, "Ana Souza", dto.CustomerName)
	assert.Equal(t, 159.57, dto.TaxAmount)
	assert.Equal(t, 1500.0, dto.Profit)
	assert.Equal(t, 56.4, dto.MarginPercent)
}

func TestToProjectDraftDTO(t *testing.T) {
	dto := mapper.ToProjectDraftDTO(finance.Draft{ValueSold: 10, EstimatedCost: 5, Lock: &finance.Lock{BudgetID: "b9"}})
	assert.True(t, dto.Locked)
	assert.Equal(t, "b9", dto.LockedBy)

	dto = mapper.ToProjectDraftDTO(finance.Draft{Cleared: true})
	assert.True(t, dto.Cleared)
	assert.Zero(t, dto.ValueSold)
}
