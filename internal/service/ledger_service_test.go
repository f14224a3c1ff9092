package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/export"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/service"
	"github.com/woodfy/workshop-api/internal/store"
)

// seedLedger stores the May 2024 workshop month: one paid and one pending
// revenue, a material cost and a paid and a pending expense
func seedLedger(t *testing.T, st *store.Store) {
	t.Helper()
	seedCustomer(t, st, "c1", "Ana Souza")
	seedProject(t, st, domain.Project{ID: "p1", Code: "PROJ-001", ClientID: "c1", FurnitureType: "Cozinha", ValueSold: 3000})
	seed(t, st, func(tx *store.Tx) error {
		if err := tx.UpsertRevenue(domain.Revenue{ID: "r1", ProjectID: "p1", Value: 3000, PaymentMethod: "PIX", Date: "2024-05-10", Status: domain.PaymentStatusPaid}); err != nil {
			return err
		}
		if err := tx.UpsertRevenue(domain.Revenue{ID: "r2", ProjectID: "p1", Value: 500, Date: "2024-06-10", Status: domain.PaymentStatusPending}); err != nil {
			return err
		}
		if err := tx.UpsertCost(domain.Cost{ID: "k1", ProjectID: "p1", Category: domain.CostCategoryMaterial, Description: "MDF", Value: 800, Date: "2024-05-03", Type: domain.CostTypeVariable}); err != nil {
			return err
		}
		if err := tx.UpsertExpense(domain.GeneralExpense{ID: "e1", Description: "Aluguel", Category: domain.ExpenseCategoryRent, Value: 1000, DueDate: "2024-05-05", Status: domain.PaymentStatusPaid}); err != nil {
			return err
		}
		return tx.UpsertExpense(domain.GeneralExpense{ID: "e2", Description: "Energia", Category: domain.ExpenseCategoryEnergy, Value: 200, DueDate: "2024-06-05", Status: domain.PaymentStatusPending})
	})
}

func newLedgerService(st *store.Store) *service.LedgerService {
	return service.NewLedgerService(st, export.NewExporter("BRL"), fixedClock("2024-06-15"), zap.NewNop())
}

func TestLedgerService_Ledger(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)
	ctx := context.Background()

	txs := svc.Ledger(ctx, service.LedgerFilters{})
	require.Len(t, txs, 3)
	assert.Equal(t, "r1", txs[0].ID)
	assert.Equal(t, "e1", txs[1].ID)
	assert.Equal(t, "k1", txs[2].ID)

	costs := svc.Ledger(ctx, service.LedgerFilters{Kind: finance.OriginCost})
	require.Len(t, costs, 1)
	assert.Equal(t, -800.0, costs[0].Value)

	assert.Empty(t, svc.Ledger(ctx, service.LedgerFilters{Month: "2024-06"}))
}

func TestLedgerService_Month(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)
	ctx := context.Background()

	may := svc.Month(ctx, "2024-05")
	assert.Equal(t, 3000.0, may.TotalIn)
	assert.Equal(t, -1800.0, may.TotalOut)
	assert.Equal(t, 1200.0, may.Balance)
	assert.Equal(t, 40.0, may.ProfitMarginPercent)

	empty := svc.Month(ctx, "2023-01")
	assert.Zero(t, empty.Balance)
	assert.Empty(t, empty.Transactions)

	months := svc.Months(ctx)
	require.Len(t, months, 1)
	assert.Equal(t, "2024-05", months[0].Month)
}

func TestLedgerService_Pending(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)

	pending := svc.Pending(context.Background(), 0)
	assert.Equal(t, 2024, pending.Year)
	assert.Equal(t, 500.0, pending.Receivable)
	assert.Equal(t, 200.0, pending.Payable)
	assert.Equal(t, 300.0, pending.NetPending)
	require.Len(t, pending.Months, 12)
	assert.Equal(t, 300.0, pending.Months[5].Net)
}

func TestLedgerService_MarkPaid(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)
	ctx := context.Background()

	require.NoError(t, svc.MarkPaid(ctx, finance.OriginRevenue, "r2"))
	require.NoError(t, svc.MarkPaid(ctx, finance.OriginExpense, "e2"))

	r, _ := st.FindRevenue("r2")
	assert.Equal(t, domain.PaymentStatusPaid, r.Status)
	assert.Len(t, svc.Ledger(ctx, service.LedgerFilters{Month: "2024-06"}), 2)

	revision := st.Revision()
	require.NoError(t, svc.MarkPaid(ctx, finance.OriginRevenue, "r2"))
	assert.Equal(t, revision, st.Revision(), "marking a paid entry again commits nothing")

	assert.ErrorIs(t, svc.MarkPaid(ctx, finance.OriginCost, "k1"), service.ErrUnsupportedKind)
	assert.ErrorIs(t, svc.MarkPaid(ctx, finance.OriginExpense, "missing"), service.ErrExpenseNotFound)
	assert.ErrorIs(t, svc.MarkPaid(ctx, finance.OriginKind("loan"), "x"), service.ErrInvalidInput)
}

func TestLedgerService_MarkPaid_SupplierDeleted(t *testing.T) {
	st := setupStore(t)
	seed(t, st, func(tx *store.Tx) error {
		if err := tx.UpsertSupplier(domain.Supplier{ID: "s1", Name: "Ferragens Silva", Category: domain.SupplierCategoryHardware, Rating: 3}); err != nil {
			return err
		}
		return tx.UpsertExpense(domain.GeneralExpense{ID: "e1", Description: "Dobradiças", Category: domain.ExpenseCategoryOther, Value: 120, DueDate: "2024-06-05", Status: domain.PaymentStatusPending, SupplierID: "s1"})
	})
	ctx := context.Background()
	require.NoError(t, service.NewSupplierService(st, zap.NewNop()).Delete(ctx, "s1"))

	svc := newLedgerService(st)
	require.NoError(t, svc.MarkPaid(ctx, finance.OriginExpense, "e1"))

	e, ok := st.FindExpense("e1")
	require.True(t, ok)
	assert.Equal(t, domain.PaymentStatusPaid, e.Status)
	assert.Equal(t, "s1", e.SupplierID)
	assert.Equal(t, -120.0, svc.Month(ctx, "2024-06").TotalOut)
}

func TestLedgerService_DeleteTransaction(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)
	ctx := context.Background()

	require.NoError(t, svc.DeleteTransaction(ctx, finance.OriginCost, "k1"))
	assert.Empty(t, st.Costs())

	project, _ := st.FindProject("p1")
	assert.Zero(t, project.RealCost)

	err := svc.DeleteTransaction(ctx, finance.OriginCost, "k1")
	assert.ErrorIs(t, err, service.ErrTransactionNotFound)

	err = svc.DeleteTransaction(ctx, finance.OriginKind("loan"), "k1")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestLedgerService_CreateEntry(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)
	ctx := context.Background()

	payable, err := svc.CreateEntry(ctx, domain.PayableInput{
		Category: domain.ExpenseCategoryTools,
		Value:    150,
		DueDate:  "2024-06-20",
		Status:   domain.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NotNil(t, payable.Expense)
	assert.Equal(t, domain.LedgerEntryPayable, payable.Kind)
	assert.Equal(t, domain.ExpenseCategoryTools.Label(), payable.Expense.Description)

	receivable, err := svc.CreateEntry(ctx, domain.ReceivableInput{
		Description: "Conserto de cadeira",
		Value:       120,
		Date:        "2024-06-12",
		Status:      domain.PaymentStatusPaid,
	})
	require.NoError(t, err)
	require.NotNil(t, receivable.Revenue)

	june := svc.Month(ctx, "2024-06")
	assert.Equal(t, 120.0, june.TotalIn)

	_, err = svc.CreateEntry(ctx, domain.ReceivableInput{
		ProjectID: "missing",
		Value:     10,
		Date:      "2024-06-12",
		Status:    domain.PaymentStatusPaid,
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestLedgerService_ExportWorkbook(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	svc := newLedgerService(st)

	data, err := svc.ExportWorkbook(context.Background(), 2024)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	month, err := f.GetCellValue("Resumo", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-05", month)
}
