package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/export"
	"github.com/woodfy/workshop-api/internal/http/handler"
	"github.com/woodfy/workshop-api/internal/http/middleware"
	"github.com/woodfy/workshop-api/internal/http/router"
	"github.com/woodfy/workshop-api/internal/metrics"
	"github.com/woodfy/workshop-api/internal/service"
	"github.com/woodfy/workshop-api/internal/storage"
	"github.com/woodfy/workshop-api/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "Workshop API", Environment: "development"},
		Auth: config.AuthConfig{Enabled: false},
		Finance: config.FinanceConfig{
			Currency:             "BRL",
			DefaultMarkupPercent: 40,
			DefaultTaxPercent:    20,
			DefaultMultiplier:    2,
			DeliveryWindowDays:   7,
		},
		Server:    config.ServerConfig{EnableMetrics: true},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Jobs:      config.JobsConfig{BackupPrefix: "backups", BackupRetention: 5},
	}
}

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	log := zap.NewNop()
	cfg := testConfig()
	now := func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	m := metrics.New()
	st := store.New(store.NewMemoryPersister(), log, store.WithObserver(m))
	require.NoError(t, st.Load(context.Background()))

	backupStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	exporter := export.NewExporter(cfg.Finance.Currency)
	budgetService := service.NewBudgetService(st, exporter, cfg.Finance, log)
	integrityService := service.NewIntegrityService(st, now, log)
	backupService := service.NewBackupService(st, backupStorage, cfg.Jobs.BackupPrefix, cfg.Jobs.BackupRetention, now, log)

	rt := router.NewRouter(cfg, log, nil, auth.NewMiddleware(&cfg.Auth, log), middleware.NewRateLimiter(&cfg.RateLimit, log), m, router.Handlers{
		Auth:     handler.NewAuthHandler(),
		Project:  handler.NewProjectHandler(service.NewProjectService(st, log), log),
		Cost:     handler.NewCostHandler(service.NewCostService(st, log), log),
		Revenue:  handler.NewRevenueHandler(service.NewRevenueService(st, log), log),
		Expense:  handler.NewExpenseHandler(service.NewExpenseService(st, log), log),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(st, log), budgetService, log),
		Supplier: handler.NewSupplierHandler(service.NewSupplierService(st, log), log),
		Budget:   handler.NewBudgetHandler(budgetService, log),
		Ledger:   handler.NewLedgerHandler(service.NewLedgerService(st, exporter, now, log), log),
		Pricing:  handler.NewPricingHandler(service.NewPricingService(cfg.Finance), log),
		Report:   handler.NewReportHandler(service.NewReportService(st, now, cfg.Finance.DeliveryWindowDays), log),
		System:   handler.NewSystemHandler(integrityService, backupService, log),
	})
	return rt.Setup()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func create(t *testing.T, h http.Handler, path string, body interface{}) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode(t, rr)["id"].(string)
}

func TestRouter_Health(t *testing.T) {
	h := setupServer(t)

	rr := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = do(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", decode(t, rr)["status"])
}

func TestRouter_ProjectCostFlow(t *testing.T) {
	h := setupServer(t)

	customerID := create(t, h, "/api/v1/customers", map[string]interface{}{"name": "Ana Souza"})

	rr := do(t, h, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"clientId":      customerID,
		"type":          "Kitchen cabinet",
		"startDate":     "2024-06-01",
		"valueSold":     5000,
		"estimatedCost": 3000,
		"paymentStatus": "PAID",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	project := decode(t, rr)
	projectID := project["id"].(string)
	assert.Equal(t, "PROJ-001", project["code"])
	assert.Equal(t, "Ana Souza", project["clientName"])
	assert.Equal(t, "/api/v1/projects/"+projectID, rr.Header().Get("Location"))

	create(t, h, "/api/v1/costs", map[string]interface{}{
		"projectId":   projectID,
		"category":    "MATERIAL",
		"description": "MDF sheets",
		"value":       800,
		"date":        "2024-06-03",
		"type":        "VARIABLE",
	})

	rr = do(t, h, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 800.0, decode(t, rr)["realCost"])

	rr = do(t, h, http.MethodGet, "/api/v1/customers/"+customerID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5000.0, decode(t, rr)["totalSpent"])

	rr = do(t, h, http.MethodDelete, "/api/v1/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode(t, rr)["removedCosts"], 1)

	rr = do(t, h, http.MethodGet, "/api/v1/costs", nil)
	assert.Equal(t, 0.0, decode(t, rr)["total"])
}

func TestRouter_ValidationAndErrorMapping(t *testing.T) {
	h := setupServer(t)

	t.Run("validation errors use json field names", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/v1/customers", map[string]interface{}{"email": "not-an-email"})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "validation_error", body["type"])
		fields := body["errors"].(map[string]interface{})
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/v1/customers", "{")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/api/v1/budgets/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decode(t, rr)["type"])
	})

	t.Run("unknown reference", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/v1/projects", map[string]interface{}{
			"clientId":  "ghost",
			"type":      "Wardrobe",
			"startDate": "2024-06-01",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("bad month", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/api/v1/ledger?month=June", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRouter_ApprovedBudgetLocksProjectPrice(t *testing.T) {
	h := setupServer(t)

	customerID := create(t, h, "/api/v1/customers", map[string]interface{}{"name": "Bruno Lima"})
	projectID := create(t, h, "/api/v1/projects", map[string]interface{}{
		"clientId":  customerID,
		"type":      "Wardrobe",
		"startDate": "2024-06-01",
		"valueSold": 700,
	})

	rr := do(t, h, http.MethodPost, "/api/v1/budgets", map[string]interface{}{
		"customerId": customerID,
		"date":       "2024-06-02",
		"items": []map[string]interface{}{
			{"description": "Wardrobe", "quantity": 1, "unitPrice": 400},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	budget := decode(t, rr)
	budgetID := budget["id"].(string)
	assert.Equal(t, 1000.0, budget["finalPrice"])
	assert.Equal(t, "DRAFT", budget["status"])

	rr = do(t, h, http.MethodPost, "/api/v1/budgets/"+budgetID+"/approve", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	project := decode(t, rr)
	assert.Equal(t, 1000.0, project["valueSold"])
	assert.Equal(t, 400.0, project["estimatedCost"])
	assert.Equal(t, true, project["locked"])

	rr = do(t, h, http.MethodPut, "/api/v1/projects/"+projectID, map[string]interface{}{
		"clientId":      customerID,
		"type":          "Wardrobe",
		"startDate":     "2024-06-01",
		"valueSold":     1200,
		"status":        "IN_PROGRESS",
		"paymentStatus": "PENDING",
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "locked", decode(t, rr)["type"])

	rr = do(t, h, http.MethodGet, "/api/v1/customers/"+customerID+"/approved-budget", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, budgetID, decode(t, rr)["id"])

	rr = do(t, h, http.MethodGet, "/api/v1/budgets/"+budgetID+"/quote.pdf", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"))
}

func TestRouter_BudgetItems(t *testing.T) {
	h := setupServer(t)

	customerID := create(t, h, "/api/v1/customers", map[string]interface{}{"name": "Carla Dias"})
	budgetID := create(t, h, "/api/v1/budgets", map[string]interface{}{
		"customerId": customerID,
		"date":       "2024-06-02",
		"items":      []map[string]interface{}{},
	})

	rr := do(t, h, http.MethodPost, "/api/v1/budgets/"+budgetID+"/items", map[string]interface{}{
		"description": "Shelf", "quantity": 2, "unitPrice": 100,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, 200.0, decode(t, rr)["totalCost"])

	rr = do(t, h, http.MethodPut, "/api/v1/budgets/"+budgetID+"/items/0", map[string]interface{}{
		"description": "Shelf", "quantity": 3, "unitPrice": 100,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 300.0, decode(t, rr)["totalCost"])

	rr = do(t, h, http.MethodDelete, "/api/v1/budgets/"+budgetID+"/items/5", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/v1/budgets/"+budgetID+"/items/x", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/v1/budgets/"+budgetID+"/items/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0.0, decode(t, rr)["totalCost"])
}

func TestRouter_RevenueTaggedPayload(t *testing.T) {
	h := setupServer(t)

	rr := do(t, h, http.MethodPost, "/api/v1/revenues", map[string]interface{}{
		"kind": "gift", "value": 10, "date": "2024-06-01", "status": "PAID",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/v1/revenues", map[string]interface{}{
		"kind": "standalone", "value": 10, "date": "2024-06-01", "status": "PAID",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode(t, rr)["errors"], "description")

	id := create(t, h, "/api/v1/revenues", map[string]interface{}{
		"kind": "standalone", "description": "Scrap sale", "value": 150,
		"paymentMethod": "PIX", "date": "2024-06-01", "status": "PAID",
	})

	rr = do(t, h, http.MethodGet, "/api/v1/ledger?month=2024-06&kind=revenue", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.Equal(t, 1.0, body["total"])
	tx := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, id, tx["id"])
	assert.Equal(t, 150.0, tx["value"])
}

func TestRouter_LedgerActions(t *testing.T) {
	h := setupServer(t)

	rr := do(t, h, http.MethodPost, "/api/v1/ledger/entries", map[string]interface{}{
		"kind": "payable", "category": "RENT", "value": 1200, "dueDate": "2024-06-10", "status": "PENDING",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	entry := decode(t, rr)
	expense := entry["expense"].(map[string]interface{})
	assert.Equal(t, "Aluguel", expense["description"])
	expenseID := expense["id"].(string)

	rr = do(t, h, http.MethodGet, "/api/v1/ledger/pending?year=2024", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/v1/ledger/expense/"+expenseID+"/paid", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/ledger/months/2024-06", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1200.0, decode(t, rr)["totalOut"])

	costID := create(t, h, "/api/v1/costs", map[string]interface{}{
		"category": "TRANSPORT", "description": "Freight", "value": 90, "date": "2024-06-04", "type": "VARIABLE",
	})
	rr = do(t, h, http.MethodPost, "/api/v1/ledger/cost/"+costID+"/paid", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/v1/ledger/cost/"+costID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/v1/ledger/cost/"+costID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/ledger/export.xlsx?year=2024", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "ledger-2024.xlsx")
}

func TestRouter_Pricing(t *testing.T) {
	h := setupServer(t)

	rr := do(t, h, http.MethodGet, "/api/v1/pricing/defaults", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 40.0, decode(t, rr)["markupPercent"])

	rr = do(t, h, http.MethodPost, "/api/v1/pricing/simulate", map[string]interface{}{
		"cost": 100, "markupPercent": 40, "taxPercent": 20,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 250.0, decode(t, rr)["price"])

	rr = do(t, h, http.MethodPost, "/api/v1/pricing/simulate", map[string]interface{}{
		"cost": 100, "markupPercent": 60, "taxPercent": 40,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/v1/pricing/budget", map[string]interface{}{
		"cost": 400, "multiplier": 2, "taxPercent": 20,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1000.0, decode(t, rr)["price"])
}

func TestRouter_ReportsAndSystem(t *testing.T) {
	h := setupServer(t)

	for _, path := range []string{
		"/api/v1/reports/dashboard",
		"/api/v1/reports/revenue-vs-cost?months=3",
		"/api/v1/reports/project-margins",
		"/api/v1/reports/expense-breakdown?month=2024-06",
		"/api/v1/reports/annual-profit?year=2024",
		"/api/v1/reports/revenue-by-customer",
		"/api/v1/reports/payment-methods",
		"/api/v1/reports/upcoming-deliveries",
		"/api/v1/system/integrity",
		"/api/v1/auth/me",
	} {
		rr := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr := do(t, h, http.MethodGet, "/api/v1/reports/revenue-vs-cost?months=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/v1/system/backups", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(decode(t, rr)["key"].(string), "backups/"))

	rr = do(t, h, http.MethodGet, "/api/v1/system/backups", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1.0, decode(t, rr)["total"])

	rr = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "workshop_store_revision")
}
