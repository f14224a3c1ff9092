package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/database"
	"github.com/woodfy/workshop-api/internal/http/handler"
	"github.com/woodfy/workshop-api/internal/http/middleware"
	"github.com/woodfy/workshop-api/internal/metrics"

	_ "github.com/woodfy/workshop-api/docs" // Import generated swagger docs
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Auth     *handler.AuthHandler
	Project  *handler.ProjectHandler
	Cost     *handler.CostHandler
	Revenue  *handler.RevenueHandler
	Expense  *handler.ExpenseHandler
	Customer *handler.CustomerHandler
	Supplier *handler.SupplierHandler
	Budget   *handler.BudgetHandler
	Ledger   *handler.LedgerHandler
	Pricing  *handler.PricingHandler
	Report   *handler.ReportHandler
	System   *handler.SystemHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	metrics        *metrics.Metrics
	handlers       Handlers
}

// NewRouter wires the HTTP surface. db may be nil when snapshots are not
// kept in a database; the readiness probe then skips the database check.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	m *metrics.Metrics,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		metrics:        m,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/health/ready", rt.ready)

	if rt.cfg.Server.EnableMetrics && rt.metrics != nil {
		r.Handle("/metrics", rt.metrics.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers
	r.Route("/api/v1", func(r chi.Router) {
		if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
			r.Use(chimw.Timeout(timeout))
		}
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.authMiddleware.RequireWrite)

		r.Get("/auth/me", h.Auth.Me)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Project.List)
			r.Post("/", h.Project.Create)
			r.Post("/draft", h.Project.Draft)
			r.Get("/{id}", h.Project.GetByID)
			r.Put("/{id}", h.Project.Update)
			r.Delete("/{id}", h.Project.Delete)
		})

		r.Route("/costs", func(r chi.Router) {
			r.Get("/", h.Cost.List)
			r.Post("/", h.Cost.Create)
			r.Get("/{id}", h.Cost.GetByID)
			r.Put("/{id}", h.Cost.Update)
			r.Delete("/{id}", h.Cost.Delete)
		})

		r.Route("/revenues", func(r chi.Router) {
			r.Get("/", h.Revenue.List)
			r.Post("/", h.Revenue.Create)
			r.Get("/{id}", h.Revenue.GetByID)
			r.Put("/{id}", h.Revenue.Update)
			r.Delete("/{id}", h.Revenue.Delete)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.Expense.List)
			r.Post("/", h.Expense.Create)
			r.Get("/{id}", h.Expense.GetByID)
			r.Put("/{id}", h.Expense.Update)
			r.Delete("/{id}", h.Expense.Delete)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.Customer.List)
			r.Post("/", h.Customer.Create)
			r.Get("/{id}", h.Customer.GetByID)
			r.Put("/{id}", h.Customer.Update)
			r.Delete("/{id}", h.Customer.Delete)
			r.Get("/{id}/approved-budget", h.Customer.ApprovedBudget)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.Supplier.List)
			r.Post("/", h.Supplier.Create)
			r.Get("/{id}", h.Supplier.GetByID)
			r.Put("/{id}", h.Supplier.Update)
			r.Delete("/{id}", h.Supplier.Delete)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", h.Budget.List)
			r.Post("/", h.Budget.Create)
			r.Get("/{id}", h.Budget.GetByID)
			r.Put("/{id}", h.Budget.Update)
			r.Delete("/{id}", h.Budget.Delete)

			// Lifecycle endpoints
			r.Put("/{id}/status", h.Budget.UpdateStatus)
			r.Post("/{id}/send", h.Budget.Send)
			r.Post("/{id}/approve", h.Budget.Approve)
			r.Post("/{id}/reject", h.Budget.Reject)

			r.Post("/{id}/items", h.Budget.AddItem)
			r.Put("/{id}/items/{index}", h.Budget.UpdateItem)
			r.Delete("/{id}/items/{index}", h.Budget.RemoveItem)

			r.Get("/{id}/quote.pdf", h.Budget.QuotePDF)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", h.Ledger.List)
			r.Get("/months", h.Ledger.Months)
			r.Get("/months/{month}", h.Ledger.Month)
			r.Get("/pending", h.Ledger.Pending)
			r.Get("/export.xlsx", h.Ledger.ExportWorkbook)
			r.Post("/entries", h.Ledger.CreateEntry)
			r.Post("/{kind}/{id}/paid", h.Ledger.MarkPaid)
			r.Delete("/{kind}/{id}", h.Ledger.Delete)
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/defaults", h.Pricing.Defaults)
			r.Post("/simulate", h.Pricing.Simulate)
			r.Post("/budget", h.Pricing.BudgetPrice)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", h.Report.Dashboard)
			r.Get("/revenue-vs-cost", h.Report.RevenueVsCost)
			r.Get("/project-margins", h.Report.ProjectMargins)
			r.Get("/expense-breakdown", h.Report.ExpenseBreakdown)
			r.Get("/annual-profit", h.Report.AnnualProfit)
			r.Get("/revenue-by-customer", h.Report.RevenueByCustomer)
			r.Get("/payment-methods", h.Report.PaymentMethods)
			r.Get("/upcoming-deliveries", h.Report.UpcomingDeliveries)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/integrity", h.System.Integrity)
			r.Get("/backups", h.System.ListBackups)
			r.Post("/backups", h.System.CreateBackup)
		})
	})

	return r
}

// ready is the readiness probe. It reports the snapshot database when one
// is configured.
func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if rt.db != nil {
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
