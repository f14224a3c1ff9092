package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
	logger         *zap.Logger
}

func NewExpenseHandler(expenseService *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, logger: logger}
}

// List godoc
// @Summary List general expenses
// @Tags Expenses
// @Produce json
// @Param category query string false "Filter by category" Enums(RENT, ENERGY, MARKETING, TOOLS, TAXES, OTHER)
// @Param status query string false "Filter by status" Enums(PENDING, PAID, OVERDUE)
// @Param month query string false "Filter by due month (YYYY-MM)"
// @Success 200 {object} domain.ListResponse{data=[]domain.GeneralExpense}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondList(w, h.expenseService.List(r.Context(), service.ExpenseFilters{
		Category: domain.ExpenseCategory(q.Get("category")),
		Status:   domain.PaymentStatus(q.Get("status")),
		Month:    q.Get("month"),
	}))
}

// GetByID godoc
// @Summary Get expense by ID
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.GeneralExpense
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenseService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get expense")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

// Create godoc
// @Summary Create expense
// @Description The description defaults to the category label unless the category is OTHER
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body domain.ExpenseRequest true "Expense data"
// @Success 201 {object} domain.GeneralExpense
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// Update godoc
// @Summary Update expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body domain.ExpenseRequest true "Expense data"
// @Success 200 {object} domain.GeneralExpense
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update expense")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete expense
// @Tags Expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.expenseService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
