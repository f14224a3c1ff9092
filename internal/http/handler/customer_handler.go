package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	budgetService   *service.BudgetService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, budgetService *service.BudgetService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		budgetService:   budgetService,
		logger:          logger,
	}
}

// List godoc
// @Summary List customers
// @Description Customers ordered by name, with the derived total spent and last order date
// @Tags Customers
// @Produce json
// @Param search query string false "Match against name, email or phone"
// @Success 200 {object} domain.ListResponse{data=[]domain.Customer}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.customerService.List(r.Context(), r.URL.Query().Get("search")))
}

// GetByID godoc
// @Summary Get customer by ID
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// ApprovedBudget godoc
// @Summary Get the customer's approved budget
// @Description The most recent APPROVED budget, which holds the price of the customer's projects
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} domain.BudgetDTO
// @Failure 404 {object} domain.APIError "No approved budget"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id}/approved-budget [get]
func (h *CustomerHandler) ApprovedBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgetService.ApprovedFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get approved budget")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// Create godoc
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body domain.CustomerRequest true "Customer data"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create customer")
		return
	}
	w.Header().Set("Location", "/api/v1/customers/"+customer.ID)
	respondJSON(w, http.StatusCreated, customer)
}

// Update godoc
// @Summary Update customer
// @Description A new name is copied onto the customer's projects
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body domain.CustomerRequest true "Customer data"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Delete godoc
// @Summary Delete customer
// @Description Projects and budgets of the customer are kept and reported by the integrity check
// @Tags Customers
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customerService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
