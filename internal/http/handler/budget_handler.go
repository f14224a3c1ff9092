package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, logger: logger}
}

// List godoc
// @Summary List budgets
// @Description Budgets newest first, with tax amount, profit and margin
// @Tags Budgets
// @Produce json
// @Param customerId query string false "Filter by customer"
// @Param status query string false "Filter by status" Enums(DRAFT, SENT, APPROVED, REJECTED)
// @Success 200 {object} domain.ListResponse{data=[]domain.BudgetDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets [get]
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondList(w, h.budgetService.List(r.Context(), service.BudgetFilters{
		CustomerID: q.Get("customerId"),
		Status:     domain.BudgetStatus(q.Get("status")),
	}))
}

// GetByID godoc
// @Summary Get budget by ID
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.BudgetDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgetService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get budget")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// Create godoc
// @Summary Create budget
// @Description Creates a DRAFT budget. Missing multiplier and tax rate take the configured defaults.
// @Tags Budgets
// @Accept json
// @Produce json
// @Param request body domain.BudgetRequest true "Budget data"
// @Success 201 {object} domain.BudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Unknown customer or no valid price"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets [post]
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create budget")
		return
	}
	w.Header().Set("Location", "/api/v1/budgets/"+budget.ID)
	respondJSON(w, http.StatusCreated, budget)
}

// Update godoc
// @Summary Update budget
// @Description Replaces header and items and recalculates the price. The status is kept.
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.BudgetRequest true "Budget data"
// @Success 200 {object} domain.BudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update budget")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// Delete godoc
// @Summary Delete budget
// @Tags Budgets
// @Param id path string true "Budget ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.budgetService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus godoc
// @Summary Change budget status
// @Description Approving a budget locks the price of the customer's projects
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.BudgetStatusRequest true "New status"
// @Success 200 {object} domain.BudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/status [put]
func (h *BudgetHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.setStatus(w, r, req.Status)
}

// Send godoc
// @Summary Mark budget as sent
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.BudgetDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/send [post]
func (h *BudgetHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.BudgetStatusSent)
}

// Approve godoc
// @Summary Approve budget
// @Description The approved budget's final price and item total become the customer's project price
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.BudgetDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/approve [post]
func (h *BudgetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.BudgetStatusApproved)
}

// Reject godoc
// @Summary Reject budget
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.BudgetDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/reject [post]
func (h *BudgetHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.BudgetStatusRejected)
}

func (h *BudgetHandler) setStatus(w http.ResponseWriter, r *http.Request, status domain.BudgetStatus) {
	budget, err := h.budgetService.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		handleServiceError(w, h.logger, err, "change budget status")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// AddItem godoc
// @Summary Add budget item
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.BudgetItemRequest true "Item data"
// @Success 201 {object} domain.BudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/items [post]
func (h *BudgetHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.AddItem(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "add budget item")
		return
	}
	respondJSON(w, http.StatusCreated, budget)
}

// UpdateItem godoc
// @Summary Update budget item
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param index path int true "Item position, starting at 0"
// @Param request body domain.BudgetItemRequest true "Item data"
// @Success 200 {object} domain.BudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/items/{index} [put]
func (h *BudgetHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(chi.URLParam(r, "index"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid item index")
		return
	}

	var req domain.BudgetItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.UpdateItem(r.Context(), chi.URLParam(r, "id"), index, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update budget item")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// RemoveItem godoc
// @Summary Remove budget item
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Param index path int true "Item position, starting at 0"
// @Success 200 {object} domain.BudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/items/{index} [delete]
func (h *BudgetHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(chi.URLParam(r, "index"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid item index")
		return
	}

	budget, err := h.budgetService.RemoveItem(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		handleServiceError(w, h.logger, err, "remove budget item")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// QuotePDF godoc
// @Summary Download budget quote
// @Description Customer-facing PDF with the items and the final price
// @Tags Budgets
// @Produce application/pdf
// @Param id path string true "Budget ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id}/quote.pdf [get]
func (h *BudgetHandler) QuotePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := h.budgetService.QuotePDF(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "render budget quote")
		return
	}
	respondFile(w, "application/pdf", "budget-"+id+".pdf", data)
}
