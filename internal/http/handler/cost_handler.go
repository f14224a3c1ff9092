package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type CostHandler struct {
	costService *service.CostService
	logger      *zap.Logger
}

func NewCostHandler(costService *service.CostService, logger *zap.Logger) *CostHandler {
	return &CostHandler{costService: costService, logger: logger}
}

// List godoc
// @Summary List costs
// @Tags Costs
// @Produce json
// @Param projectId query string false "Filter by project"
// @Param supplierId query string false "Filter by supplier"
// @Param category query string false "Filter by category" Enums(MATERIAL, LABOR, TRANSPORT, THIRD_PARTY)
// @Param month query string false "Filter by month (YYYY-MM)"
// @Success 200 {object} domain.ListResponse{data=[]domain.Cost}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /costs [get]
func (h *CostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondList(w, h.costService.List(r.Context(), service.CostFilters{
		ProjectID:  q.Get("projectId"),
		SupplierID: q.Get("supplierId"),
		Category:   domain.CostCategory(q.Get("category")),
		Month:      q.Get("month"),
	}))
}

// GetByID godoc
// @Summary Get cost by ID
// @Tags Costs
// @Produce json
// @Param id path string true "Cost ID"
// @Success 200 {object} domain.Cost
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /costs/{id} [get]
func (h *CostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	cost, err := h.costService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get cost")
		return
	}
	respondJSON(w, http.StatusOK, cost)
}

// Create godoc
// @Summary Create cost
// @Description Records a cost; a project cost updates the project's real cost
// @Tags Costs
// @Accept json
// @Produce json
// @Param request body domain.CostRequest true "Cost data"
// @Success 201 {object} domain.Cost
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Unknown project or supplier"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /costs [post]
func (h *CostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cost, err := h.costService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create cost")
		return
	}
	respondJSON(w, http.StatusCreated, cost)
}

// Update godoc
// @Summary Update cost
// @Tags Costs
// @Accept json
// @Produce json
// @Param id path string true "Cost ID"
// @Param request body domain.CostRequest true "Cost data"
// @Success 200 {object} domain.Cost
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /costs/{id} [put]
func (h *CostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.CostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cost, err := h.costService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update cost")
		return
	}
	respondJSON(w, http.StatusOK, cost)
}

// Delete godoc
// @Summary Delete cost
// @Tags Costs
// @Param id path string true "Cost ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /costs/{id} [delete]
func (h *CostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.costService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete cost")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
