package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type RevenueHandler struct {
	revenueService *service.RevenueService
	logger         *zap.Logger
}

func NewRevenueHandler(revenueService *service.RevenueService, logger *zap.Logger) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService, logger: logger}
}

// decodeRevenue reads a {"kind": "project"|"standalone"} payload
func decodeRevenue(w http.ResponseWriter, r *http.Request) (domain.RevenueInput, bool) {
	raw, ok := readBody(w, r)
	if !ok {
		return nil, false
	}
	in, err := domain.DecodeRevenueInput(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "kind must be \"project\" or \"standalone\"")
		return nil, false
	}
	if !validateRequest(w, in) {
		return nil, false
	}
	return in, true
}

// List godoc
// @Summary List revenues
// @Tags Revenues
// @Produce json
// @Param projectId query string false "Filter by project"
// @Param status query string false "Filter by status" Enums(PENDING, PAID, OVERDUE)
// @Param month query string false "Filter by month (YYYY-MM)"
// @Success 200 {object} domain.ListResponse{data=[]domain.Revenue}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /revenues [get]
func (h *RevenueHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondList(w, h.revenueService.List(r.Context(), service.RevenueFilters{
		ProjectID: q.Get("projectId"),
		Status:    domain.PaymentStatus(q.Get("status")),
		Month:     q.Get("month"),
	}))
}

// GetByID godoc
// @Summary Get revenue by ID
// @Tags Revenues
// @Produce json
// @Param id path string true "Revenue ID"
// @Success 200 {object} domain.Revenue
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /revenues/{id} [get]
func (h *RevenueHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.revenueService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get revenue")
		return
	}
	respondJSON(w, http.StatusOK, revenue)
}

// Create godoc
// @Summary Create revenue
// @Description Body is tagged by kind: "project" needs projectId, "standalone" needs a description
// @Tags Revenues
// @Accept json
// @Produce json
// @Param request body domain.ProjectRevenueInput true "Revenue data with kind"
// @Success 201 {object} domain.Revenue
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Unknown project"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /revenues [post]
func (h *RevenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeRevenue(w, r)
	if !ok {
		return
	}

	revenue, err := h.revenueService.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, h.logger, err, "create revenue")
		return
	}
	respondJSON(w, http.StatusCreated, revenue)
}

// Update godoc
// @Summary Update revenue
// @Tags Revenues
// @Accept json
// @Produce json
// @Param id path string true "Revenue ID"
// @Param request body domain.ProjectRevenueInput true "Revenue data with kind"
// @Success 200 {object} domain.Revenue
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /revenues/{id} [put]
func (h *RevenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeRevenue(w, r)
	if !ok {
		return
	}

	revenue, err := h.revenueService.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleServiceError(w, h.logger, err, "update revenue")
		return
	}
	respondJSON(w, http.StatusOK, revenue)
}

// Delete godoc
// @Summary Delete revenue
// @Tags Revenues
// @Param id path string true "Revenue ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /revenues/{id} [delete]
func (h *RevenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.revenueService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete revenue")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
