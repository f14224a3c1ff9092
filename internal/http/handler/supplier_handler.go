package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type SupplierHandler struct {
	supplierService *service.SupplierService
	logger          *zap.Logger
}

func NewSupplierHandler(supplierService *service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, logger: logger}
}

// List godoc
// @Summary List suppliers
// @Description Suppliers ordered by rating, best first
// @Tags Suppliers
// @Produce json
// @Param category query string false "Filter by category" Enums(MDF, HARDWARE, TOOLS, SERVICES, OTHER)
// @Success 200 {object} domain.ListResponse{data=[]domain.Supplier}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers [get]
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	category := domain.SupplierCategory(r.URL.Query().Get("category"))
	respondList(w, h.supplierService.List(r.Context(), category))
}

// GetByID godoc
// @Summary Get supplier by ID
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} domain.Supplier
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.supplierService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "get supplier")
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Create godoc
// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body domain.SupplierRequest true "Supplier data"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create supplier")
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID"
// @Param request body domain.SupplierRequest true "Supplier data"
// @Success 200 {object} domain.Supplier
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.supplierService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update supplier")
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Delete godoc
// @Summary Delete supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.supplierService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete supplier")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
