package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
)

type PricingHandler struct {
	pricingService *service.PricingService
	logger         *zap.Logger
}

func NewPricingHandler(pricingService *service.PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, logger: logger}
}

// Defaults godoc
// @Summary Price calculator defaults
// @Tags Pricing
// @Produce json
// @Success 200 {object} service.PricingDefaults
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing/defaults [get]
func (h *PricingHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pricingService.Defaults(r.Context()))
}

// Simulate godoc
// @Summary Simulate a price from a markup
// @Description price = cost / (1 - (markup + tax) / 100)
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body domain.SimulatePriceRequest true "Cost and rates"
// @Success 200 {object} domain.PriceQuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Markup and tax reach 100%"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing/simulate [post]
func (h *PricingHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req domain.SimulatePriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.pricingService.Simulate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "simulate price")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// BudgetPrice godoc
// @Summary Price a budget from a multiplier
// @Description price = cost * multiplier / (1 - tax / 100)
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body domain.BudgetPriceRequest true "Cost, multiplier and tax"
// @Success 200 {object} domain.PriceQuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Tax reaches 100%"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing/budget [post]
func (h *PricingHandler) BudgetPrice(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetPriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.pricingService.BudgetPrice(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "compute budget price")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}
