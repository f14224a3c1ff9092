package service

import (
	"context"
	"fmt"

	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/mapper"
)

// PricingDefaults prefills the price calculators
type PricingDefaults struct {
	Currency      string  `json:"currency"`
	MarkupPercent float64 `json:"markupPercent"`
	TaxPercent    float64 `json:"taxPercent"`
	Multiplier    float64 `json:"multiplier"`
}

// PricingService exposes the two pricing formulas. It holds no state.
type PricingService struct {
	defaults config.FinanceConfig
}

// NewPricingService creates a new pricing service instance
func NewPricingService(defaults config.FinanceConfig) *PricingService {
	return &PricingService{defaults: defaults}
}

// Defaults returns the configured calculator defaults
func (s *PricingService) Defaults(ctx context.Context) PricingDefaults {
	return PricingDefaults{
		Currency:      s.defaults.Currency,
		MarkupPercent: s.defaults.DefaultMarkupPercent,
		TaxPercent:    s.defaults.DefaultTaxPercent,
		Multiplier:    s.defaults.DefaultMultiplier,
	}
}

// Simulate applies the margin-based formula
func (s *PricingService) Simulate(ctx context.Context, req *domain.SimulatePriceRequest) (*domain.PriceQuoteDTO, error) {
	q, err := finance.SimulatePrice(req.Cost, req.MarkupPercent, req.TaxPercent)
	if err != nil {
		return nil, fmt.Errorf("%w: markup %.2f%% + tax %.2f%%", ErrNoValidPrice, req.MarkupPercent, req.TaxPercent)
	}
	dto := mapper.ToPriceQuoteDTO(q)
	return &dto, nil
}

// BudgetPrice applies the multiplier-based formula
func (s *PricingService) BudgetPrice(ctx context.Context, req *domain.BudgetPriceRequest) (*domain.PriceQuoteDTO, error) {
	q, err := finance.ComputeBudgetPrice(req.Cost, req.Multiplier, req.TaxPercent)
	if err != nil {
		return nil, fmt.Errorf("%w: tax %.2f%%", ErrNoValidPrice, req.TaxPercent)
	}
	dto := mapper.ToPriceQuoteDTO(q)
	return &dto, nil
}
