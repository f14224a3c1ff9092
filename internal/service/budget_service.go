package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/export"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/mapper"
	"github.com/woodfy/workshop-api/internal/store"
)

// BudgetFilters narrows a budget listing
type BudgetFilters struct {
	CustomerID string
	Status     domain.BudgetStatus
}

// BudgetService manages price quotes. Every change recalculates the item
// totals and the final price; approving a budget locks the price of the
// customer's projects on commit.
type BudgetService struct {
	store    *store.Store
	exporter *export.Exporter
	defaults config.FinanceConfig
	logger   *zap.Logger
}

// NewBudgetService creates a new budget service instance
func NewBudgetService(st *store.Store, exporter *export.Exporter, defaults config.FinanceConfig, logger *zap.Logger) *BudgetService {
	return &BudgetService{store: st, exporter: exporter, defaults: defaults, logger: logger}
}

// List returns budgets matching filters, newest first
func (s *BudgetService) List(ctx context.Context, filters BudgetFilters) []domain.BudgetDTO {
	names := s.customerNames()
	out := []domain.BudgetDTO{}
	for _, b := range s.store.Budgets() {
		if filters.CustomerID != "" && b.CustomerID != filters.CustomerID {
			continue
		}
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}
		out = append(out, mapper.ToBudgetDTO(b, names[b.CustomerID]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// GetByID retrieves a budget by ID
func (s *BudgetService) GetByID(ctx context.Context, id string) (*domain.BudgetDTO, error) {
	budget, ok := s.store.FindBudget(id)
	if !ok {
		return nil, ErrBudgetNotFound
	}
	dto := mapper.ToBudgetDTO(budget, s.customerName(budget.CustomerID))
	return &dto, nil
}

// Create creates a DRAFT budget
func (s *BudgetService) Create(ctx context.Context, req *domain.BudgetRequest) (*domain.BudgetDTO, error) {
	budget := domain.Budget{
		ID:             newID(),
		CustomerID:     req.CustomerID,
		Title:          req.Title,
		Date:           req.Date,
		Items:          itemsFromRequest(req.Items),
		Multiplier:     s.multiplier(req.Multiplier),
		TaxRatePercent: s.taxRate(req.TaxRatePercent),
		Status:         domain.BudgetStatusDraft,
	}

	if _, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return upsertRecalculated(tx, budget)
	}); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	s.logger.Info("budget created", zap.String("id", budget.ID), zap.String("actor", auth.Actor(ctx)))
	return s.GetByID(ctx, budget.ID)
}

// Update replaces a budget's header and items, keeping its status
func (s *BudgetService) Update(ctx context.Context, id string, req *domain.BudgetRequest) (*domain.BudgetDTO, error) {
	err := s.edit(ctx, id, func(b *domain.Budget) error {
		b.CustomerID = req.CustomerID
		b.Title = req.Title
		b.Date = req.Date
		b.Items = itemsFromRequest(req.Items)
		b.Multiplier = s.multiplier(req.Multiplier)
		b.TaxRatePercent = s.taxRate(req.TaxRatePercent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("budget updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return s.GetByID(ctx, id)
}

// AddItem appends a line to a budget
func (s *BudgetService) AddItem(ctx context.Context, id string, req *domain.BudgetItemRequest) (*domain.BudgetDTO, error) {
	err := s.edit(ctx, id, func(b *domain.Budget) error {
		b.Items = append(b.Items, itemsFromRequest([]domain.BudgetItemRequest{*req})...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdateItem replaces the line at index
func (s *BudgetService) UpdateItem(ctx context.Context, id string, index int, req *domain.BudgetItemRequest) (*domain.BudgetDTO, error) {
	err := s.edit(ctx, id, func(b *domain.Budget) error {
		if index < 0 || index >= len(b.Items) {
			return ErrBudgetItemNotFound
		}
		b.Items[index] = itemsFromRequest([]domain.BudgetItemRequest{*req})[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// RemoveItem deletes the line at index
func (s *BudgetService) RemoveItem(ctx context.Context, id string, index int) (*domain.BudgetDTO, error) {
	err := s.edit(ctx, id, func(b *domain.Budget) error {
		if index < 0 || index >= len(b.Items) {
			return ErrBudgetItemNotFound
		}
		b.Items = append(b.Items[:index], b.Items[index+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// SetStatus moves a budget to status. Approving or revoking an approval
// re-resolves the price lock of the customer's projects.
func (s *BudgetService) SetStatus(ctx context.Context, id string, status domain.BudgetStatus) (*domain.BudgetDTO, error) {
	var previous domain.BudgetStatus
	err := s.edit(ctx, id, func(b *domain.Budget) error {
		previous = b.Status
		b.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("budget status changed",
		zap.String("id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("actor", auth.Actor(ctx)),
	)
	return s.GetByID(ctx, id)
}

// Delete removes a budget
func (s *BudgetService) Delete(ctx context.Context, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(domain.CollectionBudgets, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	s.logger.Info("budget deleted", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return nil
}

// ApprovedFor returns the budget that holds the price of a customer's
// projects: the most recent APPROVED one
func (s *BudgetService) ApprovedFor(ctx context.Context, customerID string) (*domain.BudgetDTO, error) {
	budget, ok := finance.ResolveApprovedBudget(s.store.Budgets(), customerID)
	if !ok {
		return nil, ErrBudgetNotFound
	}
	dto := mapper.ToBudgetDTO(budget, s.customerName(customerID))
	return &dto, nil
}

// QuotePDF renders the customer quote of a budget
func (s *BudgetService) QuotePDF(ctx context.Context, id string) ([]byte, error) {
	budget, ok := s.store.FindBudget(id)
	if !ok {
		return nil, ErrBudgetNotFound
	}
	data, err := s.exporter.BudgetQuotePDF(budget, s.customerName(budget.CustomerID))
	if err != nil {
		s.logger.Error("failed to render budget quote", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// edit loads a budget inside a mutation, applies fn and saves the
// recalculated result
func (s *BudgetService) edit(ctx context.Context, id string, fn func(b *domain.Budget) error) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		budget, ok := tx.FindBudget(id)
		if !ok {
			return ErrBudgetNotFound
		}
		if err := fn(&budget); err != nil {
			return err
		}
		return upsertRecalculated(tx, budget)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoValidPrice) {
			return err
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

func (s *BudgetService) multiplier(v float64) float64 {
	if v == 0 {
		return s.defaults.DefaultMultiplier
	}
	return v
}

func (s *BudgetService) taxRate(v *float64) float64 {
	return valueOr(v, s.defaults.DefaultTaxPercent)
}

func upsertRecalculated(tx *store.Tx, budget domain.Budget) error {
	recalculated, err := finance.RecalculateBudget(budget)
	if err != nil {
		return err
	}
	return tx.UpsertBudget(recalculated)
}

func (s *BudgetService) customerName(id string) string {
	if c, ok := s.store.FindCustomer(id); ok {
		return c.Name
	}
	return ""
}

func (s *BudgetService) customerNames() map[string]string {
	names := make(map[string]string)
	for _, c := range s.store.Customers() {
		names[c.ID] = c.Name
	}
	return names
}

func itemsFromRequest(reqs []domain.BudgetItemRequest) []domain.BudgetItem {
	items := make([]domain.BudgetItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.BudgetItem{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		}
	}
	return items
}
