package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/store"
)

// CostFilters narrows a cost listing. Month is YYYY-MM.
type CostFilters struct {
	ProjectID  string
	SupplierID string
	Category   domain.CostCategory
	Month      string
}

func (f CostFilters) match(c domain.Cost) bool {
	if f.ProjectID != "" && c.ProjectID != f.ProjectID {
		return false
	}
	if f.SupplierID != "" && c.SupplierID != f.SupplierID {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Month != "" && finance.Month(c.Date) != f.Month {
		return false
	}
	return true
}

// CostService handles business logic for project and workshop costs. Every
// change rolls up into the owning project's real cost on commit.
type CostService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCostService creates a new cost service instance
func NewCostService(st *store.Store, logger *zap.Logger) *CostService {
	return &CostService{store: st, logger: logger}
}

// List returns the costs matching filters, newest first
func (s *CostService) List(ctx context.Context, filters CostFilters) []domain.Cost {
	out := []domain.Cost{}
	for _, c := range s.store.Costs() {
		if filters.match(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// GetByID retrieves a cost by ID
func (s *CostService) GetByID(ctx context.Context, id string) (*domain.Cost, error) {
	cost, ok := s.store.FindCost(id)
	if !ok {
		return nil, ErrCostNotFound
	}
	return &cost, nil
}

// Create records a new cost
func (s *CostService) Create(ctx context.Context, req *domain.CostRequest) (*domain.Cost, error) {
	cost := costFromRequest(newID(), req)
	if _, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.UpsertCost(cost)
	}); err != nil {
		return nil, fmt.Errorf("failed to create cost: %w", err)
	}

	s.logger.Info("cost created",
		zap.String("id", cost.ID),
		zap.String("project_id", cost.ProjectID),
		zap.Float64("value", cost.Value),
		zap.String("actor", auth.Actor(ctx)),
	)
	return &cost, nil
}

// Update replaces an existing cost
func (s *CostService) Update(ctx context.Context, id string, req *domain.CostRequest) (*domain.Cost, error) {
	cost := costFromRequest(id, req)
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		if _, ok := tx.FindCost(id); !ok {
			return ErrCostNotFound
		}
		return tx.UpsertCost(cost)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update cost: %w", err)
	}

	s.logger.Info("cost updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return &cost, nil
}

// Delete removes a cost
func (s *CostService) Delete(ctx context.Context, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(domain.CollectionCosts, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrCostNotFound
		}
		return fmt.Errorf("failed to delete cost: %w", err)
	}

	s.logger.Info("cost deleted", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return nil
}

func costFromRequest(id string, req *domain.CostRequest) domain.Cost {
	return domain.Cost{
		ID:            id,
		ProjectID:     req.ProjectID,
		Category:      req.Category,
		Description:   req.Description,
		Value:         req.Value,
		Date:          req.Date,
		Type:          req.Type,
		SupplierID:    req.SupplierID,
		PaymentMethod: req.PaymentMethod,
	}
}
