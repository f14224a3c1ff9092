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

// RevenueFilters narrows a revenue listing
type RevenueFilters struct {
	ProjectID string
	Status    domain.PaymentStatus
	Month     string
}

func (f RevenueFilters) match(r domain.Revenue) bool {
	if f.ProjectID != "" && r.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Month != "" && finance.Month(r.Date) != f.Month {
		return false
	}
	return true
}

// RevenueService handles business logic for revenues, both project payments
// and standalone income
type RevenueService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewRevenueService creates a new revenue service instance
func NewRevenueService(st *store.Store, logger *zap.Logger) *RevenueService {
	return &RevenueService{store: st, logger: logger}
}

// List returns the revenues matching filters, newest first
func (s *RevenueService) List(ctx context.Context, filters RevenueFilters) []domain.Revenue {
	out := []domain.Revenue{}
	for _, r := range s.store.Revenues() {
		if filters.match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// GetByID retrieves a revenue by ID
func (s *RevenueService) GetByID(ctx context.Context, id string) (*domain.Revenue, error) {
	revenue, ok := s.store.FindRevenue(id)
	if !ok {
		return nil, ErrRevenueNotFound
	}
	return &revenue, nil
}

// Create records a revenue from either form variant
func (s *RevenueService) Create(ctx context.Context, in domain.RevenueInput) (*domain.Revenue, error) {
	revenue := in.ToRevenue(newID())
	if _, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.UpsertRevenue(revenue)
	}); err != nil {
		return nil, fmt.Errorf("failed to create revenue: %w", err)
	}

	s.logger.Info("revenue created",
		zap.String("id", revenue.ID),
		zap.String("kind", string(in.RevenueKind())),
		zap.Float64("value", revenue.Value),
		zap.String("actor", auth.Actor(ctx)),
	)
	return &revenue, nil
}

// Update replaces an existing revenue. The variant may change, e.g. a
// standalone income later attributed to a project.
func (s *RevenueService) Update(ctx context.Context, id string, in domain.RevenueInput) (*domain.Revenue, error) {
	revenue := in.ToRevenue(id)
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		if _, ok := tx.FindRevenue(id); !ok {
			return ErrRevenueNotFound
		}
		return tx.UpsertRevenue(revenue)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update revenue: %w", err)
	}

	s.logger.Info("revenue updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return &revenue, nil
}

// Delete removes a revenue
func (s *RevenueService) Delete(ctx context.Context, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(domain.CollectionRevenues, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrRevenueNotFound
		}
		return fmt.Errorf("failed to delete revenue: %w", err)
	}

	s.logger.Info("revenue deleted", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return nil
}
