package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/store"
)

// SupplierService handles business logic for suppliers
type SupplierService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSupplierService creates a new supplier service instance
func NewSupplierService(st *store.Store, logger *zap.Logger) *SupplierService {
	return &SupplierService{store: st, logger: logger}
}

// List returns suppliers, optionally of one category, best rated first
func (s *SupplierService) List(ctx context.Context, category domain.SupplierCategory) []domain.Supplier {
	out := []domain.Supplier{}
	for _, sup := range s.store.Suppliers() {
		if category == "" || sup.Category == category {
			out = append(out, sup)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	supplier, ok := s.store.FindSupplier(id)
	if !ok {
		return nil, ErrSupplierNotFound
	}
	return &supplier, nil
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req *domain.SupplierRequest) (*domain.Supplier, error) {
	supplier := supplierFromRequest(newID(), req)
	if _, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.UpsertSupplier(supplier)
	}); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.Info("supplier created", zap.String("id", supplier.ID), zap.String("actor", auth.Actor(ctx)))
	return &supplier, nil
}

// Update replaces an existing supplier
func (s *SupplierService) Update(ctx context.Context, id string, req *domain.SupplierRequest) (*domain.Supplier, error) {
	supplier := supplierFromRequest(id, req)
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		if _, ok := tx.FindSupplier(id); !ok {
			return ErrSupplierNotFound
		}
		return tx.UpsertSupplier(supplier)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	s.logger.Info("supplier updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return &supplier, nil
}

// Delete removes a supplier. Costs and expenses keep the stale reference.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(domain.CollectionSuppliers, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrSupplierNotFound
		}
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	s.logger.Info("supplier deleted", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return nil
}

func supplierFromRequest(id string, req *domain.SupplierRequest) domain.Supplier {
	return domain.Supplier{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Category: req.Category,
		Contact:  req.Contact,
		Rating:   req.Rating,
	}
}
