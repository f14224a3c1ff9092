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

// CustomerService handles business logic for customers. TotalSpent and
// LastOrder are derived on commit and never taken from requests.
type CustomerService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(st *store.Store, logger *zap.Logger) *CustomerService {
	return &CustomerService{store: st, logger: logger}
}

// List returns customers whose name, email or phone contains search,
// ordered by name
func (s *CustomerService) List(ctx context.Context, search string) []domain.Customer {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := []domain.Customer{}
	for _, c := range s.store.Customers() {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) ||
			strings.Contains(c.Phone, needle) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	customer, ok := s.store.FindCustomer(id)
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &customer, nil
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req *domain.CustomerRequest) (*domain.Customer, error) {
	customer := domain.Customer{
		ID:      newID(),
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if _, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.UpsertCustomer(customer)
	}); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created", zap.String("id", customer.ID), zap.String("actor", auth.Actor(ctx)))
	return s.GetByID(ctx, customer.ID)
}

// Update edits a customer's contact data. A new name propagates to the
// customer's projects on commit.
func (s *CustomerService) Update(ctx context.Context, id string, req *domain.CustomerRequest) (*domain.Customer, error) {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		existing, ok := tx.FindCustomer(id)
		if !ok {
			return ErrCustomerNotFound
		}
		existing.Name = strings.TrimSpace(req.Name)
		existing.Email = req.Email
		existing.Phone = req.Phone
		existing.Address = req.Address
		return tx.UpsertCustomer(existing)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.logger.Info("customer updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return s.GetByID(ctx, id)
}

// Delete removes a customer. Projects and budgets that referenced it are
// kept and show up in the integrity report.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(domain.CollectionCustomers, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return nil
}
