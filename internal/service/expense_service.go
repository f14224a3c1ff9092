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

// ExpenseFilters narrows a general expense listing
type ExpenseFilters struct {
	Category domain.ExpenseCategory
	Status   domain.PaymentStatus
	Month    string
}

func (f ExpenseFilters) match(e domain.GeneralExpense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Month != "" && finance.Month(e.DueDate) != f.Month {
		return false
	}
	return true
}

// ExpenseService handles business logic for general workshop expenses
type ExpenseService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExpenseService creates a new expense service instance
func NewExpenseService(st *store.Store, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{store: st, logger: logger}
}

// List returns the expenses matching filters, latest due date first
func (s *ExpenseService) List(ctx context.Context, filters ExpenseFilters) []domain.GeneralExpense {
	out := []domain.GeneralExpense{}
	for _, e := range s.store.Expenses() {
		if filters.match(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate > out[j].DueDate })
	return out
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, id string) (*domain.GeneralExpense, error) {
	expense, ok := s.store.FindExpense(id)
	if !ok {
		return nil, ErrExpenseNotFound
	}
	return &expense, nil
}

// Create records a new expense
func (s *ExpenseService) Create(ctx context.Context, req *domain.ExpenseRequest) (*domain.GeneralExpense, error) {
	expense := expenseFromRequest(newID(), req)
	if _, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.UpsertExpense(expense)
	}); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("expense created",
		zap.String("id", expense.ID),
		zap.String("category", string(expense.Category)),
		zap.String("actor", auth.Actor(ctx)),
	)
	return &expense, nil
}

// Update replaces an existing expense
func (s *ExpenseService) Update(ctx context.Context, id string, req *domain.ExpenseRequest) (*domain.GeneralExpense, error) {
	expense := expenseFromRequest(id, req)
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		if _, ok := tx.FindExpense(id); !ok {
			return ErrExpenseNotFound
		}
		return tx.UpsertExpense(expense)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.logger.Info("expense updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return &expense, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(domain.CollectionExpenses, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.logger.Info("expense deleted", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return nil
}

// expenseFromRequest fills the description from the category label unless
// the category is OTHER
func expenseFromRequest(id string, req *domain.ExpenseRequest) domain.GeneralExpense {
	payable := domain.PayableInput{Category: req.Category, Description: req.Description}
	return domain.GeneralExpense{
		ID:          id,
		Description: payable.ResolvedDescription(),
		Category:    req.Category,
		Value:       req.Value,
		DueDate:     req.DueDate,
		Status:      req.Status,
		SupplierID:  req.SupplierID,
	}
}
