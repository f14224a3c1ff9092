package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/export"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/store"
)

// LedgerFilters narrows the transaction stream
type LedgerFilters struct {
	Month string
	Kind  finance.OriginKind
}

// LedgerEntry is the record created from an accounts payable or receivable form
type LedgerEntry struct {
	Kind    domain.LedgerEntryKind `json:"kind"`
	Revenue *domain.Revenue        `json:"revenue,omitempty"`
	Expense *domain.GeneralExpense `json:"expense,omitempty"`
}

// LedgerService derives the cash ledger and routes ledger actions back to
// the revenue, cost or expense they came from
type LedgerService struct {
	store    *store.Store
	exporter *export.Exporter
	now      Clock
	logger   *zap.Logger
}

// NewLedgerService creates a new ledger service instance. A nil clock uses
// the system time.
func NewLedgerService(st *store.Store, exporter *export.Exporter, now Clock, logger *zap.Logger) *LedgerService {
	if now == nil {
		now = systemClock
	}
	return &LedgerService{store: st, exporter: exporter, now: now, logger: logger}
}

func (s *LedgerService) transactions() []finance.Transaction {
	snap := s.store.Snapshot()
	return finance.BuildLedger(snap.Revenues, snap.Costs, snap.Expenses, snap.Projects)
}

// Ledger returns realized transactions, newest first
func (s *LedgerService) Ledger(ctx context.Context, filters LedgerFilters) []finance.Transaction {
	txs := s.transactions()
	if filters.Month == "" && filters.Kind == "" {
		return txs
	}
	out := []finance.Transaction{}
	for _, tx := range txs {
		if filters.Month != "" && finance.Month(tx.Date) != filters.Month {
			continue
		}
		if filters.Kind != "" && tx.Kind != filters.Kind {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Months returns one summary per month with transactions, newest first
func (s *LedgerService) Months(ctx context.Context) []finance.MonthSummary {
	return finance.MonthlySummaries(s.transactions())
}

// Month summarizes a single YYYY-MM month. A month without transactions
// yields zero totals.
func (s *LedgerService) Month(ctx context.Context, month string) finance.MonthSummary {
	txs := finance.GroupByMonth(s.transactions())[month]
	if txs == nil {
		txs = []finance.Transaction{}
	}
	return finance.Summarize(month, txs)
}

// Pending returns the open receivables and payables with the monthly
// window of year. Zero means the current year.
func (s *LedgerService) Pending(ctx context.Context, year int) finance.PendingProjection {
	if year == 0 {
		year = s.now().Year()
	}
	snap := s.store.Snapshot()
	return finance.BuildPendingProjection(snap.Revenues, snap.Expenses, snap.Projects, year)
}

// MarkPaid settles the revenue or expense behind a pending entry. Costs are
// always realized and cannot be marked. Marking a paid entry again changes
// nothing.
func (s *LedgerService) MarkPaid(ctx context.Context, kind finance.OriginKind, id string) error {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		switch kind {
		case finance.OriginRevenue:
			r, ok := tx.FindRevenue(id)
			if !ok {
				return ErrRevenueNotFound
			}
			if r.Status == domain.PaymentStatusPaid {
				return nil
			}
			r.Status = domain.PaymentStatusPaid
			return tx.UpsertRevenue(r)
		case finance.OriginExpense:
			e, ok := tx.FindExpense(id)
			if !ok {
				return ErrExpenseNotFound
			}
			if e.Status == domain.PaymentStatusPaid {
				return nil
			}
			e.Status = domain.PaymentStatusPaid
			return tx.UpsertExpense(e)
		case finance.OriginCost:
			return fmt.Errorf("%w: cost", ErrUnsupportedKind)
		}
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidInput, kind)
	})
	if err != nil {
		return err
	}

	s.logger.Info("ledger entry marked paid",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("actor", auth.Actor(ctx)),
	)
	return nil
}

// DeleteTransaction removes the record behind a ledger entry
func (s *LedgerService) DeleteTransaction(ctx context.Context, kind finance.OriginKind, id string) error {
	var collection domain.Collection
	switch kind {
	case finance.OriginRevenue:
		collection = domain.CollectionRevenues
	case finance.OriginCost:
		collection = domain.CollectionCosts
	case finance.OriginExpense:
		collection = domain.CollectionExpenses
	default:
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidInput, kind)
	}

	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		return tx.Remove(collection, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s %s", ErrTransactionNotFound, kind, id)
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.Info("ledger entry deleted",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("actor", auth.Actor(ctx)),
	)
	return nil
}

// CreateEntry records a receivable as a revenue or a payable as a general
// expense
func (s *LedgerService) CreateEntry(ctx context.Context, in domain.LedgerEntryInput) (*LedgerEntry, error) {
	entry := &LedgerEntry{Kind: in.EntryKind()}

	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		switch v := in.(type) {
		case domain.ReceivableInput:
			r := domain.Revenue{
				ID:            newID(),
				ProjectID:     v.ProjectID,
				Description:   v.Description,
				Value:         v.Value,
				PaymentMethod: v.PaymentMethod,
				Date:          v.Date,
				Status:        v.Status,
			}
			entry.Revenue = &r
			return tx.UpsertRevenue(r)
		case domain.PayableInput:
			e := domain.GeneralExpense{
				ID:          newID(),
				Description: v.ResolvedDescription(),
				Category:    v.Category,
				Value:       v.Value,
				DueDate:     v.DueDate,
				Status:      v.Status,
				SupplierID:  v.SupplierID,
			}
			entry.Expense = &e
			return tx.UpsertExpense(e)
		}
		return fmt.Errorf("%w: unsupported ledger entry %T", ErrInvalidInput, in)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry created", zap.String("kind", string(entry.Kind)), zap.String("actor", auth.Actor(ctx)))
	return entry, nil
}

// ExportWorkbook renders the monthly ledger and the pending projection of
// year into an xlsx workbook
func (s *LedgerService) ExportWorkbook(ctx context.Context, year int) ([]byte, error) {
	data, err := s.exporter.LedgerWorkbook(s.Months(ctx), s.Pending(ctx, year))
	if err != nil {
		s.logger.Error("failed to export ledger workbook", zap.Error(err))
		return nil, fmt.Errorf("failed to export ledger workbook: %w", err)
	}
	return data, nil
}
