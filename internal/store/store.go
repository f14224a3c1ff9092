// Package store owns the canonical entity collections. Every mutation runs
// against a private copy, is settled by the commit pipeline, written through
// the persister as a full snapshot and only then becomes visible.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
)

// Commit describes a mutation that became visible. Touched holds the
// collections the caller edited, Derived those the pipeline rewrote.
type Commit struct {
	Revision int64
	Touched  []domain.Collection
	Derived  []domain.Collection
	Stages   []string
	Duration time.Duration
}

// Changed returns every collection the commit wrote, each once
func (c Commit) Changed() []domain.Collection {
	seen := make(map[domain.Collection]bool, len(c.Touched)+len(c.Derived))
	for _, col := range c.Touched {
		seen[col] = true
	}
	for _, col := range c.Derived {
		seen[col] = true
	}
	var out []domain.Collection
	for _, col := range domain.AllCollections {
		if seen[col] {
			out = append(out, col)
		}
	}
	return out
}

// Observer is notified about commit outcomes
type Observer interface {
	CommitApplied(c Commit)
	CommitFailed(reason string)
}

// Option configures a Store
type Option func(*Store)

// WithPipeline replaces the default commit pipeline
func WithPipeline(p *Pipeline) Option {
	return func(s *Store) { s.pipeline = p }
}

// WithObserver registers an observer for commit outcomes
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// Store holds the live snapshot. Readers get copies; writers go through
// Mutate, which serializes all mutations.
type Store struct {
	mu        sync.RWMutex
	state     Snapshot
	revision  int64
	loaded    bool
	persister Persister
	pipeline  *Pipeline
	observer  Observer
	logger    *zap.Logger
}

// New creates a store backed by persister. Call Load before use.
func New(persister Persister, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		pipeline:  DefaultPipeline(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted snapshot once and settles its derived fields.
// An empty persister yields empty collections.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, err := s.persister.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load snapshot", zap.Error(err))
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap, err := DecodeSnapshot(blobs)
	if err != nil {
		s.logger.Error("Failed to decode snapshot", zap.Error(err))
		return err
	}

	stages, err := s.pipeline.Run(&snap, domain.AllCollections)
	if err != nil {
		return fmt.Errorf("failed to settle loaded snapshot: %w", err)
	}
	if len(stages) > 0 {
		s.logger.Warn("Loaded snapshot had stale derived fields",
			zap.Strings("stages", stages),
		)
		encoded, err := snap.Encode()
		if err != nil {
			return err
		}
		if err := s.persister.Save(ctx, encoded); err != nil {
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}

	s.state = snap
	s.loaded = true

	s.logger.Info("Entity store loaded",
		zap.Int("projects", len(snap.Projects)),
		zap.Int("costs", len(snap.Costs)),
		zap.Int("revenues", len(snap.Revenues)),
		zap.Int("expenses", len(snap.Expenses)),
		zap.Int("customers", len(snap.Customers)),
		zap.Int("suppliers", len(snap.Suppliers)),
		zap.Int("budgets", len(snap.Budgets)),
	)
	return nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Revision returns the number of commits since Load
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Mutate runs fn against a private copy of the state. When fn succeeds and
// touched anything, derived fields are settled, the full snapshot is
// persisted and the copy replaces the live state. Any failure leaves the
// live state unchanged.
func (s *Store) Mutate(ctx context.Context, fn func(tx *Tx) error) (Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return Commit{}, ErrNotLoaded
	}

	start := time.Now()
	tx := newTx(s.state.Clone())
	if err := fn(tx); err != nil {
		return Commit{}, err
	}

	touched := tx.touchedCollections()
	if len(touched) == 0 {
		return Commit{Revision: s.revision}, nil
	}

	stages, err := s.pipeline.Run(&tx.state, touched)
	if err != nil {
		s.logger.Error("Failed to settle derived state",
			zap.Any("touched", touched),
			zap.Strings("stages", stages),
			zap.Error(err),
		)
		s.notifyFailure("pipeline")
		return Commit{}, err
	}

	blobs, err := tx.state.Encode()
	if err != nil {
		s.notifyFailure("encode")
		return Commit{}, err
	}
	if err := s.persister.Save(ctx, blobs); err != nil {
		s.logger.Error("Failed to persist snapshot", zap.Error(err))
		s.notifyFailure("persist")
		return Commit{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.state = tx.state
	s.revision++

	commit := Commit{
		Revision: s.revision,
		Touched:  touched,
		Derived:  s.pipeline.outputs(stages),
		Stages:   stages,
		Duration: time.Since(start),
	}
	if s.observer != nil {
		s.observer.CommitApplied(commit)
	}

	s.logger.Debug("Snapshot committed",
		zap.Int64("revision", commit.Revision),
		zap.Any("touched", touched),
		zap.Strings("stages", stages),
		zap.Duration("duration", commit.Duration),
	)
	return commit, nil
}

func (s *Store) notifyFailure(reason string) {
	if s.observer != nil {
		s.observer.CommitFailed(reason)
	}
}

// Projects returns a copy of the project collection
func (s *Store) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Projects)
}

// Costs returns a copy of the cost collection
func (s *Store) Costs() []domain.Cost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Costs)
}

// Revenues returns a copy of the revenue collection
func (s *Store) Revenues() []domain.Revenue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Revenues)
}

// Expenses returns a copy of the general expense collection
func (s *Store) Expenses() []domain.GeneralExpense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Expenses)
}

// Customers returns a copy of the customer collection
func (s *Store) Customers() []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Customers)
}

// Suppliers returns a copy of the supplier collection
func (s *Store) Suppliers() []domain.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Suppliers)
}

// Budgets returns a deep copy of the budget collection
func (s *Store) Budgets() []domain.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := cloneSlice(s.state.Budgets)
	for i := range out {
		out[i].Items = cloneSlice(out[i].Items)
	}
	return out
}

// FindProject looks a project up by id
func (s *Store) FindProject(id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.state.Projects, id, projectID)
}

// FindCost looks a cost up by id
func (s *Store) FindCost(id string) (domain.Cost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.state.Costs, id, costID)
}

// FindRevenue looks a revenue up by id
func (s *Store) FindRevenue(id string) (domain.Revenue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.state.Revenues, id, revenueID)
}

// FindExpense looks a general expense up by id
func (s *Store) FindExpense(id string) (domain.GeneralExpense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.state.Expenses, id, expenseID)
}

// FindCustomer looks a customer up by id
func (s *Store) FindCustomer(id string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.state.Customers, id, customerID)
}

// FindSupplier looks a supplier up by id
func (s *Store) FindSupplier(id string) (domain.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.state.Suppliers, id, supplierID)
}

// FindBudget looks a budget up by id
func (s *Store) FindBudget(id string) (domain.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := find(s.state.Budgets, id, budgetID)
	if ok {
		b.Items = cloneSlice(b.Items)
	}
	return b, ok
}
