package store

import (
	"errors"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
)

// ErrPipelineDiverged is returned when derived fields keep changing after
// the maximum number of passes. It indicates a broken stage, not bad data.
var ErrPipelineDiverged = errors.New("derived state did not settle")

const maxPipelinePasses = 8

// Stage recomputes one derived collection. Apply reports whether it changed
// the snapshot; a stage that changes nothing must leave its output slice
// untouched.
type Stage struct {
	Name     string
	Triggers []domain.Collection
	Output   domain.Collection
	Apply    func(s *Snapshot) bool
}

func (st Stage) triggeredBy(dirty map[domain.Collection]bool) bool {
	for _, c := range st.Triggers {
		if dirty[c] {
			return true
		}
	}
	return false
}

// Pipeline runs stages after every mutation until the snapshot settles
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline from the given stages, run in order on
// every pass
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// DefaultPipeline wires the workshop's derived fields
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		Stage{
			Name:     "client-names",
			Triggers: []domain.Collection{domain.CollectionCustomers, domain.CollectionProjects},
			Output:   domain.CollectionProjects,
			Apply: func(s *Snapshot) bool {
				out := finance.SyncClientNames(s.Projects, s.Customers)
				changed := !finance.SameSlice(out, s.Projects)
				s.Projects = out
				return changed
			},
		},
		Stage{
			Name:     "budget-lock",
			Triggers: []domain.Collection{domain.CollectionBudgets, domain.CollectionProjects},
			Output:   domain.CollectionProjects,
			Apply: func(s *Snapshot) bool {
				out := finance.ApplyBudgetLocks(s.Projects, s.Budgets)
				changed := !finance.SameSlice(out, s.Projects)
				s.Projects = out
				return changed
			},
		},
		Stage{
			Name:     "project-costs",
			Triggers: []domain.Collection{domain.CollectionCosts, domain.CollectionProjects},
			Output:   domain.CollectionProjects,
			Apply: func(s *Snapshot) bool {
				out := finance.RecomputeProjectCosts(s.Projects, s.Costs)
				changed := !finance.SameSlice(out, s.Projects)
				s.Projects = out
				return changed
			},
		},
		Stage{
			Name:     "customer-stats",
			Triggers: []domain.Collection{domain.CollectionProjects, domain.CollectionRevenues, domain.CollectionCustomers},
			Output:   domain.CollectionCustomers,
			Apply: func(s *Snapshot) bool {
				out := finance.RecomputeCustomerStats(s.Customers, s.Projects, s.Revenues)
				changed := !finance.SameSlice(out, s.Customers)
				s.Customers = out
				return changed
			},
		},
	)
}

// outputs returns the collections written by the named stages, in
// collection order
func (p *Pipeline) outputs(applied []string) []domain.Collection {
	written := make(map[domain.Collection]bool)
	for _, name := range applied {
		for _, st := range p.stages {
			if st.Name == name {
				written[st.Output] = true
			}
		}
	}
	var out []domain.Collection
	for _, c := range domain.AllCollections {
		if written[c] {
			out = append(out, c)
		}
	}
	return out
}

// Run applies triggered stages to s until a pass changes nothing. It returns
// the names of stages that changed data, in the order they ran.
func (p *Pipeline) Run(s *Snapshot, touched []domain.Collection) ([]string, error) {
	dirty := make(map[domain.Collection]bool, len(touched))
	for _, c := range touched {
		dirty[c] = true
	}

	var applied []string
	for pass := 0; pass < maxPipelinePasses; pass++ {
		next := make(map[domain.Collection]bool)
		for _, st := range p.stages {
			if !st.triggeredBy(dirty) {
				continue
			}
			if st.Apply(s) {
				applied = append(applied, st.Name)
				next[st.Output] = true
			}
		}
		if len(next) == 0 {
			return applied, nil
		}
		dirty = next
	}
	return applied, ErrPipelineDiverged
}
