package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/mapper"
	"github.com/woodfy/workshop-api/internal/store"
)

const projectCodePrefix = "PROJ-"

// ProjectFilters narrows a project listing. Empty fields match everything.
type ProjectFilters struct {
	ClientID      string
	Status        domain.ProjectStatus
	PaymentStatus domain.PaymentStatus
}

func (f ProjectFilters) match(p domain.Project) bool {
	if f.ClientID != "" && p.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && p.PaymentStatus != f.PaymentStatus {
		return false
	}
	return true
}

// ProjectService handles business logic for projects
type ProjectService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProjectService creates a new project service instance
func NewProjectService(st *store.Store, logger *zap.Logger) *ProjectService {
	return &ProjectService{store: st, logger: logger}
}

// List returns the projects matching filters with their financial figures
func (s *ProjectService) List(ctx context.Context, filters ProjectFilters) []domain.ProjectDTO {
	var projects []domain.Project
	for _, p := range s.store.Projects() {
		if filters.match(p) {
			projects = append(projects, p)
		}
	}
	return mapper.ToProjectDTOs(projects, s.store.Budgets())
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.ProjectDTO, error) {
	project, ok := s.store.FindProject(id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	dto := s.toDTO(project)
	return &dto, nil
}

// Create creates a project with the next sequential code. A project for a
// customer with an approved budget takes the budget's price.
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.ProjectStatusInProgress
	}
	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.PaymentStatusPending
	}

	project := domain.Project{
		ID:            newID(),
		ClientID:      req.ClientID,
		FurnitureType: req.FurnitureType,
		Description:   req.Description,
		StartDate:     req.StartDate,
		DeliveryDate:  req.DeliveryDate,
		ValueSold:     req.ValueSold,
		EstimatedCost: req.EstimatedCost,
		Status:        status,
		PaymentStatus: paymentStatus,
	}

	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		view := tx.View()
		project.Code = NextProjectCode(view.Projects)

		draft := finance.ReconcileDraft(domain.EditModeNew, "", project.ClientID, project.ValueSold, project.EstimatedCost, view.Budgets)
		project.ValueSold = draft.ValueSold
		project.EstimatedCost = draft.EstimatedCost

		return tx.UpsertProject(project)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("id", project.ID),
		zap.String("code", project.Code),
		zap.String("actor", auth.Actor(ctx)),
	)
	return s.GetByID(ctx, project.ID)
}

// Update edits a project. Price fields held by an approved budget can only
// be resent unchanged; a stale locked price from a previous customer is
// cleared.
func (s *ProjectService) Update(ctx context.Context, id string, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		existing, ok := tx.FindProject(id)
		if !ok {
			return ErrProjectNotFound
		}

		draft := finance.ReconcileDraft(
			domain.EditModeExisting,
			existing.ClientID,
			req.ClientID,
			valueOr(req.ValueSold, existing.ValueSold),
			valueOr(req.EstimatedCost, existing.EstimatedCost),
			tx.View().Budgets,
		)
		if draft.Lock != nil {
			if err := draft.Lock.CheckEdit(req.ValueSold, req.EstimatedCost); err != nil {
				return err
			}
		}

		existing.ClientID = req.ClientID
		existing.FurnitureType = req.FurnitureType
		existing.Description = req.Description
		existing.StartDate = req.StartDate
		existing.DeliveryDate = req.DeliveryDate
		existing.Status = req.Status
		existing.PaymentStatus = req.PaymentStatus
		existing.ValueSold = draft.ValueSold
		existing.EstimatedCost = draft.EstimatedCost

		return tx.UpsertProject(existing)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrFieldLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info("project updated", zap.String("id", id), zap.String("actor", auth.Actor(ctx)))
	return s.GetByID(ctx, id)
}

// Draft returns the price fields a project form should show after its
// customer changed
func (s *ProjectService) Draft(ctx context.Context, req *domain.ProjectDraftRequest) *domain.ProjectDraftDTO {
	draft := finance.ReconcileDraft(req.Mode, req.PreviousClientID, req.ClientID, req.ValueSold, req.EstimatedCost, s.store.Budgets())
	dto := mapper.ToProjectDraftDTO(draft)
	return &dto
}

// Delete removes a project together with its costs and revenues
func (s *ProjectService) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	var removed store.Removed
	_, err := commit(ctx, s.store, func(tx *store.Tx) error {
		var err error
		removed, err = tx.RemoveProject(id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted",
		zap.String("id", id),
		zap.Int("removed_costs", len(removed.Costs)),
		zap.Int("removed_revenues", len(removed.Revenues)),
		zap.String("actor", auth.Actor(ctx)),
	)
	return &domain.DeleteResult{ID: id, RemovedCosts: removed.Costs, RemovedRevenues: removed.Revenues}, nil
}

func (s *ProjectService) toDTO(p domain.Project) domain.ProjectDTO {
	var lock *finance.Lock
	if l, ok := finance.LockFor(s.store.Budgets(), p.ClientID); ok {
		lock = &l
	}
	return mapper.ToProjectDTO(p, lock)
}

// NextProjectCode returns PROJ-NNN one above the highest numeric suffix in
// use, so codes stay unique after deletes.
func NextProjectCode(projects []domain.Project) string {
	highest := 0
	for _, p := range projects {
		suffix, ok := strings.CutPrefix(p.Code, projectCodePrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", projectCodePrefix, highest+1)
}
