package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/store"
)

// IntegrityService reports dead references and overdue candidates. It never
// repairs anything; fixing is left to the user.
type IntegrityService struct {
	store  *store.Store
	now    Clock
	logger *zap.Logger
}

// NewIntegrityService creates a new integrity service instance
func NewIntegrityService(st *store.Store, now Clock, logger *zap.Logger) *IntegrityService {
	if now == nil {
		now = systemClock
	}
	return &IntegrityService{store: st, now: now, logger: logger}
}

// Check builds the integrity report for today
func (s *IntegrityService) Check(ctx context.Context) finance.IntegrityReport {
	report := finance.CheckIntegrity(s.store.Snapshot().View(), isoDate(s.now()))
	if !report.Clean() {
		s.logger.Warn("dangling references found", zap.Int("count", len(report.Dangling)))
	}
	return report
}
