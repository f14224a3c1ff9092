package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/finance"
)

// IntegrityJobName is the name of the integrity check job
const IntegrityJobName = "integrity_check"

// IntegrityChecker builds the integrity report of the current snapshot
type IntegrityChecker interface {
	Check(ctx context.Context) finance.IntegrityReport
}

// IntegrityJob logs dangling references and entries past their date that
// are still open. It changes nothing.
type IntegrityJob struct {
	checker IntegrityChecker
	logger  *zap.Logger
}

// NewIntegrityJob creates a new integrity check job
func NewIntegrityJob(checker IntegrityChecker, logger *zap.Logger) *IntegrityJob {
	return &IntegrityJob{checker: checker, logger: logger}
}

// Run executes one integrity check
func (j *IntegrityJob) Run() error {
	report := j.checker.Check(context.Background())

	for _, d := range report.Dangling {
		j.logger.Warn("dangling reference",
			zap.String("collection", string(d.Collection)),
			zap.String("id", d.ID),
			zap.String("field", d.Field),
			zap.String("target_id", d.TargetID))
	}
	if len(report.Overdue) > 0 {
		j.logger.Info("open entries past their date",
			zap.Int("count", len(report.Overdue)))
	}
	return nil
}
