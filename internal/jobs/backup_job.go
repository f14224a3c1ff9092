package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/service"
)

// BackupJobName is the name of the snapshot backup job
const BackupJobName = "snapshot_backup"

// SnapshotBackuper writes a backup of the committed snapshot
type SnapshotBackuper interface {
	Backup(ctx context.Context) (*service.BackupInfo, error)
}

// BackupJob copies the committed snapshot to object storage
type BackupJob struct {
	backups SnapshotBackuper
	logger  *zap.Logger
	timeout time.Duration
}

// NewBackupJob creates a new backup job. The timeout bounds one run.
func NewBackupJob(backups SnapshotBackuper, logger *zap.Logger, timeout time.Duration) *BackupJob {
	return &BackupJob{backups: backups, logger: logger, timeout: timeout}
}

// Run executes one backup
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	info, err := j.backups.Backup(ctx)
	if err != nil {
		return fmt.Errorf("snapshot backup failed: %w", err)
	}

	j.logger.Info("snapshot backup stored",
		zap.String("key", info.Key),
		zap.Int64("bytes", info.Size))
	return nil
}
