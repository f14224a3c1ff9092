package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/storage"
	"github.com/woodfy/workshop-api/internal/store"
)

// BackupInfo describes a stored snapshot backup
type BackupInfo struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type backupDocument struct {
	TakenAt     time.Time                             `json:"takenAt"`
	Revision    int64                                 `json:"revision"`
	Collections map[domain.Collection]json.RawMessage `json:"collections"`
}

// BackupService copies the committed snapshot to object storage
type BackupService struct {
	store     *store.Store
	storage   storage.Storage
	prefix    string
	retention int
	now       Clock
	logger    *zap.Logger
}

// NewBackupService creates a new backup service instance. Backups are
// written below prefix; retention bounds how many are kept, 0 keeps all.
func NewBackupService(st *store.Store, objects storage.Storage, prefix string, retention int, now Clock, logger *zap.Logger) *BackupService {
	if now == nil {
		now = systemClock
	}
	return &BackupService{
		store:     st,
		storage:   objects,
		prefix:    prefix,
		retention: retention,
		now:       now,
		logger:    logger,
	}
}

// Backup writes the current snapshot as one JSON document and prunes old
// backups beyond the retention
func (s *BackupService) Backup(ctx context.Context) (*BackupInfo, error) {
	revision := s.store.Revision()
	blobs, err := s.store.Snapshot().Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	doc := backupDocument{
		TakenAt:     s.now().UTC(),
		Revision:    revision,
		Collections: make(map[domain.Collection]json.RawMessage, len(blobs)),
	}
	for c, b := range blobs {
		doc.Collections[c] = json.RawMessage(b)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}

	key := path.Join(s.prefix, fmt.Sprintf("%s-%s.json", doc.TakenAt.Format("20060102T150405Z"), uuid.New().String()))
	size, err := s.storage.Put(ctx, key, "application/json", bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to store backup", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Info("snapshot backed up",
		zap.String("key", key),
		zap.Int64("revision", revision),
		zap.Int64("bytes", size),
	)

	if _, err := s.Prune(ctx); err != nil {
		s.logger.Warn("failed to prune backups", zap.Error(err))
	}
	return &BackupInfo{Key: key, Size: size, CreatedAt: doc.TakenAt}, nil
}

// List returns the stored backups, oldest first
func (s *BackupService) List(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.storage.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	out := make([]BackupInfo, 0, len(objects))
	for _, o := range objects {
		out = append(out, BackupInfo{Key: o.Key, Size: o.Size, CreatedAt: o.LastModified})
	}
	return out, nil
}

// Prune deletes the oldest backups beyond the retention and returns how
// many were removed
func (s *BackupService) Prune(ctx context.Context) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	backups, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= s.retention {
		return 0, nil
	}

	removed := 0
	for _, b := range backups[:len(backups)-s.retention] {
		if err := s.storage.Delete(ctx, b.Key); err != nil {
			return removed, fmt.Errorf("failed to delete backup %s: %w", b.Key, err)
		}
		removed++
	}
	s.logger.Info("old backups pruned", zap.Int("removed", removed))
	return removed, nil
}
