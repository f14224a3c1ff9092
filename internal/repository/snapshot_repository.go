package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/woodfy/workshop-api/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository persists the entity store as one row per collection.
// It implements store.Persister.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new snapshot repository instance
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Load returns the stored payload of every collection. Collections never
// saved are absent from the map.
func (r *SnapshotRepository) Load(ctx context.Context) (map[domain.Collection][]byte, error) {
	var records []domain.SnapshotRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	blobs := make(map[domain.Collection][]byte, len(records))
	for _, rec := range records {
		blobs[domain.Collection(rec.Collection)] = []byte(rec.Payload)
	}
	return blobs, nil
}

// Save writes every collection in a single transaction so a partially
// written snapshot is never visible.
func (r *SnapshotRepository) Save(ctx context.Context, blobs map[domain.Collection][]byte) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range domain.AllCollections {
			payload, ok := blobs[c]
			if !ok {
				continue
			}
			rec := domain.SnapshotRecord{
				Collection: string(c),
				Payload:    datatypes.JSON(payload),
				Revision:   1,
				UpdatedAt:  now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "collection"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"payload":    rec.Payload,
					"revision":   gorm.Expr("entity_snapshots.revision + 1"),
					"updated_at": now,
				}),
			}).Create(&rec).Error
			if err != nil {
				return fmt.Errorf("failed to save %s snapshot: %w", c, err)
			}
		}
		return nil
	})
}

// Revisions returns how many times each collection has been written
func (r *SnapshotRepository) Revisions(ctx context.Context) (map[domain.Collection]int64, error) {
	var records []domain.SnapshotRecord
	if err := r.db.WithContext(ctx).Select("collection", "revision").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[domain.Collection]int64, len(records))
	for _, rec := range records {
		out[domain.Collection(rec.Collection)] = rec.Revision
	}
	return out, nil
}
