package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/database"
	"github.com/woodfy/workshop-api/internal/domain"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "workshop.db"),
	}

	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.SnapshotRecord{}))
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := database.NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMigrate_SQLiteUsesGormSchema(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "workshop.db"),
	}

	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(context.Background(), db, cfg.Driver, zap.NewNop()))
	assert.True(t, db.Migrator().HasTable("entity_snapshots"))
}
