package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/database"
	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/repository"
	"github.com/woodfy/workshop-api/internal/store"
)

func setupSnapshotTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every new connection would open a separate in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.SnapshotRecord{}))
	return db
}

func TestSnapshotRepository_LoadEmpty(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotTestDB(t))

	blobs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotTestDB(t))
	ctx := context.Background()

	err := repo.Save(ctx, map[domain.Collection][]byte{
		domain.CollectionCustomers: []byte(`[{"id":"c1","name":"Ana"}]`),
		domain.CollectionProjects:  []byte(`[]`),
	})
	require.NoError(t, err)

	err = repo.Save(ctx, map[domain.Collection][]byte{
		domain.CollectionCustomers: []byte(`[{"id":"c1","name":"Ana Souza"}]`),
	})
	require.NoError(t, err)

	blobs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, blobs, 2)
	assert.JSONEq(t, `[{"id":"c1","name":"Ana Souza"}]`, string(blobs[domain.CollectionCustomers]))
	assert.JSONEq(t, `[]`, string(blobs[domain.CollectionProjects]))

	revisions, err := repo.Revisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revisions[domain.CollectionCustomers])
	assert.Equal(t, int64(1), revisions[domain.CollectionProjects])
}

func TestSnapshotRepository_BacksStore(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotTestDB(t))
	ctx := context.Background()

	st := store.New(repo, zap.NewNop())
	require.NoError(t, st.Load(ctx))

	_, err := st.Mutate(ctx, func(tx *store.Tx) error {
		return tx.UpsertSupplier(domain.Supplier{
			ID: "s1", Name: "Madeireira Sul", Category: domain.SupplierCategoryMDF, Rating: 4,
		})
	})
	require.NoError(t, err)

	reloaded := store.New(repo, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))

	s, ok := reloaded.FindSupplier("s1")
	require.True(t, ok)
	assert.Equal(t, "Madeireira Sul", s.Name)
}

// setupPostgresTestDB connects to the database named by the DATABASE_*
// variables and applies the goose migrations. It skips unless
// WORKSHOP_TEST_POSTGRES=true.
func setupPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("WORKSHOP_TEST_POSTGRES") != "true" {
		t.Skip("set WORKSHOP_TEST_POSTGRES=true to run against PostgreSQL")
	}

	cfg := &config.DatabaseConfig{
		Driver:       "postgres",
		Host:         getEnvOrDefault("DATABASE_HOST", "localhost"),
		Port:         5432,
		Name:         getEnvOrDefault("DATABASE_NAME", "workshop"),
		User:         getEnvOrDefault("DATABASE_USER", "workshop_user"),
		Password:     getEnvOrDefault("DATABASE_PASSWORD", "workshop_password"),
		SSLMode:      "disable",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}
	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(context.Background(), db, cfg.Driver, zap.NewNop()))
	require.NoError(t, db.Exec("DELETE FROM entity_snapshots").Error)
	return db
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestSnapshotRepository_Postgres(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupPostgresTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, map[domain.Collection][]byte{
		domain.CollectionBudgets: []byte(`[{"id":"b1","customerId":"c1"}]`),
	}))
	require.NoError(t, repo.Save(ctx, map[domain.Collection][]byte{
		domain.CollectionBudgets: []byte(`[]`),
	}))

	blobs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(blobs[domain.CollectionBudgets]))

	revisions, err := repo.Revisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revisions[domain.CollectionBudgets])
}
