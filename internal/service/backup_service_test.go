package service_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/service"
	"github.com/woodfy/workshop-api/internal/storage"
	"github.com/woodfy/workshop-api/internal/store"
)

func TestBackupService_Backup(t *testing.T) {
	st := setupStore(t)
	seedLedger(t, st)
	objects, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewBackupService(st, objects, "backups", 0, fixedClock("2024-06-15"), zap.NewNop())
	ctx := context.Background()

	info, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.Contains(t, info.Key, "backups/20240615T100000Z-")
	assert.Positive(t, info.Size)

	r, err := objects.Get(ctx, info.Key)
	require.NoError(t, err)
	defer r.Close()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)

	var doc struct {
		Revision    int64                                 `json:"revision"`
		Collections map[domain.Collection]json.RawMessage `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, st.Revision(), doc.Revision)
	assert.Len(t, doc.Collections, len(domain.AllCollections))

	blobs := make(map[domain.Collection][]byte, len(doc.Collections))
	for c, b := range doc.Collections {
		blobs[c] = b
	}
	restored, err := store.DecodeSnapshot(blobs)
	require.NoError(t, err)
	assert.Len(t, restored.Revenues, 2)
	assert.Len(t, restored.Projects, 1)
}

func TestBackupService_Retention(t *testing.T) {
	st := setupStore(t)
	seedCustomer(t, st, "c1", "Ana Souza")
	objects, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewBackupService(st, objects, "backups", 2, fixedClock("2024-06-15"), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Backup(ctx)
		require.NoError(t, err)
	}

	backups, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, backups, 2)

	removed, err := svc.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
