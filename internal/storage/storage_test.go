package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/storage"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	size, err := s.Put(ctx, "backups/2024-05-10.json", "application/json", strings.NewReader(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)

	rc, err := s.Get(ctx, "backups/2024-05-10.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	require.NoError(t, s.Delete(ctx, "backups/2024-05-10.json"))
	require.NoError(t, s.Delete(ctx, "backups/2024-05-10.json"))

	_, err = s.Get(ctx, "backups/2024-05-10.json")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestLocalStorage_List(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"backups/a.json", "backups/b.json", "exports/c.xlsx"} {
		_, err := s.Put(ctx, key, "application/octet-stream", strings.NewReader("x"))
		require.NoError(t, err)
	}

	objs, err := s.List(ctx, "backups/")
	require.NoError(t, err)
	require.Len(t, objs, 2)

	keys := []string{objs[0].Key, objs[1].Key}
	assert.ElementsMatch(t, []string{"backups/a.json", "backups/b.json"}, keys)
	assert.Equal(t, int64(1), objs[0].Size)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../outside.json", "backups/../../x"} {
		_, err := s.Put(context.Background(), key, "text/plain", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
	}
}

func TestNewStorage_Modes(t *testing.T) {
	_, err := storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	s, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)
}
