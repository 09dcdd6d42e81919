package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, size, err := store.Upload(ctx, "lead", "Site Survey.PDF", "application/pdf", strings.NewReader("survey"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)
	assert.True(t, strings.HasPrefix(key, "lead/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "survey", string(body))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Download(ctx, key)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)

	assert.NoError(t, store.Delete(ctx, key), "deleting twice is not an error")
}

func TestLocalStorage_PrefixCannotEscape(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, _, err := store.Upload(context.Background(), "../../etc", "x.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "etc/"))
}

func TestLocalStorage_RejectsTraversalKeys(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "../../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrFileNotFound)
}

func TestNewStorage_Modes(t *testing.T) {
	s, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
