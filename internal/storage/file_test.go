package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
)

func newFileStore(t *testing.T) (*storage.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.json")
	return storage.NewFileStore(path, testLogger()), path
}

func TestFileStoreSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	session := sampleSession()
	require.NoError(t, store.StoreSession(ctx, session))

	// Survives a new store over the same file
	reopened := storage.NewFileStore(path, testLogger())
	got, err := reopened.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.User.Email, got.User.Email)
	assert.Equal(t, session.ExpiresAt, got.ExpiresAt)

	require.NoError(t, store.DeleteSession(ctx))
	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileStoreAPIKeysRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileStore(t)

	keys, err := store.GetAPIKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.StoreAPIKeys(ctx, sampleKeys()))

	keys, err = store.GetAPIKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "k1", keys[0].ID)
	assert.Equal(t, "k2", keys[1].ID)
}

func TestFileStoreCorruptDocumentSelfHeals(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, store.StoreSession(ctx, sampleSession()))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	// A corrupt document reads as empty and is removed from disk
	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStoreKeysAndSessionCoexist(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileStore(t)

	require.NoError(t, store.StoreSession(ctx, sampleSession()))
	require.NoError(t, store.StoreAPIKeys(ctx, sampleKeys()))

	// Clearing the session leaves the key list untouched
	require.NoError(t, store.DeleteSession(ctx))

	keys, err := store.GetAPIKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestFileStorePing(t *testing.T) {
	store, _ := newFileStore(t)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
