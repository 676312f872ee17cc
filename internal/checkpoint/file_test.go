package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir(), "last_tweet_tooted")

	value, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, value)
}

func TestFileStore_LoadEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "last_tweet_tooted"), []byte(" \n"), 0o644))

	_, ok, err := NewFileStore(dir, "last_tweet_tooted").Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "last_tweet_tooted"), []byte("yesterday"), 0o644))

	_, _, err := NewFileStore(dir, "last_tweet_tooted").Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	store := NewFileStore(dir, "last_tweet_tooted")

	require.NoError(t, store.Save(context.Background(), 1000))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "1000", string(data))

	require.NoError(t, store.Save(context.Background(), 2000))

	value, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2000, value)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileStore_SaveReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last_tweet_tooted")
	require.NoError(t, os.WriteFile(path, []byte("999999"), 0o600))

	store := NewFileStore(dir, "last_tweet_tooted")
	require.NoError(t, store.Save(context.Background(), 42))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewFileStore(t.TempDir(), "last_tweet_tooted")
	assert.ErrorIs(t, store.Save(ctx, 1), context.Canceled)
	_, _, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
