package blobstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissingReturnsNil(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	data, err := store.Load("finances")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	blob := []byte("first image")
	require.NoError(t, store.Save("finances", blob))

	got, err := store.Load("finances")
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	// Overwrite replaces the whole record.
	require.NoError(t, store.Save("finances", []byte("second image")))
	got, err = store.Load("finances")
	require.NoError(t, err)
	assert.Equal(t, []byte("second image"), got)
}

func TestFileStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("finances", []byte("image")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "finances.blob", entries[0].Name())
}

func TestFileStore_RejectsInvalidNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "  ", "../escape", "a/b", `a\b`} {
		_, err := store.Load(name)
		assert.Error(t, err, "name %q", name)
		assert.Error(t, store.Save(name, []byte("x")), "name %q", name)
	}
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
