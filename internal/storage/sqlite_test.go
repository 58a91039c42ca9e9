package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unbarrel/internal/index"
)

func TestSQLiteStore_SaveLoadIndex(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "unbarrel.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	idx := &index.ExportIndex{
		Root: "/project/src",
		Entries: map[string]string{
			"Button":  "/project/src/ui/button.ts",
			"slugify": "/project/src/ui/helpers.ts",
		},
	}

	require.NoError(t, store.SaveIndex(ctx, idx))

	loaded, err := store.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, idx.Root, loaded.Root)
	assert.Equal(t, idx.Entries, loaded.Entries)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "unbarrel.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	first := &index.ExportIndex{
		Root:    "/old",
		Entries: map[string]string{"Old": "/old/a.ts"},
	}
	require.NoError(t, store.SaveIndex(ctx, first))

	second := &index.ExportIndex{
		Root:    "/new",
		Entries: map[string]string{"New": "/new/b.ts"},
	}
	require.NoError(t, store.SaveIndex(ctx, second))

	loaded, err := store.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/new", loaded.Root)
	_, ok := loaded.Lookup("Old")
	assert.False(t, ok)
	_, ok = loaded.Lookup("New")
	assert.True(t, ok)
}

func TestSQLiteStore_LoadWithoutScan(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "unbarrel.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LoadIndex(context.Background())
	assert.Error(t, err)
}
