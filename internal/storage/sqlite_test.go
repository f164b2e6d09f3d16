package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/semantic"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveTypes_Snapshot(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	errA := semantic.TypeInfo{
		Name:   "app.ErrA",
		Kind:   semantic.TypeClass,
		Supers: []string{"java.lang.RuntimeException"},
		Fields: []semantic.Member{{Name: "code", Type: semantic.Int}},
		Methods: []semantic.Member{
			{Name: "describe", Type: semantic.StringType, Arity: 1},
		},
		Origin: "app/ErrA.java",
	}
	old := semantic.TypeInfo{Name: "app.Old", Kind: semantic.TypeInterface, Origin: "app/Old.java"}
	require.NoError(t, store.SaveTypes(ctx, []semantic.TypeInfo{errA, old}))
	require.NoError(t, store.SaveTypes(ctx, []semantic.TypeInfo{errA}))

	loaded, err := store.LoadTypes(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, errA, loaded[0])

	byFile, err := store.FindTypesByFile(ctx, "app/ErrA.java")
	require.NoError(t, err)
	assert.Len(t, byFile, 1)
	byFile, err = store.FindTypesByFile(ctx, "app/Old.java")
	require.NoError(t, err)
	assert.Empty(t, byFile)
}

func TestSQLiteStore_TypesFeedIndex(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTypes(ctx, []semantic.TypeInfo{{
		Name: "app.ErrA", Kind: semantic.TypeClass, Supers: []string{"java.lang.RuntimeException"},
	}}))
	infos, err := store.LoadTypes(ctx)
	require.NoError(t, err)

	b := semantic.NewIndexBuilder()
	for _, info := range infos {
		b.Add(info)
	}
	index := b.Build()
	assert.Equal(t, semantic.Yes, index.IsSubtype("app.ErrA", "java.lang.Exception"))
}

func TestSQLiteStore_RunCache(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec := RunRecord{Path: "A.java", ContentHash: "h1", Fingerprint: "Cleanup", Edits: 0, Passes: []string{"RemoveEmptyStatements"}}
	require.NoError(t, store.RecordRun(ctx, rec))

	got, err := store.LookupRun(ctx, "A.java", "h1", "Cleanup")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Changed)
	assert.Equal(t, []string{"RemoveEmptyStatements"}, got.Passes)
	assert.False(t, got.RecordedAt.IsZero())

	// Different content or recipe misses.
	got, err = store.LookupRun(ctx, "A.java", "h2", "Cleanup")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = store.LookupRun(ctx, "A.java", "h1", "Other")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Upsert replaces the hash for the same path and recipe.
	rec.ContentHash = "h2"
	require.NoError(t, store.RecordRun(ctx, rec))
	got, err = store.LookupRun(ctx, "A.java", "h1", "Cleanup")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.DeleteRuns(ctx, []string{"A.java"}))
	got, err = store.LookupRun(ctx, "A.java", "h2", "Cleanup")
	require.NoError(t, err)
	assert.Nil(t, got)
}
