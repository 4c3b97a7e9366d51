package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustSet(t *testing.T, db *DB, key string, value []byte) {
	t.Helper()
	ok, err := db.Atomic().Set(key, value).Commit(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGetAbsent(t *testing.T) {
	db := openTestDB(t)

	entry, err := db.Get(context.Background(), Key("surveys", "nope"))
	require.NoError(t, err)
	assert.False(t, entry.Exists())
	assert.Zero(t, entry.Version)
}

func TestSetGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustSet(t, db, "surveys/abc", []byte(`{"title":"Feedback"}`))

	entry, err := db.Get(ctx, "surveys/abc")
	require.NoError(t, err)
	assert.True(t, entry.Exists())
	assert.Equal(t, []byte(`{"title":"Feedback"}`), entry.Value)
	assert.Positive(t, entry.Version)
}

func TestVersionsGrowAcrossCommits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustSet(t, db, "k", []byte("one"))
	first, err := db.Get(ctx, "k")
	require.NoError(t, err)

	mustSet(t, db, "k", []byte("two"))
	second, err := db.Get(ctx, "k")
	require.NoError(t, err)

	assert.Greater(t, second.Version, first.Version)
}

func TestCheckAbsentGuardsCreate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ok, err := db.Atomic().
		Check("surveys/abc", 0).
		Set("surveys/abc", []byte("first")).
		Commit(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// the slot is taken now, the same commit must refuse to run again
	ok, err = db.Atomic().
		Check("surveys/abc", 0).
		Set("surveys/abc", []byte("second")).
		Commit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	entry, err := db.Get(ctx, "surveys/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), entry.Value)
}

func TestStaleCheckWritesNothing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustSet(t, db, "a", []byte("a1"))
	stale, err := db.Get(ctx, "a")
	require.NoError(t, err)

	mustSet(t, db, "a", []byte("a2"))

	// multi-key commit on the stale version must leave every key untouched
	ok, err := db.Atomic().
		Check("a", stale.Version).
		Set("a", []byte("a3")).
		Set("b", []byte("b1")).
		Commit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	a, err := db.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), a.Value)

	b, err := db.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, b.Exists())
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustSet(t, db, "a", []byte("a1"))

	ok, err := db.Atomic().Delete("a").Commit(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	entry, err := db.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, entry.Exists())
}

func TestListPrefix(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustSet(t, db, Key("surveys", "b"), []byte("2"))
	mustSet(t, db, Key("surveys", "a"), []byte("1"))
	mustSet(t, db, Key("surveys_by_user_id", "alice", "a"), []byte("1"))

	entries, err := db.List(ctx, "surveys")
	require.NoError(t, err)
	require.Len(t, entries, 2, "sibling prefix must not leak in")
	// ascending key order
	assert.Equal(t, "surveys/a", entries[0].Key)
	assert.Equal(t, "surveys/b", entries[1].Key)

	entries, err = db.List(ctx, Key("surveys_by_user_id", "alice"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "surveys_by_user_id/alice/a", entries[0].Key)
}

func TestListEmptyPrefix(t *testing.T) {
	db := openTestDB(t)

	entries, err := db.List(context.Background(), "sessions")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
