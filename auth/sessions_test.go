package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyforge/kv"
)

func newTestSessions(t *testing.T, ttl time.Duration) *Sessions {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessions(db, ttl)
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := newTestSessions(t, time.Hour)
	ctx := context.Background()

	created, err := sessions.Create(ctx, "alice", "gho_token")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, ok, err := sessions.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Login)
	assert.Equal(t, "gho_token", got.AccessToken)
}

func TestSessionUnknownID(t *testing.T) {
	sessions := newTestSessions(t, time.Hour)

	_, ok, err := sessions.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	sessions := newTestSessions(t, -time.Second)
	ctx := context.Background()

	created, err := sessions.Create(ctx, "alice", "gho_token")
	require.NoError(t, err)

	_, ok, err := sessions.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionDestroy(t *testing.T) {
	sessions := newTestSessions(t, time.Hour)
	ctx := context.Background()

	created, err := sessions.Create(ctx, "alice", "gho_token")
	require.NoError(t, err)

	err = sessions.Destroy(ctx, created.ID)
	require.NoError(t, err)

	_, ok, err := sessions.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDestroyUnknownIDIsQuiet(t *testing.T) {
	sessions := newTestSessions(t, time.Hour)

	err := sessions.Destroy(context.Background(), "nope")
	assert.NoError(t, err)
}
