package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstablishAndResolve(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	token, err := store.Establish(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := store.Establish(ctx, "user-1")
		require.NoError(t, err)
		require.False(t, seen[token], "token collision")
		seen[token] = true
	}
}

func TestConcurrentSessionsPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	t1, err := store.Establish(ctx, "user-1")
	require.NoError(t, err)
	t2, err := store.Establish(ctx, "user-1")
	require.NoError(t, err)

	// Establishing a second session must not invalidate the first.
	u1, err := store.Resolve(ctx, t1)
	require.NoError(t, err)
	u2, err := store.Resolve(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u1)
	assert.Equal(t, "user-1", u2)
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	userID, err := store.Resolve(ctx, "no-such-token")
	require.NoError(t, err)
	assert.Empty(t, userID)

	userID, err = store.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestResolveExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	token, err := store.Establish(ctx, "user-1")
	require.NoError(t, err)

	// Move the clock past the TTL.
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestDestroyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	token, err := store.Establish(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, token))
	require.NoError(t, store.Destroy(ctx, token))
	require.NoError(t, store.Destroy(ctx, "never-existed"))

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)
}
