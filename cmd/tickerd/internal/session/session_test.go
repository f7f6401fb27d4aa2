package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/session"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/testutils"
)

func TestMemoryBackend_ScopesSessions(t *testing.T) {
	ctx := context.Background()
	b := session.NewMemoryBackend(0)

	a := b.Scoped("tab-a")
	other := b.Scoped("tab-b")

	_, err := a.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrAbsent)

	require.NoError(t, a.Set(ctx, "k", "v1"))
	got, err := a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	_, err = other.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrAbsent, "sessions must not share keys")

	// a reconnect gets a fresh handle to the same session
	again, err := b.Scoped("tab-a").Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", again)
}

func TestMemoryBackend_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clk := &testutils.MockClock{CurrentTime: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	b := session.NewMemoryBackend(30 * time.Minute).WithClock(clk)
	s := b.Scoped("tab")

	require.NoError(t, s.Set(ctx, "k", "v1"))

	clk.Advance(20 * time.Minute)
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	// a write slides the expiry
	require.NoError(t, s.Set(ctx, "k2", "v2"))
	clk.Advance(20 * time.Minute)
	_, err = s.Get(ctx, "k")
	require.NoError(t, err, "still inside the ttl of the last write")

	clk.Advance(11 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrAbsent)
	_, err = s.Get(ctx, "k2")
	assert.ErrorIs(t, err, session.ErrAbsent)
	assert.Equal(t, 0, b.Len())

	// an expired session starts over on write
	require.NoError(t, s.Set(ctx, "k2", "fresh"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrAbsent)
}

func TestMemoryBackend_SweepsAbandonedSessions(t *testing.T) {
	ctx := context.Background()
	clk := &testutils.MockClock{CurrentTime: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	b := session.NewMemoryBackend(time.Minute).WithClock(clk)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, b.Scoped(id).Set(ctx, "k", "v"))
	}
	assert.Equal(t, 3, b.Len())

	// nobody reads a, b or c again; a write elsewhere clears them
	clk.Advance(2 * time.Minute)
	require.NoError(t, b.Scoped("d").Set(ctx, "k", "v"))
	assert.Equal(t, 1, b.Len())
}

func TestRedisBackend_RoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := session.NewRedisBackend(rdb, 10*time.Minute)
	defer b.Close()

	require.NoError(t, b.Ping(ctx))

	s := b.Scoped("abc")
	_, err := s.Get(ctx, "live-ticker:epoch-start")
	assert.ErrorIs(t, err, session.ErrAbsent)

	require.NoError(t, s.Set(ctx, "live-ticker:epoch-start", "1700000000000"))
	got, err := s.Get(ctx, "live-ticker:epoch-start")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", got)

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, 10*time.Minute, mr.TTL("session:abc"))

	mr.FastForward(11 * time.Minute)
	_, err = s.Get(ctx, "live-ticker:epoch-start")
	assert.ErrorIs(t, err, session.ErrAbsent, "session state must not outlive the session")
}

func TestRedisBackend_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := session.NewRedisBackend(rdb, time.Minute).Scoped("x")

	mr.Close()

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrAbsent)
	assert.Error(t, s.Set(ctx, "k", "v"))
}
