package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewWithClient(client, "", ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)
	defer s.Close()

	_, ok, err := s.Get(ctx, "crag", "q")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "crag", "q", []byte(`{"answer":"paris"}`)))

	payload, ok, err := s.Get(ctx, "crag", "q")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"answer":"paris"}`, string(payload))

	// Different strategy, same question: separate entry.
	_, ok, err = s.Get(ctx, "selfrag", "q")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Minute)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "crag", "q", []byte("payload")))

	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Get(ctx, "crag", "q")
	require.NoError(t, err)
	assert.False(t, ok)
}
