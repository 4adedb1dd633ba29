package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overview struct {
	Rounds int `json:"rounds"`
}

func newJSON(t *testing.T) (*JSON, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewJSON(rdb, "test", time.Minute), mr
}

func TestFetch_LoadsOnceThenHits(t *testing.T) {
	c, mr := newJSON(t)
	calls := 0
	load := func(context.Context) (overview, error) {
		calls++
		return overview{Rounds: 12}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, "dash", load)
		require.NoError(t, err)
		assert.Equal(t, 12, got.Rounds)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("test:dash"))

	mr.FastForward(2 * time.Minute)
	_, err := Fetch(context.Background(), c, "dash", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entries reload")
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	c, mr := newJSON(t)
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, "dash", func(context.Context) (overview, error) { return overview{}, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("test:dash"))
}

func TestFetch_NilCacheAlwaysLoads(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Fetch(context.Background(), nil, "k", func(context.Context) (int, error) { calls++; return 1, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestDeleteAndPurge(t *testing.T) {
	c, mr := newJSON(t)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		_, err := Fetch(ctx, c, k, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
	require.NoError(t, mr.Set("other:a", "keep"))

	require.NoError(t, c.Delete(ctx, "a"))
	assert.False(t, mr.Exists("test:a"))
	assert.True(t, mr.Exists("test:b"))

	require.NoError(t, c.Purge(ctx))
	assert.False(t, mr.Exists("test:b"))
	assert.False(t, mr.Exists("test:c"))
	assert.True(t, mr.Exists("other:a"))
}
