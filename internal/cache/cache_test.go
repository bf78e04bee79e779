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

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

type row struct {
	ID      string `json:"_id"`
	Sorting int    `json:"sorting"`
}

func TestFetch_ReadsThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := New(client, time.Minute, nil)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]row, error) {
		calls++
		return []row{{ID: "a", Sorting: 1}}, nil
	}

	got, err := Fetch(ctx, c, "skills", load)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "a", Sorting: 1}}, got)

	got, err = Fetch(ctx, c, "skills", load)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists("portfolio:list:skills"))
	assert.Equal(t, time.Minute, mr.TTL("portfolio:list:skills"))
}

func TestInvalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := New(client, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "projects", []row{{ID: "p"}}))
	require.NoError(t, c.Set(ctx, "categs", []row{{ID: "c"}}))

	require.NoError(t, c.Invalidate(ctx, "projects", "categs"))
	assert.False(t, mr.Exists("portfolio:list:projects"))
	assert.False(t, mr.Exists("portfolio:list:categs"))
}

func TestFetch_InvalidationDuringLoadWins(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := New(client, time.Minute, nil)
	ctx := context.Background()

	stale := []row{{ID: "a", Sorting: 1}}
	fresh := []row{{ID: "a", Sorting: 1}, {ID: "b", Sorting: 2}}

	// The loader reads the table, then a write lands and invalidates
	// before the loader returns its snapshot.
	got, err := Fetch(ctx, c, "skills", func(ctx context.Context) ([]row, error) {
		require.NoError(t, c.Invalidate(ctx, "skills"))
		return stale, nil
	})
	require.NoError(t, err)
	assert.Equal(t, stale, got)
	assert.False(t, mr.Exists("portfolio:list:skills"))

	calls := 0
	got, err = Fetch(ctx, c, "skills", func(context.Context) ([]row, error) {
		calls++
		return fresh, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, fresh, got)
	assert.True(t, mr.Exists("portfolio:list:skills"))
	assert.Equal(t, time.Minute, mr.TTL("portfolio:list:skills"))
}

func TestInvalidate_BumpsVersion(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := New(client, 0, nil)
	ctx := context.Background()

	require.NoError(t, c.Invalidate(ctx, "skills"))
	require.NoError(t, c.Invalidate(ctx, "skills"))
	v, err := mr.Get("portfolio:ver:skills")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	_, err = Fetch(ctx, c, "skills", func(context.Context) ([]row, error) { return []row{{ID: "a"}}, nil })
	require.NoError(t, err)
	assert.True(t, mr.Exists("portfolio:list:skills"))
	assert.Zero(t, mr.TTL("portfolio:list:skills"))
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := New(client, time.Minute, nil)

	_, err := Fetch(context.Background(), c, "skills", func(context.Context) ([]row, error) {
		return nil, errors.New("db down")
	})
	require.Error(t, err)
	assert.False(t, mr.Exists("portfolio:list:skills"))
}

func TestFetch_RedisDownFallsBackToLoad(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := New(client, time.Minute, nil)
	mr.Close()

	got, err := Fetch(context.Background(), c, "skills", func(context.Context) ([]row, error) {
		return []row{{ID: "a"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNilCache(t *testing.T) {
	var c *ListCache
	assert.Nil(t, New(nil, time.Minute, nil))

	got, err := Fetch(context.Background(), c, "x", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.NoError(t, c.Ping(context.Background()))
	c.Drop(context.Background(), "x")
}
