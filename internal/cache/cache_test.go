package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute), mr
}

func TestFetchJSON_CachesLoaderResult(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Name: "skincare", Count: 2}, nil
	}

	var first, second payload
	require.NoError(t, c.FetchJSON(ctx, "k", &first, loader))
	require.NoError(t, c.FetchJSON(ctx, "k", &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, payload{Name: "skincare", Count: 2}, first)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("k"))
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestFetchJSON_LoaderError(t *testing.T) {
	c, mr := newTestCache(t)
	wantErr := errors.New("boom")

	var dest payload
	err := c.FetchJSON(context.Background(), "k", &dest, func(context.Context) (any, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, mr.Exists("k"))
}

func TestFetchJSON_RequiresLoader(t *testing.T) {
	c, _ := newTestCache(t)
	var dest payload
	assert.Error(t, c.FetchJSON(context.Background(), "k", &dest, nil))
}

func TestFetchJSON_NoClientPassthrough(t *testing.T) {
	for name, c := range map[string]*Cache{"nil cache": nil, "no client": New(nil, time.Minute)} {
		t.Run(name, func(t *testing.T) {
			calls := 0
			loader := func(context.Context) (any, error) {
				calls++
				return payload{Count: calls}, nil
			}

			var dest payload
			require.NoError(t, c.FetchJSON(context.Background(), "k", &dest, loader))
			require.NoError(t, c.FetchJSON(context.Background(), "k", &dest, loader))
			assert.Equal(t, 2, calls)
			assert.Equal(t, 2, dest.Count)
			assert.False(t, c.Enabled())
		})
	}
}

func TestFetchJSON_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var dest payload
	err := c.FetchJSON(context.Background(), "k", &dest, func(context.Context) (any, error) {
		return payload{}, nil
	})
	assert.Error(t, err)
}

func TestBuildKeyAndBump(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "dashboard", "abc")
	require.NoError(t, err)
	assert.Equal(t, "dashboard:abc:1", key)

	require.NoError(t, c.Bump(ctx))

	key, err = c.BuildKey(ctx, "dashboard", "abc")
	require.NoError(t, err)
	assert.Equal(t, "dashboard:abc:2", key)

	var disabled *Cache
	key, err = disabled.BuildKey(ctx, "dashboard", "abc")
	require.NoError(t, err)
	assert.Equal(t, "dashboard:abc", key)
	assert.NoError(t, disabled.Bump(ctx))
	assert.NoError(t, disabled.Close())
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Connect(context.Background(), Options{Addr: mr.Addr(), TTL: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.True(t, c.Enabled())

	disabled, err := Connect(context.Background(), Options{})
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
}
