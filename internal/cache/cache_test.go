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

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())
	t.Cleanup(func() {
		_ = GetClient().Close()
		SetClient(nil)
	})
	return mr
}

func TestInitRedis_UnreachableLeavesClientNil(t *testing.T) {
	InitRedis("127.0.0.1:1")
	assert.Nil(t, GetClient())

	InitRedis("redis://%%bad")
	assert.Nil(t, GetClient())
}

func TestGetSetJSON(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	var got item
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", item{ID: 1, Name: "a"}, time.Minute))
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: 1, Name: "a"}, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *[]item) func() error {
		return func() error {
			calls++
			*dest = []item{{ID: 2, Name: "b"}}
			return nil
		}
	}

	var first []item
	require.NoError(t, Aside(ctx, "posts", PostListKey, &first, PostListTTL, fetch(&first)))
	var second []item
	require.NoError(t, Aside(ctx, "posts", PostListKey, &second, PostListTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	InvalidatePosts(ctx)
	var third []item
	require.NoError(t, Aside(ctx, "posts", PostListKey, &third, PostListTTL, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestAside_WithoutRedisAlwaysFetches(t *testing.T) {
	SetClient(nil)
	var dest []item
	err := Aside(context.Background(), "polls", PollListKey, &dest, PollListTTL, func() error {
		dest = []item{{ID: 1}}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, dest, 1)

	boom := errors.New("db down")
	err = Aside(context.Background(), "polls", PollListKey, &dest, PollListTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestAside_RedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	t.Cleanup(func() { SetClient(nil) })
	mr.Close()

	var dest []item
	err := Aside(context.Background(), "polls", PollListKey, &dest, PollListTTL, func() error {
		dest = []item{{ID: 9}}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), dest[0].ID)
}

func TestInvalidatePoll(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, PollKey(4), item{ID: 4}, time.Minute))
	require.NoError(t, SetJSON(ctx, PollListKey, []item{{ID: 4}}, time.Minute))

	InvalidatePoll(ctx, 4)
	assert.False(t, mr.Exists(PollKey(4)))
	assert.False(t, mr.Exists(PollListKey))
}
