package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherblog/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*PostCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPostCache(client, ttl), server
}

func TestPostCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	posts, hit, err := cache.GetPosts(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, posts)
}

func TestPostCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, time.Minute)

	in := []model.Post{
		{ID: 1, Title: "hi", Content: "body", AuthorID: 7},
		{ID: 2, Title: "again", Content: "more", AuthorID: 7},
	}
	require.NoError(t, cache.SetPosts(ctx, 7, in))
	assert.True(t, server.Exists("blog:posts:7"))

	out, hit, err := cache.GetPosts(ctx, 7)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, out, 2)
	assert.Equal(t, "hi", out[0].Title)
	assert.Equal(t, uint(7), out[1].AuthorID)

	require.NoError(t, cache.DeletePosts(ctx, 7))
	_, hit, err = cache.GetPosts(ctx, 7)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestPostCacheEmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Minute)

	require.NoError(t, cache.SetPosts(ctx, 3, nil))
	out, hit, err := cache.GetPosts(ctx, 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestPostCacheExpires(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, 30*time.Second)

	require.NoError(t, cache.SetPosts(ctx, 1, []model.Post{{ID: 1}}))
	assert.Equal(t, 30*time.Second, server.TTL("blog:posts:1"))

	server.FastForward(31 * time.Second)
	_, hit, err := cache.GetPosts(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestPostCacheCorruptEntry(t *testing.T) {
	cache, server := newTestCache(t, time.Minute)
	require.NoError(t, server.Set("blog:posts:9", "not-json"))

	_, hit, err := cache.GetPosts(context.Background(), 9)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNewPostCacheDefaultTTL(t *testing.T) {
	cache := NewPostCache(nil, 0)
	assert.Equal(t, 60*time.Second, cache.ttl)
}
