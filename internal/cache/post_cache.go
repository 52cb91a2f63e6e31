package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"gopherblog/internal/model"
)

// PostCache keeps each author's post listing in Redis for a short TTL.
type PostCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewPostCache(client *redisv9.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &PostCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *PostCache) GetPosts(ctx context.Context, authorID uint) ([]model.Post, bool, error) {
	raw, err := c.client.Get(ctx, c.postsKey(authorID)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get posts failed: %w", err)
	}

	posts := make([]model.Post, 0)
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached posts failed: %w", err)
	}
	return posts, true, nil
}

func (c *PostCache) SetPosts(ctx context.Context, authorID uint, posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	payload, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal posts cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.postsKey(authorID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set posts failed: %w", err)
	}
	return nil
}

func (c *PostCache) DeletePosts(ctx context.Context, authorID uint) error {
	if err := c.client.Del(ctx, c.postsKey(authorID)).Err(); err != nil {
		return fmt.Errorf("redis delete posts failed: %w", err)
	}
	return nil
}

func (c *PostCache) postsKey(authorID uint) string {
	return fmt.Sprintf("blog:posts:%d", authorID)
}
