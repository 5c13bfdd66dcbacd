package service

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	platformredis "plenario/internal/platform/redis"
	"plenario/internal/subject/models"
)

const treeCacheKey = "plenario:subject:tree"

// TreeCache is the redis read-side cache in front of the taxonomy tree
// build. Concurrent misses collapse into one rebuild via singleflight; the
// store stays the source of truth and entries expire on a short TTL.
type TreeCache struct {
	client *platformredis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewTreeCache constructs the cache. A nil client disables it.
func NewTreeCache(client *platformredis.Client, ttl time.Duration) *TreeCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Tree returns the cached tree, rebuilding through build on a miss. Cache
// failures degrade to a direct build, never to an error.
func (c *TreeCache) Tree(ctx context.Context, build func() ([]*models.TreeNode, error)) ([]*models.TreeNode, error) {
	payload, err := c.client.Get(ctx, treeCacheKey).Bytes()
	if err == nil {
		var tree []*models.TreeNode
		if jsonErr := json.Unmarshal(payload, &tree); jsonErr == nil {
			return tree, nil
		}
		// Corrupt entry; drop it and rebuild.
		_ = c.client.Del(ctx, treeCacheKey).Err()
	}

	result, err, _ := c.group.Do(treeCacheKey, func() (any, error) {
		tree, err := build()
		if err != nil {
			return nil, err
		}
		if payload, jsonErr := json.Marshal(tree); jsonErr == nil {
			_ = c.client.Set(ctx, treeCacheKey, payload, c.ttl).Err()
		}
		return tree, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*models.TreeNode), nil
}

// Invalidate drops the cached tree.
func (c *TreeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, treeCacheKey).Err()
}
