//go:build integration

package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	platformredis "plenario/internal/platform/redis"
	"plenario/internal/subject/models"
	"plenario/internal/subject/service"
	id "plenario/pkg/domain"
	"plenario/pkg/testutil/containers"
)

func sampleTree() []*models.TreeNode {
	subject, _ := models.NewSubject(id.SubjectID(uuid.New()), "IPTU", nil)
	return models.BuildTree([]*models.Subject{subject}, nil)
}

func TestTreeCacheRoundTrip(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	client := &platformredis.Client{Client: rc.Client}
	cache := service.NewTreeCache(client, time.Minute)
	ctx := context.Background()

	var builds atomic.Int32
	build := func() ([]*models.TreeNode, error) {
		builds.Add(1)
		return sampleTree(), nil
	}

	first, err := cache.Tree(ctx, build)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second read is served from redis without rebuilding.
	second, err := cache.Tree(ctx, build)
	require.NoError(t, err)
	require.Equal(t, first[0].Subject.Name, second[0].Subject.Name)
	require.Equal(t, int32(1), builds.Load())

	require.NoError(t, cache.Invalidate(ctx))
	_, err = cache.Tree(ctx, build)
	require.NoError(t, err)
	require.Equal(t, int32(2), builds.Load())
}

func TestTreeCacheCollapsesConcurrentMisses(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	client := &platformredis.Client{Client: rc.Client}
	cache := service.NewTreeCache(client, time.Minute)
	ctx := context.Background()

	var builds atomic.Int32
	build := func() ([]*models.TreeNode, error) {
		builds.Add(1)
		time.Sleep(50 * time.Millisecond)
		return sampleTree(), nil
	}

	const readers = 20
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Tree(ctx, build)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// Singleflight lets a handful of stragglers through at most; the point is
	// that 20 concurrent misses do not mean 20 rebuilds.
	require.LessOrEqual(t, builds.Load(), int32(2))
}
