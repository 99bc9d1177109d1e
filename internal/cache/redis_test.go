package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tysek64/DrugiTinder/internal/config"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	c := NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRunLedgerLifecycle(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(ctx))

	started := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.StartRun(ctx, "r1", started))
	require.NoError(t, c.AddStageRows(ctx, "r1", "swipe", 500))
	require.NoError(t, c.AddStageRows(ctx, "r1", "swipe", 250))
	require.NoError(t, c.AddStageRows(ctx, "r1", "match", 12))
	require.NoError(t, c.FinishRun(ctx, "r1", "aborted", started.Add(time.Minute), errors.New("stage ban failed")))

	assert.True(t, mr.Exists("populate:run:r1"))
	assert.Greater(t, mr.TTL("populate:run:r1"), time.Duration(0))

	run, err := c.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "r1", run.ID)
	assert.Equal(t, "aborted", run.Status)
	assert.Equal(t, "stage ban failed", run.Error)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, map[string]int64{"swipe": 750, "match": 12}, run.Stages)
}

func TestLatestRunEmpty(t *testing.T) {
	c, _ := newTestCache(t)

	run, err := c.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run)

	run, err = c.GetRun(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestForgetLikeCounts(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	for id := int64(1); id <= 3; id++ {
		require.NoError(t, c.Set(ctx, c.KeyForLikeCount(id), id*10, time.Hour))
	}
	require.NoError(t, c.StartRun(ctx, "r1", time.Now()))

	got, err := c.Get(ctx, "likes:count:2")
	require.NoError(t, err)
	assert.Equal(t, "20", got)

	removed, err := c.ForgetLikeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.False(t, mr.Exists("likes:count:1"))
	assert.True(t, mr.Exists("populate:run:r1"))
}
