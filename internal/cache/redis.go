package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tysek64/DrugiTinder/internal/config"
)

// runTTL keeps finished run records around for a week.
const runTTL = 7 * 24 * time.Hour

const latestRunKey = "populate:run:latest"

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// KeyForLikeCount generates Redis key for a profile's like count
func (c *RedisCache) KeyForLikeCount(userDetailsID int64) string {
	return fmt.Sprintf("likes:count:%d", userDetailsID)
}

// ForgetLikeCounts drops every cached like count. A new run or a reset
// invalidates all of them at once.
func (c *RedisCache) ForgetLikeCounts(ctx context.Context) (int, error) {
	removed := 0
	iter := c.Client.Scan(ctx, 0, "likes:count:*", 500).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := c.Client.Del(ctx, batch...).Err(); err != nil {
				return removed, err
			}
			removed += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(batch) > 0 {
		if err := c.Client.Del(ctx, batch...).Err(); err != nil {
			return removed, err
		}
		removed += len(batch)
	}
	return removed, nil
}

// KeyForRun generates the hash key holding one run's record.
func (c *RedisCache) KeyForRun(runID string) string {
	return fmt.Sprintf("populate:run:%s", runID)
}

// Run is the ledger entry of one population run.
type Run struct {
	ID         string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
	Stages     map[string]int64 // stage -> committed rows
}

// StartRun opens the record and marks it as the latest run.
func (c *RedisCache) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	key := c.KeyForRun(runID)
	_, err := c.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "status", "running", "started_at", startedAt.UTC().Format(time.RFC3339))
		p.Expire(ctx, key, runTTL)
		p.Set(ctx, latestRunKey, runID, runTTL)
		return nil
	})
	return err
}

// AddStageRows increments the committed row count of a stage.
func (c *RedisCache) AddStageRows(ctx context.Context, runID, stage string, rows int64) error {
	return c.Client.HIncrBy(ctx, c.KeyForRun(runID), "stage:"+stage, rows).Err()
}

// FinishRun stores the final status and, on failure, the error text.
func (c *RedisCache) FinishRun(ctx context.Context, runID, status string, finishedAt time.Time, runErr error) error {
	fields := []any{"status", status, "finished_at", finishedAt.UTC().Format(time.RFC3339)}
	if runErr != nil {
		fields = append(fields, "error", runErr.Error())
	}
	return c.Client.HSet(ctx, c.KeyForRun(runID), fields...).Err()
}

// GetRun returns nil, nil for an unknown run.
func (c *RedisCache) GetRun(ctx context.Context, runID string) (*Run, error) {
	fields, err := c.Client.HGetAll(ctx, c.KeyForRun(runID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	run := &Run{ID: runID, Stages: map[string]int64{}}
	for k, v := range fields {
		switch {
		case k == "status":
			run.Status = v
		case k == "error":
			run.Error = v
		case k == "started_at":
			run.StartedAt, _ = time.Parse(time.RFC3339, v)
		case k == "finished_at":
			run.FinishedAt, _ = time.Parse(time.RFC3339, v)
		case strings.HasPrefix(k, "stage:"):
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			run.Stages[strings.TrimPrefix(k, "stage:")] = n
		}
	}
	return run, nil
}

// LatestRun returns the most recently started run, or nil when none is recorded.
func (c *RedisCache) LatestRun(ctx context.Context) (*Run, error) {
	id, err := c.Client.Get(ctx, latestRunKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	} else if err != nil {
		return nil, err
	}
	return c.GetRun(ctx, id)
}
