package explore_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tysek64/DrugiTinder/internal/app"
	"github.com/Tysek64/DrugiTinder/internal/cache"
	"github.com/Tysek64/DrugiTinder/internal/config"
	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/db/dbtest"
	"github.com/Tysek64/DrugiTinder/internal/service/explore"
)

//
// Test helpers
//

// seedSwipes inserts a minimal, deterministic swipe set.
//
// Dataset:
//   - 1 → 2 like, 2 → 1 like (mutual)
//   - 3 → 1 like, but 1 → 3 pass, so 3 is excluded everywhere
func seedSwipes(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	swipes := []db.Swipe{
		{FkSwipingUserDetailsID: 1, FkSwipedUserDetailsID: 2, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 2, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 3, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 1, FkSwipedUserDetailsID: 3, Result: false, SwipeTime: at},
	}
	require.NoError(t, gdb.Create(&swipes).Error)
}

// setupService wires an in-memory SQLite DB and, optionally, a miniredis
// into a Service. Each test gets its own isolated DB + Redis.
func setupService(t *testing.T, withRedis bool) (*explore.Service, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)

	cfg := config.New()
	var rc *cache.RedisCache
	var mr *miniredis.Miniredis
	if withRedis {
		mr = miniredis.RunT(t)
		cfg.Redis.Addr = mr.Addr()
		rc = cache.NewRedisCache(cfg)
		t.Cleanup(func() { _ = rc.Close() })
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	return explore.NewExploreService(app.New(cfg, gdb, rc, log)), gdb, mr
}

//
// Tests
//

func TestListLikedYou(t *testing.T) {
	svc, _, _ := setupService(t, false)

	page, err := svc.ListLikedYou(context.Background(), 1, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Likers, 1)
	assert.Equal(t, int64(2), page.Likers[0].ActorID)
	assert.Nil(t, page.NextToken)
}

func TestListNewLikedYou(t *testing.T) {
	svc, _, _ := setupService(t, false)

	page, err := svc.ListNewLikedYou(context.Background(), 1, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Likers)
}

func TestCountLikedYouWithoutRedis(t *testing.T) {
	svc, _, _ := setupService(t, false)

	n, err := svc.CountLikedYou(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// TestCountLikedYouCache checks the second call is served from redis even
// after the table changed.
func TestCountLikedYouCache(t *testing.T) {
	ctx := context.Background()
	svc, gdb, mr := setupService(t, true)

	n, err := svc.CountLikedYou(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, mr.Exists("likes:count:1"))

	require.NoError(t, gdb.Create(&db.Swipe{
		FkSwipingUserDetailsID: 9, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: time.Now().UTC(),
	}).Error)

	n, err = svc.CountLikedYou(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIsMatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, false)

	ok, err := svc.IsMatch(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsMatch(ctx, 3, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
