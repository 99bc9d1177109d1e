package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/db/dbtest"
	"github.com/Tysek64/DrugiTinder/internal/repository"
)

var at = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

// seedSwipes inserts a deterministic swipe set:
//   - 1 ↔ 2 like each other (matched)
//   - 3 → 1 like, but 1 passed 3
//   - 4 → 1 and 5 → 1 like, unanswered
func seedSwipes(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	swipes := []db.Swipe{
		{FkSwipingUserDetailsID: 1, FkSwipedUserDetailsID: 2, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 2, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: at.Add(time.Minute)},
		{FkSwipingUserDetailsID: 3, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 1, FkSwipedUserDetailsID: 3, Result: false, SwipeTime: at},
		{FkSwipingUserDetailsID: 4, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 5, FkSwipedUserDetailsID: 1, Result: true, SwipeTime: at},
	}
	require.NoError(t, gdb.Create(&swipes).Error)
	require.NoError(t, gdb.Create(&db.Match{FkPerson1ID: 1, FkPerson2ID: 2, DateFormed: at, Status: "active"}).Error)
}

func TestGetLikersAndPagination(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)
	repo := repository.NewSwipeRepository(gdb)

	first, next, err := repo.GetLikers(ctx, 1, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, next)
	// newest first, then by actor id descending
	assert.Equal(t, int64(2), first[0].FkSwipingUserDetailsID)
	assert.Equal(t, int64(5), first[1].FkSwipingUserDetailsID)

	second, next, err := repo.GetLikers(ctx, 1, next, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Nil(t, next)
	assert.Equal(t, int64(4), second[0].FkSwipingUserDetailsID)
}

func TestGetNewLikers(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)
	repo := repository.NewSwipeRepository(gdb)

	swipes, _, err := repo.GetNewLikers(ctx, 1, nil, 10)
	require.NoError(t, err)
	var actors []int64
	for _, s := range swipes {
		actors = append(actors, s.FkSwipingUserDetailsID)
	}
	assert.Equal(t, []int64{5, 4}, actors)
}

func TestCountLikersAndHasLiked(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)
	repo := repository.NewSwipeRepository(gdb)

	n, err := repo.CountLikers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	liked, err := repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasLiked(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestGetLikersRejectsBadToken(t *testing.T) {
	repo := repository.NewSwipeRepository(dbtest.Open(t))
	bad := "%%%"
	_, _, err := repo.GetLikers(context.Background(), 1, &bad, 5)
	assert.Error(t, err)
}

func findings(t *testing.T, gdb *gorm.DB) map[string]int64 {
	t.Helper()
	got, err := repository.NewAuditRepository(gdb).Audit(context.Background())
	require.NoError(t, err)
	out := map[string]int64{}
	for _, f := range got {
		out[f.Check] = f.Violations
	}
	return out
}

func TestAuditCleanData(t *testing.T) {
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)

	for check, n := range findings(t, gdb) {
		assert.Zero(t, n, check)
	}
}

func TestAuditFindsViolations(t *testing.T) {
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)

	require.NoError(t, gdb.Create(&[]db.Swipe{
		{FkSwipingUserDetailsID: 7, FkSwipedUserDetailsID: 7, Result: true, SwipeTime: at},
		// mutual like without a match
		{FkSwipingUserDetailsID: 8, FkSwipedUserDetailsID: 9, Result: true, SwipeTime: at},
		{FkSwipingUserDetailsID: 9, FkSwipedUserDetailsID: 8, Result: true, SwipeTime: at},
	}).Error)
	require.NoError(t, gdb.Create(&[]db.Match{
		{FkPerson1ID: 4, FkPerson2ID: 1, DateFormed: at, Status: "active"},
		{FkPerson1ID: 3, FkPerson2ID: 5, DateFormed: at, Status: "active"},
	}).Error)
	require.NoError(t, gdb.Create(&db.Report{
		Reason: "spam", ReportDate: at, FkReportingUserDetailsID: 2, FkReportedUserDetailsID: 2,
	}).Error)
	require.NoError(t, gdb.Create(&db.Block{
		FkBlockingUserDetailsID: 3, FkBlockedUserDetailsID: 3, StartDate: at,
	}).Error)

	got := findings(t, gdb)
	assert.Equal(t, int64(1), got["self swipes"])
	assert.Equal(t, int64(1), got["non-canonical matches"])
	assert.Equal(t, int64(0), got["duplicate matches"])
	assert.Equal(t, int64(2), got["one-sided matches"])
	assert.Equal(t, int64(1), got["missed matches"])
	assert.Equal(t, int64(1), got["self reports"])
	assert.Equal(t, int64(1), got["self blocks"])
}

func TestAuditCounts(t *testing.T) {
	gdb := dbtest.Open(t)
	seedSwipes(t, gdb)

	counts, err := repository.NewAuditRepository(gdb).Counts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, len(db.Models()))

	byTable := map[string]int64{}
	for _, c := range counts {
		byTable[c.Table] = c.Rows
	}
	assert.Equal(t, int64(6), byTable["swipe"])
	assert.Equal(t, int64(1), byTable["match"])
	assert.Zero(t, byTable["user"])
}
