package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/db/dbtest"
	"github.com/Tysek64/DrugiTinder/internal/generate"
	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/sink"
)

func rowCount(t *testing.T, database *gorm.DB, model any) int {
	t.Helper()
	var n int64
	require.NoError(t, database.Model(model).Count(&n).Error)
	return int(n)
}

func populate(t *testing.T) (*gorm.DB, *generate.Env) {
	t.Helper()
	database := dbtest.Open(t)
	env := newEnv(t)

	p := &env.Cfg
	p.UsersNumber = 120
	p.AdminsNumber = 3
	p.UserBatchSize = 50
	p.MinUserSwipes = 10
	p.MaxUserSwipes = 30
	p.RightSwipeRatio = 70
	p.ConversationRatio = 50
	p.MaxConversationLength = 6
	p.SubscriptionRatio = 25
	p.UserReportRatio = 10
	p.ReportBanRatio = 100
	p.MatchBlockRatio = 10
	p.UserBlockRatio = 5
	p.CitiesPerCountry = 2

	_, err := New(Stages(), env, sink.NewGorm(database), nil).Run(context.Background(), "e2e")
	require.NoError(t, err)
	return database, env
}

func TestPopulateSQLite(t *testing.T) {
	database, env := populate(t)

	assert.Equal(t, 123, rowCount(t, database, &db.User{}))
	assert.Equal(t, 120, rowCount(t, database, &db.UserDetails{}))
	assert.Equal(t, 120, rowCount(t, database, &db.SearchPreference{}))
	assert.Equal(t, 3, rowCount(t, database, &db.Administrator{}))
	assert.Equal(t, 30, rowCount(t, database, &db.Subscription{}))
	assert.Equal(t, 12, rowCount(t, database, &db.Report{}))
	assert.Equal(t, 12, rowCount(t, database, &db.Ban{}))

	// pools match what was committed
	assert.Equal(t, 120, env.Pools.Get(pool.UserDetails).Len())
	assert.Equal(t, 3, env.Pools.Get(pool.AdminUser).Len())
	assert.Equal(t, rowCount(t, database, &db.Match{}), env.Pools.Get(pool.Match).Len())
	assert.Equal(t, rowCount(t, database, &db.Conversation{}), env.Pools.Get(pool.Conversation).Len())

	var profiles []db.UserDetails
	require.NoError(t, database.Find(&profiles).Error)
	subs := map[int64]bool{}
	for _, p := range profiles {
		if p.FkSubscriptionID != nil {
			assert.False(t, subs[*p.FkSubscriptionID], "subscription %d assigned twice", *p.FkSubscriptionID)
			subs[*p.FkSubscriptionID] = true
		}
		assert.NotNil(t, p.FkSearchPreferenceID)
	}
	assert.Len(t, subs, 30)
}

func TestPopulatedMatchesAreMutual(t *testing.T) {
	database, _ := populate(t)

	var swipes []db.Swipe
	require.NoError(t, database.Find(&swipes).Error)
	require.NotEmpty(t, swipes)

	liked := map[[2]int64]bool{}
	for _, s := range swipes {
		require.NotEqual(t, s.FkSwipingUserDetailsID, s.FkSwipedUserDetailsID)
		if s.Result {
			liked[[2]int64{s.FkSwipingUserDetailsID, s.FkSwipedUserDetailsID}] = true
		}
	}

	want := 0
	for pair := range liked {
		if pair[0] < pair[1] && liked[[2]int64{pair[1], pair[0]}] {
			want++
		}
	}

	var matches []db.Match
	require.NoError(t, database.Find(&matches).Error)
	assert.Len(t, matches, want)
	for _, m := range matches {
		assert.Less(t, m.FkPerson1ID, m.FkPerson2ID)
		assert.True(t, liked[[2]int64{m.FkPerson1ID, m.FkPerson2ID}])
		assert.True(t, liked[[2]int64{m.FkPerson2ID, m.FkPerson1ID}])
	}
}

func TestPopulatedSafetyRecords(t *testing.T) {
	database, env := populate(t)

	var reports []db.Report
	require.NoError(t, database.Find(&reports).Error)
	byID := map[int64]db.Report{}
	for _, r := range reports {
		assert.NotEqual(t, r.FkReportingUserDetailsID, r.FkReportedUserDetailsID)
		byID[r.ID] = r
	}

	var bans []db.Ban
	require.NoError(t, database.Find(&bans).Error)
	for _, b := range bans {
		r, ok := byID[b.FkReportID]
		require.True(t, ok)
		assert.Equal(t, r.FkReportedUserDetailsID, b.FkUserDetailsID)
		assert.GreaterOrEqual(t, b.PeriodDays, env.Cfg.MinBanLength)
		assert.LessOrEqual(t, b.PeriodDays, env.Cfg.MaxBanLength)
	}

	var blocks []db.Block
	require.NoError(t, database.Find(&blocks).Error)
	for _, b := range blocks {
		assert.NotEqual(t, b.FkBlockingUserDetailsID, b.FkBlockedUserDetailsID)
	}

	var messages []db.Message
	require.NoError(t, database.Find(&messages).Error)
	for _, m := range messages {
		assert.False(t, m.SendTime.After(env.Now))
	}
}

func TestPopulateWithoutInteractions(t *testing.T) {
	database := dbtest.Open(t)
	env := newEnv(t)
	env.Cfg.UsersNumber = 1
	env.Cfg.AdminsNumber = 0
	env.Cfg.CitiesPerCountry = 1

	sum, err := New(Stages(), env, sink.NewGorm(database), nil).Run(context.Background(), "tiny")
	require.NoError(t, err)
	assert.Len(t, sum.Stages, len(Stages()))

	assert.Equal(t, 1, rowCount(t, database, &db.UserDetails{}))
	assert.Zero(t, rowCount(t, database, &db.Swipe{}))
	assert.Zero(t, rowCount(t, database, &db.Match{}))
	assert.Zero(t, rowCount(t, database, &db.Report{}))
	assert.True(t, env.Pools.Has(pool.Match))
}
