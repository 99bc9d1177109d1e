package sink_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/db/dbtest"
	"github.com/Tysek64/DrugiTinder/internal/sink"
)

func TestGorm_BulkLoadAndFetch(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	s := sink.NewGorm(database)

	rows := [][]any{{"Female"}, {"Male"}, {"Other"}}
	require.NoError(t, s.BulkLoad(ctx, "sex", []string{"name"}, rows))

	ids, err := s.FetchIDs(ctx, "sex")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	var names []string
	require.NoError(t, database.Model(&db.Sex{}).Order("id").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Female", "Male", "Other"}, names)
}

func TestGorm_BulkLoadIsAtomic(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	s := sink.NewGorm(database)

	// second row violates the unique name index
	err := s.BulkLoad(ctx, "sex", []string{"name"}, [][]any{{"A"}, {"A"}})
	require.Error(t, err)

	var n int64
	require.NoError(t, database.Model(&db.Sex{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGorm_InsertReturningReservedTable(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	s := sink.NewGorm(database)

	now := time.Now().UTC()
	rows := [][]any{
		{"ala", "ala@example.com", "hash", now},
		{"ola", "ola@example.com", "hash", now},
	}
	ids, err := s.InsertReturning(ctx, "user", []string{"username", "email", "password_hash", "created_at"}, rows)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	var u db.User
	require.NoError(t, database.First(&u, ids[1]).Error)
	assert.Equal(t, "ola", u.Username)

	matchIDs, err := s.InsertReturning(ctx, "match",
		[]string{"fk_person1_id", "fk_person2_id", "date_formed", "status"},
		[][]any{{int64(1), int64(2), now, "active"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, matchIDs)
}

func TestGorm_NullableColumns(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	s := sink.NewGorm(database)

	now := time.Now().UTC()
	cols := []string{"name", "surname", "fk_sex_id", "fk_city_id", "fk_subscription_id", "fk_search_preference_id", "fk_user_id", "created_at"}
	require.NoError(t, s.BulkLoad(ctx, "user_details", cols, [][]any{
		{"Jan", "Kowalski", int64(1), nil, nil, int64(1), int64(1), now},
		{"Anna", "Nowak", int64(2), int64(3), nil, nil, int64(2), now},
	}))

	var details []db.UserDetails
	require.NoError(t, database.Order("id").Find(&details).Error)
	require.Len(t, details, 2)
	assert.Nil(t, details[0].FkCityID)
	require.NotNil(t, details[1].FkCityID)
	assert.Equal(t, int64(3), *details[1].FkCityID)
}
