package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/db/dbtest"
)

func TestMigrateCreatesEveryTable(t *testing.T) {
	database := dbtest.Open(t)

	for _, m := range db.Models() {
		assert.True(t, database.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, database.Migrator().HasTable("user"))
	assert.True(t, database.Migrator().HasTable("match"))
}

func TestResetEmptiesTablesAndRestartsIDs(t *testing.T) {
	database := dbtest.Open(t)

	require.NoError(t, database.Create(&db.Sex{Name: "Female"}).Error)
	require.NoError(t, database.Create(&db.User{Username: "a", Email: "a@x", PasswordHash: "h", CreatedAt: time.Now()}).Error)
	require.NoError(t, database.Create(&db.Match{FkPerson1ID: 1, FkPerson2ID: 2, DateFormed: time.Now(), Status: "active"}).Error)

	require.NoError(t, db.Reset(database))

	var n int64
	for _, m := range []any{&db.Sex{}, &db.User{}, &db.Match{}} {
		require.NoError(t, database.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}

	sex := db.Sex{Name: "Male"}
	require.NoError(t, database.Create(&sex).Error)
	assert.Equal(t, int64(1), sex.ID)
}
