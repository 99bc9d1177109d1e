package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tysek64/DrugiTinder/internal/config"
	"github.com/Tysek64/DrugiTinder/internal/db/dbtest"
	"github.com/Tysek64/DrugiTinder/internal/sink"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.DB.Provider = "sqlite"
	cfg.DB.DSN = "file::memory:"
	cfg.Redis.Addr = ""
	return cfg
}

func TestOpenWithoutRedis(t *testing.T) {
	a, err := Open(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.DB)
	assert.Nil(t, a.RedisCache)
}

func TestOpenWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.Redis.Addr = mr.Addr()

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.RedisCache)
	assert.NoError(t, a.RedisCache.Ping(context.Background()))
}

func TestOpenSkipsUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.RedisCache)
}

func TestSinkForGormProviders(t *testing.T) {
	cfg := sqliteConfig(t)
	a := New(cfg, dbtest.Open(t), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s, release, err := a.Sink(context.Background())
	require.NoError(t, err)
	defer release()
	assert.IsType(t, &sink.Gorm{}, s)
}
