package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_OverlaysYAMLOnDefaults(t *testing.T) {
	t.Setenv("DB_PROVIDER", "sqlite")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_DSN", "")
	path := writeConfig(t, `
database_name: dating
users_number: 250
subscription_ratio: 20.0
max_user_swipes: 7
right_swipe_ratio: 55.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Population.UsersNumber)
	assert.Equal(t, 20.0, cfg.Population.SubscriptionRatio)
	assert.Equal(t, 7, cfg.Population.MaxUserSwipes)
	assert.Equal(t, 55.5, cfg.Population.RightSwipeRatio)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultPopulation().AdminsNumber, cfg.Population.AdminsNumber)
	assert.Equal(t, "dating", cfg.DB.Name)
	assert.Equal(t, "dating.db", cfg.DB.DSN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PROVIDER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "loader")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "tinder")
	t.Setenv("DB_DSN", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "loader:secret@tcp(db.internal:3306)/tinder?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		field string
		mut   func(p *Population)
	}{
		{"ratio above 100", "right_swipe_ratio", func(p *Population) { p.RightSwipeRatio = 120 }},
		{"negative ratio", "subscription_ratio", func(p *Population) { p.SubscriptionRatio = -1 }},
		{"negative count", "users_number", func(p *Population) { p.UsersNumber = -5 }},
		{"no users", "users_number", func(p *Population) { p.UsersNumber = 0 }},
		{"inverted ban range", "max_ban_length", func(p *Population) { p.MinBanLength, p.MaxBanLength = 10, 2 }},
		{"inverted swipe range", "max_user_swipes", func(p *Population) { p.MinUserSwipes, p.MaxUserSwipes = 5, 1 }},
		{"zero batch", "user_batch_size", func(p *Population) { p.UserBatchSize = 0 }},
		{"cheap hash", "password_hash_cost", func(p *Population) { p.PasswordHashCost = 1 }},
		{"empty conversations", "max_conversation_length", func(p *Population) { p.MaxConversationLength = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPopulation()
			tc.mut(&p)

			err := p.Validate()
			var ce *perr.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
		})
	}
}

func TestValidate_Provider(t *testing.T) {
	cfg := New()
	cfg.DB.Provider = "oracle"

	var ce *perr.ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &ce)
	assert.Equal(t, "db.provider", ce.Field)
}

func TestWorkerCount(t *testing.T) {
	p := DefaultPopulation()
	assert.Greater(t, p.WorkerCount(), 0)
	p.Workers = 3
	assert.Equal(t, 3, p.WorkerCount())
}
