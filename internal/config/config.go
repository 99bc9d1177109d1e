package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

// Config is loaded once before a run and never mutated afterwards.
type Config struct {
	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		Component string `yaml:"component"`
		Source    bool   `yaml:"source"`
	} `yaml:"log"`

	DB struct {
		Provider string `yaml:"provider"` // postgres, mysql, sqlite
		DSN      string `yaml:"-"`        // may embed the password
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"-"`
		Name     string `yaml:"name"`
	} `yaml:"db"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"-"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Population Population `yaml:"population"`
}

// Population holds the ratios, counts and ranges that shape the generated
// dataset. Ratios are percentages in [0,100]; lengths and differences are days.
type Population struct {
	UsersNumber  int `mapstructure:"users_number" yaml:"users_number"`
	AdminsNumber int `mapstructure:"admins_number" yaml:"admins_number"`

	DomesticMigrationRatio      float64 `mapstructure:"domestic_migration_ratio" yaml:"domestic_migration_ratio"`
	InternationalMigrationRatio float64 `mapstructure:"international_migration_ratio" yaml:"international_migration_ratio"`

	OldestCurrentPhoto    int `mapstructure:"oldest_current_photo" yaml:"oldest_current_photo"`
	OldestUnverifiedPhoto int `mapstructure:"oldest_unverified_photo" yaml:"oldest_unverified_photo"`

	SubscriptionRatio float64 `mapstructure:"subscription_ratio" yaml:"subscription_ratio"`
	AutoRenewalRatio  float64 `mapstructure:"auto_renewal_ratio" yaml:"auto_renewal_ratio"`

	MaxAdminHiringDifference int `mapstructure:"max_admin_hiring_difference" yaml:"max_admin_hiring_difference"`

	UserReportRatio float64 `mapstructure:"user_report_ratio" yaml:"user_report_ratio"`
	ReportBanRatio  float64 `mapstructure:"report_ban_ratio" yaml:"report_ban_ratio"`
	MinBanLength    int     `mapstructure:"min_ban_length" yaml:"min_ban_length"`
	MaxBanLength    int     `mapstructure:"max_ban_length" yaml:"max_ban_length"`

	MinUserSwipes   int     `mapstructure:"min_user_swipes" yaml:"min_user_swipes"`
	MaxUserSwipes   int     `mapstructure:"max_user_swipes" yaml:"max_user_swipes"`
	RightSwipeRatio float64 `mapstructure:"right_swipe_ratio" yaml:"right_swipe_ratio"`

	MatchBlockRatio         float64 `mapstructure:"match_block_ratio" yaml:"match_block_ratio"`
	MaxMatchBlockDifference int     `mapstructure:"max_match_block_difference" yaml:"max_match_block_difference"`
	UserBlockRatio          float64 `mapstructure:"user_block_ratio" yaml:"user_block_ratio"`
	MinBlockLength          int     `mapstructure:"min_block_length" yaml:"min_block_length"`
	MaxBlockLength          int     `mapstructure:"max_block_length" yaml:"max_block_length"`

	ConversationRatio     float64 `mapstructure:"conversation_ratio" yaml:"conversation_ratio"`
	MaxConversationLength int     `mapstructure:"max_conversation_length" yaml:"max_conversation_length"`

	// Run tuning.
	Seed             uint64 `mapstructure:"seed" yaml:"seed"`
	Workers          int    `mapstructure:"workers" yaml:"workers"`
	UserBatchSize    int    `mapstructure:"user_batch_size" yaml:"user_batch_size"`
	PasswordHashCost int    `mapstructure:"password_hash_cost" yaml:"password_hash_cost"`
	CitiesPerCountry int    `mapstructure:"cities_per_country" yaml:"cities_per_country"`
	CatalogDir       string `mapstructure:"catalog_dir" yaml:"catalog_dir"`
	LikesShards      int    `mapstructure:"likes_shards" yaml:"likes_shards"`
}

// MaxBatchRows caps rows per insert-with-return statement so the widest
// table stays under the bind-parameter limit of every supported driver.
const MaxBatchRows = 3000

func New() *Config {
	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "populate")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Provider = getEnvDefault("DB_PROVIDER", "postgres")
	cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.DB.User = getEnvDefault("DB_USER", "postgres")
	cfg.DB.Password = getEnvDefault("DB_PASS", "postgres")
	cfg.DB.Name = getEnvDefault("DB_NAME", "tinder")
	cfg.DB.Port = getEnvDefault("DB_PORT", defaultPort(cfg.DB.Provider))
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = buildDSN(cfg)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	cfg.Population = DefaultPopulation()
	return cfg
}

// DefaultPopulation mirrors the stock config.yml shipped with the project.
func DefaultPopulation() Population {
	return Population{
		UsersNumber:                 1000,
		AdminsNumber:                10,
		DomesticMigrationRatio:      10,
		InternationalMigrationRatio: 2,
		OldestCurrentPhoto:          365,
		OldestUnverifiedPhoto:       30,
		SubscriptionRatio:           20,
		AutoRenewalRatio:            60,
		MaxAdminHiringDifference:    30,
		UserReportRatio:             5,
		ReportBanRatio:              40,
		MinBanLength:                1,
		MaxBanLength:                30,
		MinUserSwipes:               0,
		MaxUserSwipes:               50,
		RightSwipeRatio:             40,
		MatchBlockRatio:             5,
		MaxMatchBlockDifference:     60,
		UserBlockRatio:              2,
		MinBlockLength:              1,
		MaxBlockLength:              365,
		ConversationRatio:           60,
		MaxConversationLength:       20,
		Workers:                     0,
		UserBatchSize:               500,
		PasswordHashCost:            4,
		CitiesPerCountry:            10,
		LikesShards:                 64,
	}
}

// Load builds the config from defaults, an optional .env file, the YAML
// population file at path (may be empty) and DB_* / LOG_* env overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := New()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := v.Unmarshal(&cfg.Population); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}

		// The original config.yml carried the target database too.
		if name := v.GetString("database_name"); name != "" && os.Getenv("DB_NAME") == "" {
			cfg.DB.Name = name
		}
		if user := v.GetString("username"); user != "" && os.Getenv("DB_USER") == "" {
			cfg.DB.User = user
		}
		if os.Getenv("DB_DSN") == "" {
			cfg.DB.DSN = buildDSN(cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects ratios outside [0,100], negative counts and inverted ranges.
func (c *Config) Validate() error {
	switch c.DB.Provider {
	case "postgres", "mysql", "sqlite":
	default:
		return &perr.ConfigurationError{Field: "db.provider", Reason: fmt.Sprintf("unsupported provider %q", c.DB.Provider)}
	}
	return c.Population.Validate()
}

func (p Population) Validate() error {
	ratios := []struct {
		field string
		value float64
	}{
		{"domestic_migration_ratio", p.DomesticMigrationRatio},
		{"international_migration_ratio", p.InternationalMigrationRatio},
		{"subscription_ratio", p.SubscriptionRatio},
		{"auto_renewal_ratio", p.AutoRenewalRatio},
		{"user_report_ratio", p.UserReportRatio},
		{"report_ban_ratio", p.ReportBanRatio},
		{"right_swipe_ratio", p.RightSwipeRatio},
		{"match_block_ratio", p.MatchBlockRatio},
		{"user_block_ratio", p.UserBlockRatio},
		{"conversation_ratio", p.ConversationRatio},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 100 {
			return &perr.ConfigurationError{Field: r.field, Reason: fmt.Sprintf("%v is outside [0,100]", r.value)}
		}
	}

	counts := []struct {
		field string
		value int
	}{
		{"users_number", p.UsersNumber},
		{"admins_number", p.AdminsNumber},
		{"oldest_current_photo", p.OldestCurrentPhoto},
		{"oldest_unverified_photo", p.OldestUnverifiedPhoto},
		{"max_admin_hiring_difference", p.MaxAdminHiringDifference},
		{"min_ban_length", p.MinBanLength},
		{"min_user_swipes", p.MinUserSwipes},
		{"max_match_block_difference", p.MaxMatchBlockDifference},
		{"min_block_length", p.MinBlockLength},
		{"workers", p.Workers},
		{"cities_per_country", p.CitiesPerCountry},
	}
	for _, c := range counts {
		if c.value < 0 {
			return &perr.ConfigurationError{Field: c.field, Reason: "must not be negative"}
		}
	}

	ranges := []struct {
		field    string
		min, max int
	}{
		{"max_ban_length", p.MinBanLength, p.MaxBanLength},
		{"max_user_swipes", p.MinUserSwipes, p.MaxUserSwipes},
		{"max_block_length", p.MinBlockLength, p.MaxBlockLength},
	}
	for _, r := range ranges {
		if r.max < r.min {
			return &perr.ConfigurationError{Field: r.field, Reason: fmt.Sprintf("%d is below the minimum %d", r.max, r.min)}
		}
	}

	if p.UsersNumber < 1 {
		return &perr.ConfigurationError{Field: "users_number", Reason: "must be at least 1"}
	}
	if p.MaxConversationLength < 1 {
		return &perr.ConfigurationError{Field: "max_conversation_length", Reason: "must be at least 1"}
	}
	if p.UserBatchSize < 1 || p.UserBatchSize > MaxBatchRows {
		return &perr.ConfigurationError{Field: "user_batch_size", Reason: fmt.Sprintf("must be in [1,%d]", MaxBatchRows)}
	}
	if p.PasswordHashCost < 4 || p.PasswordHashCost > 31 {
		return &perr.ConfigurationError{Field: "password_hash_cost", Reason: "must be in [4,31]"}
	}
	if p.LikesShards < 1 {
		return &perr.ConfigurationError{Field: "likes_shards", Reason: "must be at least 1"}
	}
	return nil
}

// WorkerCount resolves workers=0 to the number of available cores.
func (p Population) WorkerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

func buildDSN(cfg *Config) string {
	switch cfg.DB.Provider {
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	case "sqlite":
		return cfg.DB.Name + ".db"
	default:
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}
}

func defaultPort(provider string) string {
	if provider == "mysql" {
		return "3306"
	}
	return "5432"
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
