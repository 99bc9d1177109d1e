package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tysek64/DrugiTinder/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "populate",
	Short: "Generate and bulk-load a synthetic dating dataset",
	Long: `
populate synthesizes a referentially consistent dataset (users, profiles,
subscriptions, swipes, matches, conversations, reports, bans, blocks) and
bulk-loads it into PostgreSQL, MySQL or SQLite.

Connection settings come from DB_* environment variables (a .env file is
read when present); population sizes and ratios come from --config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "population config file (YAML)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
