package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Tysek64/DrugiTinder/internal/app"
	"github.com/Tysek64/DrugiTinder/internal/catalog"
	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/generate"
	"github.com/Tysek64/DrugiTinder/internal/pipeline"
	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/report"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

var (
	runMigrate    bool
	runReset      bool
	runNoProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Populate the database",
	Long: `
Run every stage in foreign-key order: reference data, accounts, preferences,
the subscription chain, profiles, administrators, simulated swipes and the
matches derived from them, conversations, images and safety records.

The run expects empty tables (use --reset) and stops at the first failure.
Rows committed before the failure stay in the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		a, err := app.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if runMigrate {
			if err := db.Migrate(a.DB); err != nil {
				return err
			}
		}
		if runReset {
			if err := db.Reset(a.DB); err != nil {
				return err
			}
		}

		cat, err := catalog.Load(cfg.Population.CatalogDir)
		if err != nil {
			return err
		}

		workers, err := worker.New(cfg.Population.WorkerCount())
		if err != nil {
			return err
		}
		defer func() { _ = workers.Release(5 * time.Second) }()

		sink, release, err := a.Sink(ctx)
		if err != nil {
			return err
		}
		defer release()

		seed := cfg.Population.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		env := &generate.Env{
			Cfg:     cfg.Population,
			Catalog: cat,
			Pools:   pool.NewRegistry(),
			Workers: workers,
			Seed:    seed,
			Now:     time.Now().UTC().Truncate(time.Second),
		}

		reporters := report.Multi{report.NewLog()}
		if !runNoProgress {
			reporters = append(reporters, report.NewBar(os.Stderr))
		}
		if a.RedisCache != nil {
			reporters = append(reporters, report.NewLedger(a.RedisCache))
			if n, err := a.RedisCache.ForgetLikeCounts(ctx); err != nil {
				a.Logger.Warn("failed to drop cached like counts", "err", err)
			} else if n > 0 {
				a.Logger.Debug("dropped cached like counts", "keys", n)
			}
		}

		runID := uuid.NewString()
		a.Logger.Info("starting run", "run", runID, "provider", cfg.DB.Provider, "seed", seed, "workers", workers.Size())

		sum, err := pipeline.New(pipeline.Stages(), env, sink, reporters).Run(ctx, runID)
		printSummary(sum)
		if err != nil {
			return err
		}
		a.Logger.Debug("pools", "sizes", env.Pools.Sizes())
		return nil
	},
}

func printSummary(sum report.Summary) {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Printf("Run %s\n", sum.RunID)
	for _, st := range sum.Stages {
		fmt.Printf("  %-28s %10d rows  %s\n", st.Stage, st.Rows, st.Took.Round(time.Millisecond))
	}
	total := color.New(color.FgGreen, color.Bold)
	if sum.Err != nil {
		total = color.New(color.FgYellow, color.Bold)
	}
	total.Printf("  %-28s %10d rows  %s\n", "total", sum.Rows(), sum.Took.Round(time.Millisecond))
}

func init() {
	runCmd.Flags().BoolVar(&runMigrate, "migrate", false, "create missing tables before the run")
	runCmd.Flags().BoolVar(&runReset, "reset", false, "empty every populated table before the run")
	runCmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "disable the progress bars")
	rootCmd.AddCommand(runCmd)
}
