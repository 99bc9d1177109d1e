package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tysek64/DrugiTinder/internal/cache"
)

var statusRun string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the progress of the latest run",
	Long: `
Read the run ledger from redis (REDIS_ADDR) and print the status and the
committed rows per stage of the latest run, or of --run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("status needs REDIS_ADDR")
		}
		rc := cache.NewRedisCache(cfg)
		defer rc.Close()

		ctx := cmd.Context()
		var run *cache.Run
		if statusRun != "" {
			run, err = rc.GetRun(ctx, statusRun)
		} else {
			run, err = rc.LatestRun(ctx)
		}
		if err != nil {
			return err
		}
		if run == nil {
			color.Yellow("No run recorded")
			return nil
		}

		status := color.New(color.FgGreen, color.Bold)
		switch run.Status {
		case "running":
			status = color.New(color.FgCyan, color.Bold)
		case "aborted":
			status = color.New(color.FgRed, color.Bold)
		}
		fmt.Printf("Run %s: ", run.ID)
		status.Println(run.Status)
		fmt.Printf("  started  %s\n", run.StartedAt.Local().Format(time.DateTime))
		if !run.FinishedAt.IsZero() {
			fmt.Printf("  finished %s\n", run.FinishedAt.Local().Format(time.DateTime))
		}
		if run.Error != "" {
			color.Red("  %s", run.Error)
		}

		stages := make([]string, 0, len(run.Stages))
		for s := range run.Stages {
			stages = append(stages, s)
		}
		sort.Strings(stages)
		for _, s := range stages {
			fmt.Printf("  %-28s %10d rows\n", s, run.Stages[s])
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusRun, "run", "", "run id (default: latest)")
	rootCmd.AddCommand(statusCmd)
}
