package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tysek64/DrugiTinder/internal/app"
	"github.com/Tysek64/DrugiTinder/internal/db"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Empty every populated table",
	Long: `
Delete all rows from the populated tables in reverse foreign-key order and
restart their id sequences, so the next run starts from id 1.

⚠️  WARNING: This permanently deletes all data in those tables!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			color.Yellow("💡 Refusing to delete data without --force")
			return fmt.Errorf("reset needs --force")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := db.Reset(a.DB); err != nil {
			return err
		}
		if a.RedisCache != nil {
			if _, err := a.RedisCache.ForgetLikeCounts(cmd.Context()); err != nil {
				a.Logger.Warn("failed to drop cached like counts", "err", err)
			}
		}
		color.Green("✅ Tables emptied")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "confirm the deletion")
	rootCmd.AddCommand(resetCmd)
}
