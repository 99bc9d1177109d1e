package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tysek64/DrugiTinder/internal/app"
	"github.com/Tysek64/DrugiTinder/internal/repository"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit a populated database",
	Long: `
Print the row count of every table and check the stored data: no self swipes,
reports or blocks, and every match is canonical, unique and backed by two
right swipes (and every mutual like has its match).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		repo := repository.NewAuditRepository(a.DB)

		counts, err := repo.Counts(cmd.Context())
		if err != nil {
			return err
		}
		color.New(color.FgCyan, color.Bold).Println("Tables")
		for _, c := range counts {
			fmt.Printf("  %-28s %10d\n", c.Table, c.Rows)
		}

		findings, err := repo.Audit(cmd.Context())
		if err != nil {
			return err
		}
		color.New(color.FgCyan, color.Bold).Println("Checks")
		failed := 0
		for _, f := range findings {
			if f.Violations == 0 {
				color.Green("  ✅ %s", f.Check)
				continue
			}
			failed++
			color.Red("  ❌ %s: %d rows", f.Check, f.Violations)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(findings))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
