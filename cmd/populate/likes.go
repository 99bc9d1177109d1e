package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tysek64/DrugiTinder/internal/app"
	"github.com/Tysek64/DrugiTinder/internal/service/explore"
)

var (
	likesProfile int64
	likesNew     bool
	likesCount   bool
	likesLimit   int
	likesToken   string
)

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "List who liked a profile",
	Long: `
Inspect the populated swipes of one profile: the profiles that liked it
(excluding those it passed), only the ones it has not liked back (--new),
or just their number (--count, cached in redis when REDIS_ADDR is set).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if likesProfile <= 0 {
			return fmt.Errorf("--profile must be a user_details id")
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

		svc := explore.NewExploreService(a)
		ctx := cmd.Context()

		if likesCount {
			n, err := svc.CountLikedYou(ctx, likesProfile)
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		}

		var token *string
		if likesToken != "" {
			token = &likesToken
		}
		list := svc.ListLikedYou
		if likesNew {
			list = svc.ListNewLikedYou
		}
		page, err := list(ctx, likesProfile, token, likesLimit)
		if err != nil {
			return err
		}

		for _, l := range page.Likers {
			fmt.Printf("  %10d  %s\n", l.ActorID, l.SwipeAt.Local().Format(time.DateTime))
		}
		if page.NextToken != nil {
			color.Cyan("next page: --token %s", *page.NextToken)
		}
		return nil
	},
}

func init() {
	likesCmd.Flags().Int64Var(&likesProfile, "profile", 0, "user_details id of the recipient")
	likesCmd.Flags().BoolVar(&likesNew, "new", false, "only likes not returned yet")
	likesCmd.Flags().BoolVar(&likesCount, "count", false, "print the number of likers")
	likesCmd.Flags().IntVar(&likesLimit, "limit", 20, "page size")
	likesCmd.Flags().StringVar(&likesToken, "token", "", "pagination token from a previous page")
	rootCmd.AddCommand(likesCmd)
}
