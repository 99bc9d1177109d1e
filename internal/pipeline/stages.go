package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/generate"
	"github.com/Tysek64/DrugiTinder/internal/interaction"
	"github.com/Tysek64/DrugiTinder/internal/pool"
)

// copyBatchRows bounds one bulk-load of simulated swipes or matches.
const copyBatchRows = 50_000

// interactionLead stamps swipes and matches a month before the run so the
// conversations that follow still end before Now.
const interactionLead = 30 * 24 * time.Hour

// Stages returns the full population run in foreign-key order. Each call
// returns fresh stages; the swipe simulation is shared by the swipe and
// match stages of one list only.
func Stages() []Stage {
	sim := &simulation{}

	return []Stage{
		{Name: "sex", Table: "sex", Output: pool.Sex, Mode: Returning, Generate: generate.Sexes},
		{Name: "interest", Table: "interest", Output: pool.Interest, Mode: Returning, Generate: generate.Interests},
		{Name: "subscription_plan", Table: "subscription_plan", Output: pool.Plan, Mode: Returning, Generate: generate.Plans},
		{Name: "country", Table: "country", Output: pool.Country, Mode: Returning, Generate: generate.Countries},
		{
			Name: "city", Table: "city", Mode: Returning, Output: pool.City,
			Inputs:   []Input{need(pool.Country)},
			Generate: generate.Cities,
		},
		{
			Name: "user", Table: "user", Mode: Returning, Output: pool.User,
			Batches:  fixed(generate.UserBatches),
			Generate: generate.Users,
		},
		{
			Name: "search_preference", Table: "search_preference", Mode: Copy, Output: pool.SearchPreference,
			Inputs:   []Input{need(pool.User)},
			Generate: generate.SearchPreferences,
		},
		{
			Name: "search_preference_sex", Table: "search_preference_sex", Mode: Copy,
			Inputs:   []Input{optional(pool.SearchPreference), need(pool.Sex)},
			Generate: generate.SearchPreferenceSexes,
		},
		{
			Name: "search_preference_interest", Table: "search_preference_interest", Mode: Copy,
			Inputs:   []Input{optional(pool.SearchPreference), need(pool.Interest)},
			Generate: generate.SearchPreferenceInterests,
		},
		{
			Name: "billing_address", Table: "billing_address", Mode: Returning, Output: pool.BillingAddress,
			Inputs:   []Input{optional(pool.User), need(pool.Country), need(pool.City)},
			Generate: generate.BillingAddresses,
		},
		{
			Name: "payment_data", Table: "payment_data", Mode: Returning, Output: pool.PaymentData,
			Inputs:   []Input{optional(pool.BillingAddress)},
			Generate: generate.PaymentData,
		},
		{
			Name: "subscription", Table: "subscription", Mode: Returning, Output: pool.Subscription,
			Inputs:   []Input{optional(pool.PaymentData), need(pool.Plan)},
			Generate: generate.Subscriptions,
		},
		{
			Name: "user_details", Table: "user_details", Mode: Copy, Output: pool.UserDetails,
			Inputs: []Input{
				need(pool.User), need(pool.Sex), need(pool.SearchPreference),
				optional(pool.City), optional(pool.Subscription),
			},
			Generate: generate.UserDetails,
		},
		{
			Name: "user_interest", Table: "user_interest", Mode: Copy,
			Inputs:   []Input{optional(pool.UserDetails), need(pool.Interest)},
			Generate: generate.UserInterests,
		},
		{
			Name: "admin_user", Table: "user", Mode: Returning, Output: pool.AdminUser,
			Batches:  fixed(generate.AdminBatches),
			Generate: generate.AdminUsers,
		},
		{
			Name: "administrator", Table: "administrator", Mode: Copy, Output: pool.Administrator,
			Inputs:   []Input{optional(pool.AdminUser)},
			Generate: generate.Administrators,
		},
		{
			Name: "swipe", Table: "swipe", Mode: Copy,
			Inputs:   []Input{optional(pool.UserDetails)},
			Batches:  sim.swipeBatches,
			Generate: sim.swipes,
		},
		{
			Name: "match", Table: "match", Mode: Returning, Output: pool.Match,
			Inputs:   []Input{optional(pool.UserDetails)},
			Batches:  sim.matchBatches,
			Generate: sim.matches,
		},
		{
			Name: "conversation", Table: "conversation", Mode: Returning, Output: pool.Conversation,
			Inputs:   []Input{optional(pool.Match)},
			Generate: generate.Conversations,
		},
		{
			Name: "message", Table: "message", Mode: Copy,
			Inputs:   []Input{optional(pool.Conversation)},
			Generate: generate.Messages,
		},
		{
			Name: "image", Table: "image", Mode: Copy,
			Inputs:   []Input{optional(pool.UserDetails)},
			Generate: generate.Images,
		},
		{
			Name: "report", Table: "report", Mode: Returning, Output: pool.Report,
			Inputs:   []Input{optional(pool.UserDetails), optional(pool.Administrator)},
			Generate: generate.Reports,
		},
		{
			Name: "ban", Table: "ban", Mode: Copy,
			Inputs:   []Input{optional(pool.Report)},
			Generate: generate.Bans,
		},
		{
			Name: "block", Table: "block", Mode: Copy,
			Inputs:   []Input{optional(pool.UserDetails), optional(pool.Match)},
			Generate: generate.Blocks,
		},
	}
}

// simulation runs the interaction simulator once per run and hands its
// swipes and matches out in slices.
type simulation struct {
	once sync.Once
	res  *interaction.Result
	err  error
}

func (s *simulation) result(ctx context.Context, e *generate.Env) (*interaction.Result, error) {
	s.once.Do(func() {
		s.res, s.err = interaction.Simulate(ctx, e.Workers, e.Pools.Get(pool.UserDetails).IDs, interaction.Params{
			MinSwipes:       e.Cfg.MinUserSwipes,
			MaxSwipes:       e.Cfg.MaxUserSwipes,
			RightSwipeRatio: e.Cfg.RightSwipeRatio,
			Shards:          e.Cfg.LikesShards,
			Seed:            e.Seed,
			Now:             e.Now.Add(-interactionLead).Truncate(time.Second),
		})
	})
	return s.res, s.err
}

func (s *simulation) swipeBatches(ctx context.Context, e *generate.Env) (int, error) {
	res, err := s.result(ctx, e)
	if err != nil {
		return 0, err
	}
	return batchCount(len(res.Swipes)), nil
}

func (s *simulation) swipes(ctx context.Context, e *generate.Env, batch int) (generate.Batch, error) {
	res, err := s.result(ctx, e)
	if err != nil {
		return generate.Batch{}, err
	}
	lo, hi := window(batch, len(res.Swipes))
	return generate.SwipeBatch(res.Swipes[lo:hi]), nil
}

func (s *simulation) matchBatches(ctx context.Context, e *generate.Env) (int, error) {
	res, err := s.result(ctx, e)
	if err != nil {
		return 0, err
	}
	return batchCount(len(res.Matches)), nil
}

func (s *simulation) matches(ctx context.Context, e *generate.Env, batch int) (generate.Batch, error) {
	res, err := s.result(ctx, e)
	if err != nil {
		return generate.Batch{}, err
	}
	lo, hi := window(batch, len(res.Matches))
	return generate.MatchBatch(res.Matches[lo:hi]), nil
}

func batchCount(n int) int {
	return (n + copyBatchRows - 1) / copyBatchRows
}

func window(batch, n int) (int, int) {
	lo := min(batch*copyBatchRows, n)
	return lo, min(lo+copyBatchRows, n)
}
