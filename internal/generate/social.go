package generate

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/interaction"
	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

// ReportAttr travels with every report id so bans can follow it.
type ReportAttr struct {
	Reported int64
	Date     time.Time
}

// SwipeBatch turns one slice of simulated swipes into rows.
func SwipeBatch(swipes []interaction.Swipe) Batch {
	b := Batch{
		Table:   "swipe",
		Columns: []string{"result", "fk_swiping_user_details_id", "fk_swiped_user_details_id", "swipe_time"},
		Rows:    make([][]any, len(swipes)),
	}
	for i, s := range swipes {
		b.Rows[i] = []any{s.Liked, s.Actor, s.Target, s.At}
	}
	return b
}

// MatchBatch keeps each match as the attribute of its future id.
func MatchBatch(matches []interaction.Match) Batch {
	b := Batch{
		Table:   "match",
		Columns: []string{"fk_person1_id", "fk_person2_id", "date_formed", "status"},
		Rows:    make([][]any, len(matches)),
		Attrs:   make([]any, len(matches)),
	}
	for i, m := range matches {
		b.Rows[i] = []any{m.Person1, m.Person2, m.Formed, m.Status}
		b.Attrs[i] = m
	}
	return b
}

// Conversations opens a chat for conversation_ratio percent of matches.
func Conversations(_ context.Context, e *Env, batch int) (Batch, error) {
	matches := e.Pools.Get(pool.Match)
	r := e.stream("conversation", batch)

	b := Batch{Table: "conversation", Columns: []string{"fk_match_id", "chat_theme", "chat_reaction"}}
	for i, id := range matches.IDs {
		if !chance(r, e.Cfg.ConversationRatio) {
			continue
		}
		m, err := pool.Attr[interaction.Match](matches, i)
		if err != nil {
			return Batch{}, err
		}
		theme := "light"
		if r.IntN(11) == 0 {
			theme = "dark"
		}
		b.Rows = append(b.Rows, []any{id, theme, between(r, -1, 5)})
		b.Attrs = append(b.Attrs, m)
	}
	return b, nil
}

// Messages fills every conversation with 1..max_conversation_length messages.
// Senders alternate, starting with a random side, and send times increase
// from the moment the match formed without passing Now.
func Messages(ctx context.Context, e *Env, _ int) (Batch, error) {
	convs := e.Pools.Get(pool.Conversation)

	rows, err := worker.Partition(ctx, e.Workers, convs.Len(), rowChunk/8, e.Seed, "message",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			var out [][]any
			for i := lo; i < hi; i++ {
				m, err := pool.Attr[interaction.Match](convs, i)
				if err != nil {
					return nil, err
				}
				senders := [2]int64{m.Person1, m.Person2}
				first := r.IntN(2)
				at := m.Formed

				for k := range between(r, 1, e.Cfg.MaxConversationLength) {
					at = at.Add(time.Duration(between(r, 1, 60)) * time.Minute)
					if at.After(e.Now) {
						at = e.Now
					}
					var reaction any
					if r.IntN(2) == 0 {
						reaction = between(r, 0, 5)
					}
					out = append(out, []any{at, sentence(r, 1, 10), reaction, senders[(first+k)%2], convs.IDs[i], nil})
				}
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "message",
		Columns: []string{"send_time", "contents", "reaction", "fk_sender_id", "fk_conversation_id", "fk_replying_to_message_id"},
		Rows:    rows,
	}, nil
}

// ReportCount is floor(profiles * user_report_ratio / 100); a single profile
// cannot report anyone.
func ReportCount(e *Env) int {
	n := e.Pools.Get(pool.UserDetails).Len()
	if n < 2 {
		return 0
	}
	return RatioCount(n, e.Cfg.UserReportRatio)
}

// Reports picks distinct reporter and reported profiles, a reason weighted by
// frequency and, when administrators exist, the admin handling it.
func Reports(ctx context.Context, e *Env, _ int) (Batch, error) {
	profiles := e.Pools.Get(pool.UserDetails)
	admins := e.Pools.Get(pool.Administrator)

	freqs := make([]float64, len(e.Catalog.Reasons))
	for i, reason := range e.Catalog.Reasons {
		freqs[i] = reason.Freq
	}
	byFreq := newWeighted(freqs)

	type report struct {
		row  []any
		attr ReportAttr
	}
	made, err := worker.Partition(ctx, e.Workers, ReportCount(e), rowChunk, e.Seed, "report",
		func(r *rand.Rand, lo, hi int) ([]report, error) {
			out := make([]report, 0, hi-lo)
			for range hi - lo {
				reporter, _, err := profiles.Pick(r)
				if err != nil {
					return nil, err
				}
				reported, err := profiles.PickOther(r, reporter)
				if err != nil {
					return nil, err
				}
				date := timeBetween(r, e.Now.Add(-days(30)), e.Now).Truncate(time.Second)

				out = append(out, report{
					row:  []any{e.Catalog.Reasons[byFreq.pick(r)].Text, date, reporter, reported, admins.Optional(r)},
					attr: ReportAttr{Reported: reported, Date: date},
				})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}

	b := Batch{
		Table:   "report",
		Columns: []string{"reason", "report_date", "fk_reporting_user_details_id", "fk_reported_user_details_id", "fk_administrator_id"},
	}
	for _, rep := range made {
		b.Rows = append(b.Rows, rep.row)
		b.Attrs = append(b.Attrs, rep.attr)
	}
	return b, nil
}

// Bans follow report_ban_ratio percent of reports. A ban starts between one
// and 48 hours after its report and lasts [min_ban_length, max_ban_length] days.
func Bans(ctx context.Context, e *Env, _ int) (Batch, error) {
	reports := e.Pools.Get(pool.Report)

	rows, err := worker.Partition(ctx, e.Workers, reports.Len(), rowChunk, e.Seed, "ban",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			var out [][]any
			for i := lo; i < hi; i++ {
				if !chance(r, e.Cfg.ReportBanRatio) {
					continue
				}
				rep, err := pool.Attr[ReportAttr](reports, i)
				if err != nil {
					return nil, err
				}
				start := BanStart(r, rep.Date)
				period := between(r, e.Cfg.MinBanLength, e.Cfg.MaxBanLength)
				active := !start.Add(days(period)).Before(e.Now)

				out = append(out, []any{rep.Reported, reports.IDs[i], start, period, active})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "ban",
		Columns: []string{"fk_user_details_id", "fk_report_id", "start_date", "period_days", "is_active"},
		Rows:    rows,
	}, nil
}

// BanStart draws from [reported+1h, reported+48h).
func BanStart(r *rand.Rand, reported time.Time) time.Time {
	return reported.Add(time.Hour + time.Duration(r.Int64N(int64(47*time.Hour))))
}

// Blocks come from two sources: a match_block_ratio share of matches, where
// a random side blocks the other within max_match_block_difference days of
// matching, and floor(profiles * user_block_ratio / 100) blocks between
// random distinct profiles.
func Blocks(_ context.Context, e *Env, batch int) (Batch, error) {
	profiles := e.Pools.Get(pool.UserDetails)
	matches := e.Pools.Get(pool.Match)
	r := e.stream("block", batch)

	b := Batch{
		Table:   "block",
		Columns: []string{"fk_blocking_user_details_id", "fk_blocked_user_details_id", "start_date", "end_date", "is_active"},
	}
	add := func(blocker, blocked int64, start time.Time) {
		if start.After(e.Now) {
			start = e.Now
		}
		start = start.Truncate(time.Second)
		end := start.Add(days(between(r, e.Cfg.MinBlockLength, e.Cfg.MaxBlockLength)))
		b.Rows = append(b.Rows, []any{blocker, blocked, start, end, !end.Before(e.Now)})
	}

	for i := range matches.Len() {
		if !chance(r, e.Cfg.MatchBlockRatio) {
			continue
		}
		m, err := pool.Attr[interaction.Match](matches, i)
		if err != nil {
			return Batch{}, err
		}
		blocker, blocked := m.Person1, m.Person2
		if r.IntN(2) == 0 {
			blocker, blocked = blocked, blocker
		}
		add(blocker, blocked, m.Formed.Add(time.Duration(r.Int64N(int64(days(e.Cfg.MaxMatchBlockDifference)+1)))))
	}

	if profiles.Len() >= 2 {
		for range RatioCount(profiles.Len(), e.Cfg.UserBlockRatio) {
			blocker, _, err := profiles.Pick(r)
			if err != nil {
				return Batch{}, err
			}
			blocked, err := profiles.PickOther(r, blocker)
			if err != nil {
				return Batch{}, err
			}
			add(blocker, blocked, timeBetween(r, e.Now.Add(-days(365)), e.Now))
		}
	}

	return b, nil
}
