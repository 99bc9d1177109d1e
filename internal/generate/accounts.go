package generate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

// hashChunk is small because every row costs a bcrypt hash.
const hashChunk = 32

// noCityRatio is the share of profiles without a city.
const noCityRatio = 10

// firstAccount is the earliest account creation time.
var firstAccount = time.Date(2004, 9, 5, 13, 0, 0, 0, time.UTC)

var accountColumns = []string{"username", "email", "password_hash", "created_at"}

// UserBatches is the number of insert-with-return batches for user accounts.
func UserBatches(e *Env) int {
	return batches(e.Cfg.UsersNumber, e.Cfg.UserBatchSize)
}

func AdminBatches(e *Env) int {
	return batches(e.Cfg.AdminsNumber, e.Cfg.UserBatchSize)
}

// Users generates one batch of member accounts. Attrs hold created_at.
func Users(ctx context.Context, e *Env, batch int) (Batch, error) {
	return accounts(ctx, e, "user", e.Cfg.UsersNumber, batch)
}

// AdminUsers generates the accounts administrators log in with.
func AdminUsers(ctx context.Context, e *Env, batch int) (Batch, error) {
	return accounts(ctx, e, "admin", e.Cfg.AdminsNumber, batch)
}

func accounts(ctx context.Context, e *Env, kind string, total, batch int) (Batch, error) {
	size := e.Cfg.UserBatchSize
	lo := batch * size
	hi := min(lo+size, total)
	if lo >= hi {
		return Batch{Table: "user", Columns: accountColumns}, nil
	}

	type account struct {
		row     []any
		created time.Time
	}
	made, err := worker.Partition(ctx, e.Workers, hi-lo, hashChunk, e.Seed, fmt.Sprintf("%s#%d", kind, batch),
		func(r *rand.Rand, from, to int) ([]account, error) {
			out := make([]account, 0, to-from)
			for i := from; i < to; i++ {
				seq := lo + i + 1
				first, last := pick(r, firstNames), pick(r, surnames)

				// the sequence number keeps usernames and emails unique
				username := strings.ToLower(fmt.Sprintf("%s.%s.%d", first, last, seq))
				if kind != "user" {
					username = fmt.Sprintf("%s.%d", kind, seq)
				}
				email := fmt.Sprintf("%s@%s", username, pick(r, emailDomains))

				hash, err := bcrypt.GenerateFromPassword(password(r), e.Cfg.PasswordHashCost)
				if err != nil {
					return nil, fmt.Errorf("hash password: %w", err)
				}
				created := timeBetween(r, firstAccount, e.Now).UTC().Truncate(time.Second)

				out = append(out, account{
					row:     []any{username, email, string(hash), created},
					created: created,
				})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}

	b := Batch{Table: "user", Columns: accountColumns}
	for _, a := range made {
		b.Rows = append(b.Rows, a.row)
		b.Attrs = append(b.Attrs, a.created)
	}
	return b, nil
}

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%"

func password(r *rand.Rand) []byte {
	pw := make([]byte, between(r, 10, 16))
	for i := range pw {
		pw[i] = passwordAlphabet[r.IntN(len(passwordAlphabet))]
	}
	return pw
}

// UserDetails builds one profile per member account. Subscriptions go to a
// random subset of profiles, each at most once, and search preferences are
// handed out one per profile.
func UserDetails(ctx context.Context, e *Env, _ int) (Batch, error) {
	users := e.Pools.Get(pool.User)
	subs := e.Pools.Get(pool.Subscription)
	prefs := e.Pools.Get(pool.SearchPreference)
	cities := e.Pools.Get(pool.City)
	sexes := e.Pools.Get(pool.Sex)

	sexW, err := sexWeights(sexes)
	if err != nil {
		return Batch{}, err
	}

	// subscriber[i] is the subscription index for user i, or -1
	subscriber := make([]int, users.Len())
	for i := range subscriber {
		subscriber[i] = -1
	}
	for s, u := range e.stream("user_details#subscribers", 0).Perm(users.Len())[:min(subs.Len(), users.Len())] {
		subscriber[u] = s
	}

	rows, err := worker.Partition(ctx, e.Workers, users.Len(), rowChunk, e.Seed, "user_details",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			out := make([][]any, 0, hi-lo)
			for i := lo; i < hi; i++ {
				created, err := pool.Attr[time.Time](users, i)
				if err != nil {
					return nil, err
				}

				var city, subscription, preference any
				switch s := subscriber[i]; {
				case s >= 0:
					subscription = subs.IDs[s]
					if home, err := pool.Attr[HomeCity](subs, s); err == nil {
						city = int64(home)
					}
				case !chance(r, noCityRatio):
					city = cities.Optional(r)
				}
				if i < prefs.Len() {
					preference = prefs.IDs[i]
				}

				out = append(out, []any{
					pick(r, firstNames),
					pick(r, surnames),
					sexes.IDs[sexW.pick(r)],
					city,
					subscription,
					preference,
					users.IDs[i],
					created,
				})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}

	return Batch{
		Table: "user_details",
		Columns: []string{
			"name", "surname", "fk_sex_id", "fk_city_id", "fk_subscription_id",
			"fk_search_preference_id", "fk_user_id", "created_at",
		},
		Rows: rows,
	}, nil
}

// Administrators are hired within max_admin_hiring_difference days of their
// account creation, never in the future.
func Administrators(ctx context.Context, e *Env, _ int) (Batch, error) {
	admins := e.Pools.Get(pool.AdminUser)
	diff := e.Cfg.MaxAdminHiringDifference

	rows, err := worker.Partition(ctx, e.Workers, admins.Len(), rowChunk, e.Seed, "administrator",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			out := make([][]any, 0, hi-lo)
			for i := lo; i < hi; i++ {
				created, err := pool.Attr[time.Time](admins, i)
				if err != nil {
					return nil, err
				}
				hired := created.Add(days(between(r, -diff, diff)))
				if hired.After(e.Now) {
					hired = e.Now
				}
				out = append(out, []any{admins.IDs[i], truncateDay(hired), 0})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "administrator",
		Columns: []string{"fk_user_id", "hiring_date", "reports_handled"},
		Rows:    rows,
	}, nil
}

func batches(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
