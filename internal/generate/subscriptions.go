package generate

import (
	"context"
	"encoding/base64"
	"math/rand/v2"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/catalog"
	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

// oneTimeExpiration is where lifetime plans end.
var oneTimeExpiration = time.Date(2038, 1, 19, 0, 0, 0, 0, time.UTC)

// HomeCity is the city a subscription's owner lives in. It is carried from
// the billing address through payment data to the subscription, and the
// profile that receives the subscription is placed there.
type HomeCity int64

// SubscriptionCount is floor(users * subscription_ratio / 100).
func SubscriptionCount(e *Env) int {
	return RatioCount(e.Pools.Get(pool.User).Len(), e.Cfg.SubscriptionRatio)
}

// BillingAddresses starts one subscription chain per subscriber. The
// address usually lies in the subscriber's home city; domestic and
// international migration move it elsewhere in the same or any country.
func BillingAddresses(ctx context.Context, e *Env, _ int) (Batch, error) {
	countries := e.Pools.Get(pool.Country)
	byCountry, order, err := citiesByCountry(e.Pools.Get(pool.City))
	if err != nil {
		return Batch{}, err
	}

	weights := make([]float64, len(order))
	for i, countryID := range order {
		for j, id := range countries.IDs {
			if id == countryID {
				c, err := pool.Attr[catalog.Country](countries, j)
				if err != nil {
					return Batch{}, err
				}
				weights[i] = c.Population
				break
			}
		}
	}
	byPopulation := newWeighted(weights)

	type address struct {
		row  []any
		home HomeCity
	}
	rows, err := worker.Partition(ctx, e.Workers, SubscriptionCount(e), rowChunk, e.Seed, "billing_address",
		func(r *rand.Rand, lo, hi int) ([]address, error) {
			out := make([]address, 0, hi-lo)
			for range hi - lo {
				country := order[byPopulation.pick(r)]
				home := byCountry[country][r.IntN(len(byCountry[country]))]

				city := home
				if chance(r, e.Cfg.DomesticMigrationRatio) {
					city = byCountry[country][r.IntN(len(byCountry[country]))]
				}
				if chance(r, e.Cfg.InternationalMigrationRatio) {
					other := order[r.IntN(len(order))]
					city = byCountry[other][r.IntN(len(byCountry[other]))]
				}
				out = append(out, address{
					row:  []any{city, streetAddress(r), postalCode(r)},
					home: HomeCity(home),
				})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}

	b := Batch{Table: "billing_address", Columns: []string{"fk_city_id", "street", "postal_code"}}
	for _, a := range rows {
		b.Rows = append(b.Rows, a.row)
		b.Attrs = append(b.Attrs, a.home)
	}
	return b, nil
}

func PaymentData(ctx context.Context, e *Env, _ int) (Batch, error) {
	addresses := e.Pools.Get(pool.BillingAddress)
	rows, err := worker.Partition(ctx, e.Workers, addresses.Len(), rowChunk, e.Seed, "payment_data",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			out := make([][]any, 0, hi-lo)
			token := make([]byte, 24)
			for i := lo; i < hi; i++ {
				for j := range token {
					token[j] = byte(r.UintN(256))
				}
				out = append(out, []any{base64.StdEncoding.EncodeToString(token), addresses.IDs[i]})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "payment_data",
		Columns: []string{"token", "fk_billing_address_id"},
		Rows:    rows,
		Attrs:   addresses.Attrs,
	}, nil
}

// Subscriptions closes each chain with a plan chosen by popularity.
func Subscriptions(ctx context.Context, e *Env, _ int) (Batch, error) {
	payments := e.Pools.Get(pool.PaymentData)
	plans := e.Pools.Get(pool.Plan)

	planInfo := make([]catalog.Plan, plans.Len())
	weights := make([]float64, plans.Len())
	for i := range planInfo {
		p, err := pool.Attr[catalog.Plan](plans, i)
		if err != nil {
			return Batch{}, err
		}
		planInfo[i], weights[i] = p, p.Users
	}
	byUsers := newWeighted(weights)
	today := truncateDay(e.Now)

	rows, err := worker.Partition(ctx, e.Workers, payments.Len(), rowChunk, e.Seed, "subscription",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			out := make([][]any, 0, hi-lo)
			for i := lo; i < hi; i++ {
				j := byUsers.pick(r)
				plan := planInfo[j]
				renewal := truncateDay(timeBetween(r, e.Now.Add(-days(730)), e.Now))
				expiration := Expiration(plan.Cycle, renewal)
				active := expiration.After(today)
				autoRenewal := active && plan.Cycle != catalog.OneTime && chance(r, e.Cfg.AutoRenewalRatio)

				out = append(out, []any{expiration, renewal, active, autoRenewal, plans.IDs[j], payments.IDs[i]})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "subscription",
		Columns: []string{"expiration_date", "last_renewal", "is_active", "auto_renewal", "fk_subscription_plan_id", "fk_payment_data_id"},
		Rows:    rows,
		Attrs:   payments.Attrs,
	}, nil
}

// Expiration applies the plan's payment cycle to the last renewal.
func Expiration(cycle catalog.PaymentCycle, lastRenewal time.Time) time.Time {
	switch cycle {
	case catalog.Monthly:
		return lastRenewal.AddDate(0, 0, 30)
	case catalog.Yearly:
		return lastRenewal.AddDate(0, 0, 365)
	case catalog.OneTime:
		return oneTimeExpiration
	}
	return lastRenewal
}
