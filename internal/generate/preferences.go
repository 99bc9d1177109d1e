package generate

import (
	"context"
	"math/rand/v2"

	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

// sexesPerPreference: most people look for one sex, some for two.
var sexesPerPreference = newWeighted([]float64{0, 80, 20})

// SearchPreferences creates one preference per future user profile.
func SearchPreferences(ctx context.Context, e *Env, _ int) (Batch, error) {
	n := e.Pools.Get(pool.User).Len()
	rows, err := worker.Partition(ctx, e.Workers, n, rowChunk, e.Seed, "search_preference",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			out := make([][]any, 0, hi-lo)
			for range hi - lo {
				out = append(out, []any{pick(r, searchDescriptions)})
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{Table: "search_preference", Columns: []string{"search_description"}, Rows: rows}, nil
}

func SearchPreferenceSexes(ctx context.Context, e *Env, _ int) (Batch, error) {
	prefs := e.Pools.Get(pool.SearchPreference)
	sexes := e.Pools.Get(pool.Sex)
	w, err := sexWeights(sexes)
	if err != nil {
		return Batch{}, err
	}

	rows, err := worker.Partition(ctx, e.Workers, prefs.Len(), rowChunk, e.Seed, "search_preference_sex",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			var out [][]any
			for i := lo; i < hi; i++ {
				k := sexesPerPreference.pick(r)
				for priority, s := range w.distinct(r, k) {
					out = append(out, []any{prefs.IDs[i], sexes.IDs[s], priority + 1})
				}
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "search_preference_sex",
		Columns: []string{"fk_search_preference_id", "fk_sex_id", "priority"},
		Rows:    rows,
	}, nil
}

func SearchPreferenceInterests(ctx context.Context, e *Env, _ int) (Batch, error) {
	prefs := e.Pools.Get(pool.SearchPreference)
	interests := e.Pools.Get(pool.Interest)
	uniform := newWeighted(make([]float64, interests.Len()))

	rows, err := worker.Partition(ctx, e.Workers, prefs.Len(), rowChunk, e.Seed, "search_preference_interest",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			var out [][]any
			for i := lo; i < hi; i++ {
				for _, j := range uniform.distinct(r, between(r, 1, 4)) {
					out = append(out, []any{prefs.IDs[i], interests.IDs[j], between(r, 1, 10), r.IntN(2) == 0})
				}
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "search_preference_interest",
		Columns: []string{"fk_search_preference_id", "fk_interest_id", "level_of_interest", "is_positive"},
		Rows:    rows,
	}, nil
}

func sexWeights(sexes *pool.Pool) (weighted, error) {
	weights := make([]float64, sexes.Len())
	for i := range weights {
		f, err := pool.Attr[float64](sexes, i)
		if err != nil {
			return weighted{}, err
		}
		weights[i] = f
	}
	return newWeighted(weights), nil
}
