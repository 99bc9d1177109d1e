// Package generate builds the rows for every populated table.
//
// Generators are pure: they read configuration, the catalog and previously
// committed id pools from Env and return a Batch. Row-heavy generators split
// their work across Env.Workers with one random stream per chunk, so a fixed
// seed reproduces the same rows.
package generate

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/catalog"
	"github.com/Tysek64/DrugiTinder/internal/config"
	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

// rowChunk is the number of rows one random stream covers.
const rowChunk = 1024

// Env is everything a generator may read.
type Env struct {
	Cfg     config.Population
	Catalog *catalog.Catalog
	Pools   *pool.Registry
	Workers *worker.Pool
	Seed    uint64
	Now     time.Time
}

// Batch is one set of rows for one table. Attrs, when set, has one entry per
// row and is stored next to the ids the rows receive.
type Batch struct {
	Table   string
	Columns []string
	Rows    [][]any
	Attrs   []any
}

func (b Batch) Len() int { return len(b.Rows) }

// stream is the random source for single-threaded generators.
func (e *Env) stream(salt string, batch int) *rand.Rand {
	return worker.Stream(e.Seed, salt, batch)
}

// RatioCount is floor(n * ratio / 100). The epsilon absorbs float error in
// products such as 1000 * 0.29.
func RatioCount(n int, ratio float64) int {
	if n <= 0 || ratio <= 0 {
		return 0
	}
	return int(math.Floor(float64(n)*ratio/100 + 1e-9))
}

// chance is true with probability pct percent.
func chance(r *rand.Rand, pct float64) bool {
	return r.Float64()*100 < pct
}

// between draws uniformly from [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// timeBetween draws uniformly from [from, to).
func timeBetween(r *rand.Rand, from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(r.Int64N(int64(span))))
}

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weighted picks indexes proportionally to their weights; all-zero weights
// fall back to a uniform pick.
type weighted struct {
	cum []float64
}

func newWeighted(weights []float64) weighted {
	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		cum[i] = total
	}
	if total == 0 {
		for i := range cum {
			cum[i] = float64(i + 1)
		}
	}
	return weighted{cum: cum}
}

func (w weighted) pick(r *rand.Rand) int {
	x := r.Float64() * w.cum[len(w.cum)-1]
	return sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > x })
}

// distinct picks k distinct indexes from weighted (k is capped at n).
func (w weighted) distinct(r *rand.Rand, k int) []int {
	k = min(k, len(w.cum))
	out := make([]int, 0, k)
	taken := make(map[int]bool, k)
	for tries := 0; len(out) < k; tries++ {
		i := w.pick(r)
		if tries > 64*k {
			// heavily skewed weights: finish with the first free indexes
			for j := range w.cum {
				if len(out) == k {
					break
				}
				if !taken[j] {
					taken[j] = true
					out = append(out, j)
				}
			}
			break
		}
		if taken[i] {
			continue
		}
		taken[i] = true
		out = append(out, i)
	}
	return out
}
