// Package interaction simulates who swipes on whom and reduces the directed
// right swipes into the symmetric match relation.
package interaction

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/worker"
)

// StatusActive is the status every freshly formed match gets.
const StatusActive = "active"

// actorChunk is the number of actors one random stream covers.
const actorChunk = 256

type Swipe struct {
	Actor  int64
	Target int64
	Liked  bool
	At     time.Time
}

// Match is a mutual like stored with Person1 < Person2.
type Match struct {
	Person1 int64
	Person2 int64
	Formed  time.Time
	Status  string
}

type Params struct {
	MinSwipes       int
	MaxSwipes       int
	RightSwipeRatio float64 // percent
	Shards          int
	Seed            uint64
	Now             time.Time
}

type Result struct {
	Swipes  []Swipe
	Matches []Match
	Likes   int
}

// Simulate lets every user in users swipe on k distinct other users, with k
// uniform in [MinSwipes, min(MaxSwipes, len(users)-1)], and derives the
// matches from the recorded right swipes. Ids in users must be distinct.
//
// Actors are processed in parallel on workers; Swipes come back in actor
// order and Matches sorted by (Person1, Person2).
func Simulate(ctx context.Context, workers *worker.Pool, users []int64, p Params) (*Result, error) {
	n := len(users)
	if n < 2 {
		return &Result{}, nil
	}

	maxK := max(min(p.MaxSwipes, n-1), 0)
	minK := max(min(p.MinSwipes, maxK), 0)
	likes := NewLikes(p.Shards)

	swipes, err := worker.Partition(ctx, workers, n, actorChunk, p.Seed, "swipe",
		func(r *rand.Rand, lo, hi int) ([]Swipe, error) {
			out := make([]Swipe, 0, (hi-lo)*(minK+maxK)/2)
			seen := make(map[int]struct{}, maxK)
			for i := lo; i < hi; i++ {
				actor := users[i]
				k := minK + r.IntN(maxK-minK+1)
				for _, j := range pickTargets(r, n, i, k, seen) {
					liked := r.Float64()*100 < p.RightSwipeRatio
					out = append(out, Swipe{Actor: actor, Target: users[j], Liked: liked, At: p.Now})
					if liked {
						likes.Record(actor, users[j])
					}
				}
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}

	return &Result{
		Swipes:  swipes,
		Matches: toMatches(likes.Mutual(), p.Now),
		Likes:   likes.Len(),
	}, nil
}

// DeriveMatches reduces a fixed swipe set to its matches. The result only
// depends on the set of right swipes, so calling it twice gives equal output.
func DeriveMatches(swipes []Swipe, formed time.Time) []Match {
	likes := NewLikes(1)
	for _, s := range swipes {
		if s.Liked && s.Actor != s.Target {
			likes.Record(s.Actor, s.Target)
		}
	}
	return toMatches(likes.Mutual(), formed)
}

// pickTargets returns k distinct indexes in [0,n) other than self.
func pickTargets(r *rand.Rand, n, self, k int, seen map[int]struct{}) []int {
	if k <= 0 {
		return nil
	}
	out := make([]int, 0, k)

	// dense draws: rejection sampling would spin, walk a permutation instead
	if 2*k > n {
		for _, j := range r.Perm(n) {
			if j == self {
				continue
			}
			out = append(out, j)
			if len(out) == k {
				break
			}
		}
		return out
	}

	clear(seen)
	for len(out) < k {
		j := r.IntN(n)
		if j == self {
			continue
		}
		if _, dup := seen[j]; dup {
			continue
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}
	return out
}

func toMatches(pairs [][2]int64, formed time.Time) []Match {
	slices.SortFunc(pairs, func(a, b [2]int64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	matches := make([]Match, len(pairs))
	for i, p := range pairs {
		matches[i] = Match{Person1: p[0], Person2: p[1], Formed: formed, Status: StatusActive}
	}
	return matches
}
