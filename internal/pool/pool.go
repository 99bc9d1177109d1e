// Package pool keeps the primary keys committed by earlier stages so later
// stages can sample foreign keys from them.
package pool

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

// Ref names a pool. Most refs match the table the ids came from.
type Ref string

const (
	Sex              Ref = "sex"
	Interest         Ref = "interest"
	Plan             Ref = "subscription_plan"
	Country          Ref = "country"
	City             Ref = "city"
	SearchPreference Ref = "search_preference"
	BillingAddress   Ref = "billing_address"
	PaymentData      Ref = "payment_data"
	Subscription     Ref = "subscription"
	User             Ref = "user"
	UserDetails      Ref = "user_details"
	AdminUser        Ref = "admin_user"
	Administrator    Ref = "administrator"
	Match            Ref = "match"
	Conversation     Ref = "conversation"
	Report           Ref = "report"
)

// Pool is an id list with an optional attribute per id, kept in the order
// the ids were returned. Attrs is either nil or as long as IDs.
type Pool struct {
	IDs   []int64
	Attrs []any
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.IDs)
}

// Pick samples an id for a mandatory foreign key.
func (p *Pool) Pick(r *rand.Rand) (int64, int, error) {
	if p.Len() == 0 {
		return 0, -1, &perr.InvariantViolation{What: "sampled a mandatory foreign key from an empty pool"}
	}
	i := r.IntN(len(p.IDs))
	return p.IDs[i], i, nil
}

// PickOther samples an id different from not. The pool needs two distinct ids.
func (p *Pool) PickOther(r *rand.Rand, not int64) (int64, error) {
	if p.Len() < 2 {
		return 0, &perr.InvariantViolation{What: "need two ids to pick a distinct pair"}
	}
	for {
		id := p.IDs[r.IntN(len(p.IDs))]
		if id != not {
			return id, nil
		}
	}
}

// Optional samples an id for a nullable foreign key: nil when the pool is
// empty, otherwise an int64 boxed for a row.
func (p *Pool) Optional(r *rand.Rand) any {
	if p.Len() == 0 {
		return nil
	}
	return p.IDs[r.IntN(len(p.IDs))]
}

// Attr returns the attribute stored next to the i-th id.
func Attr[T any](p *Pool, i int) (T, error) {
	var zero T
	if p == nil || i < 0 || i >= len(p.Attrs) {
		return zero, perr.Invariant("no attribute at index %d", i)
	}
	v, ok := p.Attrs[i].(T)
	if !ok {
		return zero, perr.Invariant("attribute %d is %T, want %T", i, p.Attrs[i], zero)
	}
	return v, nil
}

// Registry holds every pool produced during a run.
type Registry struct {
	mu    sync.RWMutex
	pools map[Ref]*Pool
}

func NewRegistry() *Registry {
	return &Registry{pools: make(map[Ref]*Pool)}
}

// Set replaces a pool.
func (r *Registry) Set(ref Ref, ids []int64, attrs []any) error {
	if attrs != nil && len(attrs) != len(ids) {
		return perr.Invariant("pool %s: %d attrs for %d ids", ref, len(attrs), len(ids))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[ref] = &Pool{IDs: ids, Attrs: attrs}
	return nil
}

// Append extends a pool batch by batch, creating it on first use.
func (r *Registry) Append(ref Ref, ids []int64, attrs []any) error {
	if attrs != nil && len(attrs) != len(ids) {
		return perr.Invariant("pool %s: %d attrs for %d ids", ref, len(attrs), len(ids))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[ref]
	if !ok {
		p = &Pool{}
		r.pools[ref] = p
	}
	if (p.Attrs == nil) != (attrs == nil) && len(p.IDs) > 0 {
		return perr.Invariant("pool %s: mixing batches with and without attrs", ref)
	}
	p.IDs = append(p.IDs, ids...)
	if attrs != nil {
		p.Attrs = append(p.Attrs, attrs...)
	}
	return nil
}

// Get returns the pool or nil. A nil pool has Len 0.
func (r *Registry) Get(ref Ref) *Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pools[ref]
}

func (r *Registry) Has(ref Ref) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pools[ref]
	return ok
}

// Sizes reports the length of every registered pool, sorted by name.
func (r *Registry) Sizes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.pools))
	for ref, p := range r.pools {
		out = append(out, fmt.Sprintf("%s=%d", ref, p.Len()))
	}
	sort.Strings(out)
	return out
}
