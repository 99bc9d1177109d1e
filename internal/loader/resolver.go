package loader

import (
	"context"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

// Resolver turns a committed table into the id list downstream stages
// sample foreign keys from.
type Resolver struct {
	sink Sink
}

func NewResolver(sink Sink) *Resolver {
	return &Resolver{sink: sink}
}

// Resolve assumes the run started from empty tables, so every id in the
// table belongs to this run.
func (r *Resolver) Resolve(ctx context.Context, table string) ([]int64, error) {
	ids, err := r.sink.FetchIDs(ctx, table)
	if err != nil {
		return nil, perr.Map(OpIDFetch, table, err)
	}
	return ids, nil
}
