// Package loader submits generated batches to a storage sink and reads the
// committed primary keys back for downstream stages.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/config"
	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

// Sink is the narrow storage surface a run depends on.
type Sink interface {
	// BulkLoad applies all rows in one set-oriented call or none of them.
	BulkLoad(ctx context.Context, table string, columns []string, rows [][]any) error
	FetchIDs(ctx context.Context, table string) ([]int64, error)
	// InsertReturning returns the new ids in row order.
	InsertReturning(ctx context.Context, table string, columns []string, rows [][]any) ([]int64, error)
}

const (
	OpBulkLoad        = "bulk-load"
	OpIDFetch         = "id-fetch"
	OpInsertReturning = "insert-returning"
)

type Loader struct {
	sink Sink
}

func New(sink Sink) *Loader {
	return &Loader{sink: sink}
}

// Load validates and submits rows. An empty batch never reaches the sink.
func (l *Loader) Load(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if err := Validate(table, columns, rows); err != nil {
		return err
	}
	return perr.Map(OpBulkLoad, table, l.sink.BulkLoad(ctx, table, columns, rows))
}

// InsertReturning inserts rows in statements of at most config.MaxBatchRows
// and returns one id per row, in row order.
func (l *Loader) InsertReturning(ctx context.Context, table string, columns []string, rows [][]any) ([]int64, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if err := Validate(table, columns, rows); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for lo := 0; lo < len(rows); lo += config.MaxBatchRows {
		chunk := rows[lo:min(lo+config.MaxBatchRows, len(rows))]
		got, err := l.sink.InsertReturning(ctx, table, columns, chunk)
		if err != nil {
			return nil, perr.Map(OpInsertReturning, table, err)
		}
		if len(got) != len(chunk) {
			return nil, &perr.SinkError{
				Op:    OpInsertReturning,
				Table: table,
				Err:   fmt.Errorf("sink returned %d ids for %d rows", len(got), len(chunk)),
			}
		}
		ids = append(ids, got...)
	}
	return ids, nil
}

// Validate checks arity and that every value has a bulk-transferable type.
func Validate(table string, columns []string, rows [][]any) error {
	if len(columns) == 0 {
		return &perr.SerializationError{Table: table, Row: -1, Err: fmt.Errorf("no columns")}
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return &perr.SerializationError{
				Table: table,
				Row:   i,
				Err:   fmt.Errorf("has %d values for %d columns", len(row), len(columns)),
			}
		}
		for j, v := range row {
			if !encodable(v) {
				return &perr.SerializationError{
					Table:  table,
					Row:    i,
					Column: columns[j],
					Err:    fmt.Errorf("unsupported value type %T", v),
				}
			}
		}
	}
	return nil
}

func encodable(v any) bool {
	switch v.(type) {
	case nil, int64, int32, int, float64, bool, string, time.Time:
		return true
	}
	return false
}
