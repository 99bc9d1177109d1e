// Package pipeline runs the population stages in foreign-key order.
package pipeline

import (
	"context"

	"github.com/Tysek64/DrugiTinder/internal/generate"
	"github.com/Tysek64/DrugiTinder/internal/pool"
)

// Mode selects how a stage's batches reach the store.
type Mode int

const (
	// Copy bulk-loads each batch. When the stage has an Output, the ids are
	// fetched after the last batch commits.
	Copy Mode = iota
	// Returning inserts each batch and appends the returned ids, paired with
	// the batch attrs, to the Output pool.
	Returning
)

func (m Mode) String() string {
	if m == Returning {
		return "returning"
	}
	return "copy"
}

// Input is a pool a stage reads. A required input must be non-empty before
// the stage starts.
type Input struct {
	Pool       pool.Ref
	AllowEmpty bool
}

func need(ref pool.Ref) Input     { return Input{Pool: ref} }
func optional(ref pool.Ref) Input { return Input{Pool: ref, AllowEmpty: true} }

// Stage generates and loads one table.
type Stage struct {
	Name   string
	Table  string
	Inputs []Input
	Output pool.Ref // empty when nothing downstream needs the ids
	Mode   Mode

	// Batches returns how many times Generate is called. Nil means once.
	Batches  func(ctx context.Context, e *generate.Env) (int, error)
	Generate func(ctx context.Context, e *generate.Env, batch int) (generate.Batch, error)
}

func (s Stage) batches(ctx context.Context, e *generate.Env) (int, error) {
	if s.Batches == nil {
		return 1, nil
	}
	return s.Batches(ctx, e)
}

// fixed adapts a plain batch counter.
func fixed(fn func(e *generate.Env) int) func(context.Context, *generate.Env) (int, error) {
	return func(_ context.Context, e *generate.Env) (int, error) {
		return fn(e), nil
	}
}
