package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
	"github.com/Tysek64/DrugiTinder/internal/generate"
	"github.com/Tysek64/DrugiTinder/internal/loader"
	"github.com/Tysek64/DrugiTinder/internal/report"
)

// State is where a run is. Complete and Aborted are terminal.
type State int

const (
	Idle State = iota
	Running
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Orchestrator drives stages strictly in order. Only generation runs in
// parallel; every sink call comes from one goroutine at a time.
type Orchestrator struct {
	stages   []Stage
	env      *generate.Env
	loader   *loader.Loader
	resolver *loader.Resolver
	reporter report.Reporter

	mu      sync.Mutex
	state   State
	current int // index of the running or failed stage, -1 before the first
}

func New(stages []Stage, env *generate.Env, sink loader.Sink, rep report.Reporter) *Orchestrator {
	if rep == nil {
		rep = report.Nop{}
	}
	return &Orchestrator{
		stages:   stages,
		env:      env,
		loader:   loader.New(sink),
		resolver: loader.NewResolver(sink),
		reporter: rep,
		current:  -1,
	}
}

// State returns the run state and the index of the current stage.
func (o *Orchestrator) State() (State, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.current
}

func (o *Orchestrator) transition(to State, stage int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	ok := false
	switch o.state {
	case Idle:
		ok = to == Running && stage == 0
	case Running:
		switch to {
		case Running:
			ok = stage == o.current+1
		case Complete:
			ok = o.current == len(o.stages)-1
		case Aborted:
			ok = true
		}
	}
	if !ok {
		return perr.Invariant("pipeline cannot move from %s at stage %d to %s at stage %d", o.state, o.current, to, stage)
	}
	o.state, o.current = to, stage
	return nil
}

// Run executes every stage once. A failure aborts the run and is returned as
// a *errors.StageError; stages committed before it stay committed.
func (o *Orchestrator) Run(ctx context.Context, runID string) (report.Summary, error) {
	sum := report.Summary{RunID: runID}
	if err := Check(o.stages); err != nil {
		return sum, err
	}
	if err := o.transition(Running, 0); err != nil {
		return sum, err
	}

	started := time.Now()
	o.reporter.RunStarted(runID, len(o.stages))

	for i, st := range o.stages {
		if i > 0 {
			if err := o.transition(Running, i); err != nil {
				return o.abort(sum, started, err)
			}
		}
		res, err := o.runStage(ctx, st)
		if err != nil {
			return o.abort(sum, started, &perr.StageError{Stage: st.Name, Completed: res.Rows, Err: err})
		}
		sum.Stages = append(sum.Stages, res)
		o.reporter.StageFinished(res)
	}

	if err := o.transition(Complete, len(o.stages)-1); err != nil {
		return o.abort(sum, started, err)
	}
	sum.Took = time.Since(started)
	o.reporter.RunFinished(sum)
	return sum, nil
}

func (o *Orchestrator) abort(sum report.Summary, started time.Time, err error) (report.Summary, error) {
	o.mu.Lock()
	o.state = Aborted
	o.mu.Unlock()

	sum.Took = time.Since(started)
	sum.Err = err
	o.reporter.RunFinished(sum)
	return sum, err
}

func (o *Orchestrator) runStage(ctx context.Context, st Stage) (report.StageResult, error) {
	res := report.StageResult{Stage: st.Name, Table: st.Table}
	started := time.Now()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := o.checkInputs(st); err != nil {
		return res, err
	}
	n, err := st.batches(ctx, o.env)
	if err != nil {
		return res, err
	}
	o.reporter.StageStarted(st.Name, n)

	// Batch i+1 is generated while batch i commits.
	g, gctx := errgroup.WithContext(ctx)
	ready := make(chan generate.Batch, 1)
	g.Go(func() error {
		defer close(ready)
		for i := range n {
			b, err := st.Generate(gctx, o.env, i)
			if err != nil {
				return err
			}
			select {
			case ready <- b:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		for b := range ready {
			if err := o.commit(gctx, st, b); err != nil {
				return err
			}
			res.Rows += b.Len()
			o.reporter.BatchCommitted(st.Name, b.Len())
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return res, err
	}

	if err := o.publish(ctx, st); err != nil {
		return res, err
	}
	res.Took = time.Since(started)
	return res, nil
}

// checkInputs refuses to start a stage whose mandatory pools are empty.
func (o *Orchestrator) checkInputs(st Stage) error {
	for _, in := range st.Inputs {
		if !o.env.Pools.Has(in.Pool) {
			return perr.Invariant("stage %s reads pool %s before any stage produced it", st.Name, in.Pool)
		}
		if !in.AllowEmpty && o.env.Pools.Get(in.Pool).Len() == 0 {
			return &perr.DependencyUnavailableError{Stage: st.Name, Pool: string(in.Pool)}
		}
	}
	return nil
}

func (o *Orchestrator) commit(ctx context.Context, st Stage, b generate.Batch) error {
	if b.Table != st.Table {
		return perr.Invariant("stage %s produced rows for table %s", st.Name, b.Table)
	}
	if b.Len() == 0 {
		return nil
	}
	if st.Mode == Copy {
		return o.loader.Load(ctx, st.Table, b.Columns, b.Rows)
	}

	ids, err := o.loader.InsertReturning(ctx, st.Table, b.Columns, b.Rows)
	if err != nil {
		return err
	}
	if st.Output == "" {
		return nil
	}
	return o.env.Pools.Append(st.Output, ids, b.Attrs)
}

// publish registers the stage's output pool once every batch committed.
func (o *Orchestrator) publish(ctx context.Context, st Stage) error {
	if st.Output == "" {
		return nil
	}
	if st.Mode == Returning {
		if !o.env.Pools.Has(st.Output) {
			return o.env.Pools.Set(st.Output, nil, nil)
		}
		return nil
	}
	ids, err := o.resolver.Resolve(ctx, st.Table)
	if err != nil {
		return err
	}
	return o.env.Pools.Set(st.Output, ids, nil)
}

// Check verifies a stage list is runnable: names are unique and every input
// is the output of an earlier stage.
func Check(stages []Stage) error {
	if len(stages) == 0 {
		return perr.Invariant("no stages to run")
	}
	names := make(map[string]bool, len(stages))
	produced := make(map[string]bool, len(stages))
	for _, st := range stages {
		if names[st.Name] {
			return perr.Invariant("stage %s declared twice", st.Name)
		}
		names[st.Name] = true
		if st.Generate == nil {
			return perr.Invariant("stage %s has no generator", st.Name)
		}
		for _, in := range st.Inputs {
			if !produced[string(in.Pool)] {
				return perr.Invariant("stage %s reads pool %s that no earlier stage produces", st.Name, in.Pool)
			}
		}
		if st.Output != "" {
			produced[string(st.Output)] = true
		}
	}
	return nil
}
