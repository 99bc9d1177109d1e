// Package report observes a run: logs, a console progress bar and a redis
// ledger. Reporters never influence the run.
package report

import (
	"time"
)

type StageResult struct {
	Stage string
	Table string
	Rows  int
	Took  time.Duration
}

type Summary struct {
	RunID  string
	Stages []StageResult
	Took   time.Duration
	Err    error // nil on success
}

// Rows is the total committed across all stages.
func (s Summary) Rows() int {
	n := 0
	for _, st := range s.Stages {
		n += st.Rows
	}
	return n
}

type Reporter interface {
	RunStarted(runID string, stages int)
	StageStarted(stage string, batches int)
	BatchCommitted(stage string, rows int)
	StageFinished(res StageResult)
	RunFinished(sum Summary)
}

// Multi fans every event out to all reporters in order.
type Multi []Reporter

func (m Multi) RunStarted(runID string, stages int) {
	for _, r := range m {
		r.RunStarted(runID, stages)
	}
}

func (m Multi) StageStarted(stage string, batches int) {
	for _, r := range m {
		r.StageStarted(stage, batches)
	}
}

func (m Multi) BatchCommitted(stage string, rows int) {
	for _, r := range m {
		r.BatchCommitted(stage, rows)
	}
}

func (m Multi) StageFinished(res StageResult) {
	for _, r := range m {
		r.StageFinished(res)
	}
}

func (m Multi) RunFinished(sum Summary) {
	for _, r := range m {
		r.RunFinished(sum)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) RunStarted(string, int)     {}
func (Nop) StageStarted(string, int)   {}
func (Nop) BatchCommitted(string, int) {}
func (Nop) StageFinished(StageResult)  {}
func (Nop) RunFinished(Summary)        {}
