package report

import (
	"context"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/cache"
	"github.com/Tysek64/DrugiTinder/internal/logger"
)

const ledgerTimeout = 2 * time.Second

// Ledger mirrors run progress into redis. Failures are logged and ignored.
type Ledger struct {
	cache *cache.RedisCache
	runID string
	now   func() time.Time
}

func NewLedger(c *cache.RedisCache) *Ledger {
	return &Ledger{cache: c, now: time.Now}
}

func (l *Ledger) RunStarted(runID string, _ int) {
	l.runID = runID
	l.do("start run", func(ctx context.Context) error {
		return l.cache.StartRun(ctx, runID, l.now())
	})
}

func (l *Ledger) StageStarted(string, int) {}

func (l *Ledger) BatchCommitted(stage string, rows int) {
	l.do("record batch", func(ctx context.Context) error {
		return l.cache.AddStageRows(ctx, l.runID, stage, int64(rows))
	})
}

func (l *Ledger) StageFinished(StageResult) {}

func (l *Ledger) RunFinished(sum Summary) {
	status := "complete"
	if sum.Err != nil {
		status = "aborted"
	}
	l.do("finish run", func(ctx context.Context) error {
		return l.cache.FinishRun(ctx, l.runID, status, l.now(), sum.Err)
	})
}

func (l *Ledger) do(what string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("run ledger unavailable", "op", what, "run", l.runID, "error", err)
	}
}
