package report

import (
	"log/slog"

	"github.com/Tysek64/DrugiTinder/internal/logger"
)

// Log writes stage boundaries through the global logger.
type Log struct {
	runID string
}

func NewLog() *Log { return &Log{} }

func (l *Log) RunStarted(runID string, stages int) {
	l.runID = runID
	logger.Info("run started", "run", runID, "stages", stages)
}

func (l *Log) StageStarted(stage string, batches int) {
	logger.ForStage(stage).Info("stage started", "run", l.runID, "batches", batches)
}

func (l *Log) BatchCommitted(stage string, rows int) {
	logger.ForStage(stage).Debug("batch committed", "rows", rows)
}

func (l *Log) StageFinished(res StageResult) {
	logger.ForStage(res.Stage).Info("stage finished",
		"table", res.Table,
		"rows", res.Rows,
		"duration", res.Took,
	)
}

func (l *Log) RunFinished(sum Summary) {
	attrs := []any{"run", sum.RunID, "stages", len(sum.Stages), "rows", sum.Rows(), "duration", sum.Took}
	if sum.Err != nil {
		logger.L().Error("run aborted", append(attrs, slog.Any("error", sum.Err))...)
		return
	}
	logger.Info("run complete", attrs...)
}
