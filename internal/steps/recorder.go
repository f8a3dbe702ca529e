// Package steps records the audit trail of runs.
package steps

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/changeset"
	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "steps"

// Store persists steps.
type Store interface {
	AddStep(ctx context.Context, step *changeset.Step) error
}

// Recorder stores steps and writes them to the log.
type Recorder struct {
	store  Store
	logger *zap.Logger
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: zap.L().Named(loggerName),
	}
}

// Record stores a step for run. Failing to store it is logged and otherwise
// ignored.
func (r *Recorder) Record(ctx context.Context, run *changeset.Run, message string, err error) {
	step := changeset.Step{
		RunID:   run.ID,
		Message: message,
	}

	logger := r.logger.With(logfields.Run(run.ID))

	if err != nil {
		step.Error = err.Error()
		logger.Warn(message, logfields.Event("run_step_failed"), zap.Error(err))
	} else {
		logger.Info(message, logfields.Event("run_step"))
	}

	if storeErr := r.store.AddStep(ctx, &step); storeErr != nil {
		logger.Error(
			"storing step failed",
			logfields.Event("run_step_storing_failed"),
			zap.String("step_message", message),
			zap.Error(storeErr),
		)
	}
}
