package action

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "action_scheduler"

// Scheduler executes Runners asynchronously in go-routines. Failed
// executions are retried via a Retryer.
type Scheduler struct {
	retryer *Retryer
	logger  *zap.Logger

	wg       sync.WaitGroup
	deferFn  func()
	stopped  bool
	stopLock sync.Mutex
}

// WithRoutineDeferFunc sets a function to be run when a go-routine that
// executes an action returns.
// It can be used to set a panic handler.
func WithRoutineDeferFunc(fn func()) func(*Scheduler) {
	return func(s *Scheduler) {
		s.deferFn = fn
	}
}

func NewScheduler(retryer *Retryer, opts ...func(*Scheduler)) *Scheduler {
	s := Scheduler{
		retryer: retryer,
		logger:  zap.L().Named(loggerName),
	}

	for _, opt := range opts {
		opt(&s)
	}

	return &s
}

// Schedule runs action in a new go-routine.
// When the scheduler was stopped, the action is discarded.
func (s *Scheduler) Schedule(action Runner, logF ...zap.Field) {
	logF = append(logF, action.LogFields()...)

	s.stopLock.Lock()
	defer s.stopLock.Unlock()

	if s.stopped {
		s.logger.Warn(
			"scheduler is stopped, discarding action",
			append(logF, logfields.Event("action_discarded"))...,
		)

		return
	}

	s.wg.Add(1)

	go func() {
		if s.deferFn != nil {
			defer s.deferFn()
		}

		defer s.wg.Done()

		_ = s.retryer.Run(context.Background(), action.Run, logF)
	}()

	s.logger.Debug(
		"action scheduled",
		append(logF, logfields.Event("action_scheduled"), zap.Stringer("action", action))...,
	)
}

// Stop prevents pending retries and waits until all scheduled go-routines
// terminated.
func (s *Scheduler) Stop() {
	s.stopLock.Lock()
	s.stopped = true
	s.stopLock.Unlock()

	s.retryer.Stop()

	s.logger.Debug(
		"waiting for scheduled actions to terminate",
		logfields.Event("action_scheduler_terminating"),
	)
	s.wg.Wait()

	s.logger.Info("action scheduler terminated", logfields.Event("action_scheduler_terminated"))
}
