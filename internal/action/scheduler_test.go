package action

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/csresolver/internal/cserr"
)

type funcRunner struct {
	fn func(context.Context) error
}

func (r *funcRunner) Run(ctx context.Context) error {
	return r.fn(ctx)
}

func (*funcRunner) String() string {
	return "func"
}

func (*funcRunner) LogFields() []zap.Field {
	return []zap.Field{zap.String("action", "func")}
}

func TestSchedulerRetriesAction(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	retryer := NewRetryer(time.Minute)
	retryer.backoffInitialInterval = 10 * time.Millisecond

	s := NewScheduler(retryer)

	var cnt atomic.Int32
	s.Schedule(&funcRunner{fn: func(context.Context) error {
		if cnt.Add(1) < 2 {
			return cserr.NewRetryableAnytimeError(errors.New("temporary"))
		}
		return nil
	}})

	assert.Eventually(t, func() bool { return cnt.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	s.Stop()
}

func TestSchedulerStopWaitsForRoutines(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var deferCnt atomic.Int32
	s := NewScheduler(
		NewRetryer(time.Minute),
		WithRoutineDeferFunc(func() { deferCnt.Add(1) }),
	)

	started := make(chan struct{})
	var finished atomic.Bool

	s.Schedule(&funcRunner{fn: func(context.Context) error {
		close(started)
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
		return nil
	}})

	<-started
	s.Stop()

	assert.True(t, finished.Load())
	assert.EqualValues(t, 1, deferCnt.Load())
}

func TestSchedulerDiscardsActionsAfterStop(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	s := NewScheduler(NewRetryer(time.Minute))
	s.Stop()

	s.Schedule(&funcRunner{fn: func(context.Context) error {
		t.Error("action must not run after Stop")
		return nil
	}})
}
