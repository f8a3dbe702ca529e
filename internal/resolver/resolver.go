package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/changeset"
	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "resolver"

// DefGitOperationTimeout is the default maximum duration of cloning a
// repository and computing the merge-base.
const DefGitOperationTimeout = 5 * time.Minute

const (
	stageMergeBase = "merge_base"
	stageProcess   = "process"
)

// Resolver processes pull request events of change sets.
// Events for the same change set are processed sequentially, events for
// different change sets concurrently.
type Resolver struct {
	changeSets ChangeSetStore
	runs       RunStore
	vcs        VCS
	notifier   Notifier
	deployer   DeploymentTrigger
	steps      StepRecorder

	integrationBranch string
	gitTimeout        time.Duration

	locks  *keyLock
	logger *zap.Logger
}

type Option func(*Resolver)

// WithIntegrationBranch sets the branch that pull requests must target.
// The default is DefIntegrationBranch.
func WithIntegrationBranch(branch string) Option {
	return func(r *Resolver) {
		r.integrationBranch = branch
	}
}

// WithGitOperationTimeout sets the maximum duration of resolving a
// merge-base. The default is DefGitOperationTimeout.
func WithGitOperationTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.gitTimeout = d
	}
}

func New(
	changeSets ChangeSetStore,
	runs RunStore,
	vcs VCS,
	notifier Notifier,
	deployer DeploymentTrigger,
	steps StepRecorder,
	opts ...Option,
) *Resolver {
	r := Resolver{
		changeSets:        changeSets,
		runs:              runs,
		vcs:               vcs,
		notifier:          notifier,
		deployer:          deployer,
		steps:             steps,
		integrationBranch: DefIntegrationBranch,
		gitTimeout:        DefGitOperationTimeout,
		locks:             newKeyLock(),
	}

	for _, opt := range opts {
		opt(&r)
	}

	if r.logger == nil {
		r.logger = zap.L().Named(loggerName)
	}

	return &r
}

// Process runs the resolution workflow for a pull request event.
// When an error is returned, changes that were stored before the error
// happened are not reverted.
func (r *Resolver) Process(ctx context.Context, ev *PullRequestEvent) (Outcome, error) {
	logger := r.logger.With(ev.LogFields()...)

	outcome, err := r.process(ctx, logger, ev)
	if err != nil {
		metrics.FailedEventsInc(err)
		logger.Info(
			"processing pull request event failed",
			logfields.Event("pull_request_event_processing_failed"),
			zap.String("reason", ErrorReason(err)),
			zap.Error(err),
		)

		return OutcomeUndefined, err
	}

	metrics.ProcessedEventsInc(outcome)
	logger.Info(
		"pull request event processed",
		logfields.Event("pull_request_event_processed"),
		logfields.Outcome(outcome.String()),
	)

	return outcome, nil
}

func (r *Resolver) process(ctx context.Context, logger *zap.Logger, ev *PullRequestEvent) (Outcome, error) {
	id, err := r.Validate(ev)
	if err != nil {
		return OutcomeUndefined, err
	}

	action := ClassifyAction(ev.Action)

	logger = logger.With(logfields.ChangeSet(string(id)), zap.Stringer("action", action))

	if action == ActionIgnore {
		logger.Debug(
			"ignoring event, action is not relevant",
			logfields.Event("pull_request_event_ignored"),
		)

		return OutcomeIgnored, nil
	}

	unlock := r.locks.Lock(string(id))
	defer unlock()

	cs, run, err := r.resolveChangeSet(ctx, id)
	if err != nil {
		return OutcomeUndefined, err
	}

	logger = logger.With(logfields.Run(run.ID))

	if isResolved(cs, run) {
		logger.Info(
			"pull request of change set was already resolved, skipping event",
			logfields.Event("pull_request_already_resolved"),
			zap.String("status", string(cs.Status)),
			zap.Bool("deployment_triggered", run.DeploymentTriggered),
		)

		return OutcomeAlreadyResolved, nil
	}

	if action == ActionMerge && run.BranchCommitID != "" {
		logger.Info(
			"run commit was already replaced with the merge commit by an earlier event",
			logfields.Event("run_commit_already_rebound"),
			logfields.Commit(run.CommitID),
		)
	} else if action == ActionMerge {
		mergeID := ev.MergeID

		if mergeID == "" {
			mergeID, err = r.resolveMergeBase(ctx, logger, run)
			if err != nil {
				return OutcomeUndefined, err
			}
		}

		if err := r.rebindCommit(ctx, logger, run, mergeID); err != nil {
			return OutcomeUndefined, err
		}
	}

	return r.dispatch(ctx, logger, action, ev.Action, cs, run)
}

// resolveChangeSet loads the change set with the given id, marks its pull
// request as resolved and loads its run.
func (r *Resolver) resolveChangeSet(ctx context.Context, id changeset.ID) (*changeset.ChangeSet, *changeset.Run, error) {
	cs, err := r.changeSets.FindChangeSet(ctx, id)
	if err != nil {
		if errors.Is(err, changeset.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrChangeSetNotFound, id)
		}

		return nil, nil, fmt.Errorf("looking up change set %s failed: %w", id, err)
	}

	if cs.RunID == "" {
		return nil, nil, fmt.Errorf("%w: %s has no run", ErrChangeSetNotFound, id)
	}

	cs.PullRequestRaised = false
	if err := r.changeSets.UpdateChangeSet(ctx, cs); err != nil {
		return nil, nil, fmt.Errorf("%w: updating change set %s: %w", ErrStoreWriteFailed, id, err)
	}

	run, err := r.runs.GetRun(ctx, cs.RunID)
	if err != nil {
		if errors.Is(err, changeset.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, cs.RunID)
		}

		return nil, nil, fmt.Errorf("looking up run %s failed: %w", cs.RunID, err)
	}

	if run.Config == nil {
		return nil, nil, fmt.Errorf("%w: run %s", ErrMissingConfiguration, run.ID)
	}

	return cs, run, nil
}

// isResolved returns true when an earlier event finished the workflow for
// the change set.
// The pullRequestRaised flag is not used, it is cleared before the workflow
// can fail and would cause redeliveries of failed events to be skipped.
func isResolved(cs *changeset.ChangeSet, run *changeset.Run) bool {
	switch cs.Status {
	case changeset.StatusComplete, changeset.StatusCodeReviewRejected:
		return true
	}

	return run.DeploymentTriggered
}

// rebindCommit replaces the commit of the run with mergeID and keeps the
// previous commit as BranchCommitID.
func (r *Resolver) rebindCommit(ctx context.Context, logger *zap.Logger, run *changeset.Run, mergeID string) error {
	prevCommit := run.CommitID

	run.BranchCommitID = run.CommitID
	run.CommitID = mergeID

	if err := r.runs.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("%w: updating run %s: %w", ErrStoreWriteFailed, run.ID, err)
	}

	logger.Debug(
		"run commit replaced with merge commit",
		logfields.Event("run_commit_rebound"),
		zap.String("branch_commit", prevCommit),
		logfields.Commit(mergeID),
	)

	return nil
}

func (r *Resolver) step(ctx context.Context, run *changeset.Run, stage, msg string, err error) {
	r.steps.Record(ctx, run, fmt.Sprintf("pull_request_resolve.%s : %s", stage, msg), err)
}
