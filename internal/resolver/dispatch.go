package resolver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/changeset"
	"github.com/simplesurance/csresolver/internal/logfields"
)

// dispatch runs the terminal operations for the classified action.
func (r *Resolver) dispatch(
	ctx context.Context,
	logger *zap.Logger,
	action Action,
	actionLabel string,
	cs *changeset.ChangeSet,
	run *changeset.Run,
) (Outcome, error) {
	cfg := run.Config

	switch action {
	case ActionDecline, ActionDelete:
		r.step(ctx, run, stageProcess, fmt.Sprintf(
			"pull request result for '%s' is '%s' set update-set status to '%s'",
			cfg.UpdateSet.Name, strings.ToLower(actionLabel), changeset.StatusCodeReviewRejected,
		), nil)

		if err := r.setStatus(ctx, cs, changeset.StatusCodeReviewRejected); err != nil {
			return OutcomeUndefined, err
		}

		return OutcomeRejected, nil

	case ActionMerge:
		return r.dispatchMerged(ctx, logger, cs, run)

	default:
		logger.Panic(
			"dispatch called with unsupported action",
			zap.Int("action_int", int(action)),
		)
		return OutcomeUndefined, nil // unreachable
	}
}

func (r *Resolver) dispatchMerged(ctx context.Context, logger *zap.Logger, cs *changeset.ChangeSet, run *changeset.Run) (Outcome, error) {
	cfg := run.Config

	if err := r.vcs.DeleteRemoteBranch(ctx, cfg.Git.RemoteURL, cfg.BranchName); err != nil {
		return OutcomeUndefined, fmt.Errorf("%w: deleting branch %s: %w", ErrGitOperationFailed, cfg.BranchName, err)
	}

	logger.Debug(
		"feature branch deleted",
		logfields.Event("feature_branch_deleted"),
		logfields.Branch(cfg.BranchName),
	)

	if cfg.Deploy == nil || !cfg.Deploy.Enabled {
		const reason = "Pull request merged, but not deployment target environment specified"
		return r.completeManualDeploy(ctx, logger, cs, run, reason)
	}

	if !cfg.Deploy.OnPullRequestResolve {
		const reason = "Pull request merged, but deployment 'onPullRequestResolve' is disabled"
		return r.completeManualDeploy(ctx, logger, cs, run, reason)
	}

	r.step(ctx, run, stageProcess, fmt.Sprintf("deploy update-set %s", cfg.UpdateSet.Name), nil)

	err := r.deployer.Trigger(ctx, &DeployRequest{
		ChangeSetID: cs.ID,
		RunID:       run.ID,
		CommitID:    cfg.Build.CommitID,
		Deploy:      true,
	})
	if err != nil {
		r.step(ctx, run, stageProcess, fmt.Sprintf("triggering deployment of update-set %s failed", cfg.UpdateSet.Name), err)
		return OutcomeUndefined, fmt.Errorf("triggering deployment failed: %w", err)
	}

	run.DeploymentTriggered = true
	if err := r.runs.UpdateRun(ctx, run); err != nil {
		return OutcomeUndefined, fmt.Errorf("%w: marking deployment of run %s as triggered: %w", ErrStoreWriteFailed, run.ID, err)
	}

	return OutcomeDeploymentTriggered, nil
}

// completeManualDeploy marks the change set as complete and notifies that it
// must be deployed manually.
func (r *Resolver) completeManualDeploy(ctx context.Context, logger *zap.Logger, cs *changeset.ChangeSet, run *changeset.Run, reason string) (Outcome, error) {
	cfg := run.Config

	r.step(ctx, run, stageProcess, reason+".", nil)
	r.step(ctx, run, stageProcess, fmt.Sprintf("complete update-set %s", cfg.UpdateSet.Name), nil)

	if err := r.setStatus(ctx, cs, changeset.StatusComplete); err != nil {
		return OutcomeUndefined, err
	}

	msg := fmt.Sprintf(
		"%s. Update-Set <%s|%s> needs to be deployed manually!",
		reason, cfg.UpdateSetURL(), cfg.UpdateSet.Name,
	)

	if err := r.notifier.Send(ctx, msg); err != nil {
		logger.Warn(
			"sending manual deployment notification failed",
			logfields.Event("notification_failed"),
			zap.Error(err),
		)
	}

	return OutcomeCompletedManualDeploy, nil
}

func (r *Resolver) setStatus(ctx context.Context, cs *changeset.ChangeSet, status changeset.Status) error {
	cs.Status = status

	if err := r.changeSets.UpdateChangeSet(ctx, cs); err != nil {
		return fmt.Errorf("%w: setting status of change set %s to %s: %w", ErrStoreWriteFailed, cs.ID, status, err)
	}

	return nil
}
