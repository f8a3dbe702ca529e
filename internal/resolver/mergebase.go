package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/changeset"
	"github.com/simplesurance/csresolver/internal/logfields"
)

// resolveMergeBase clones the repository of the run into a temporary
// workspace and returns the merge-base of the run commit and the integration
// branch.
// The workspace is removed before the method returns.
func (r *Resolver) resolveMergeBase(ctx context.Context, logger *zap.Logger, run *changeset.Run) (string, error) {
	remoteURL := run.Config.Git.RemoteURL

	ws, err := acquireWorkspace(run.Config.Application.Dir.Tmp, logger)
	if err != nil {
		return "", fmt.Errorf("%w: creating workspace: %w", ErrGitOperationFailed, err)
	}
	defer ws.Release()

	r.step(ctx, run, stageMergeBase, fmt.Sprintf("Checking out git repo %s on commit %s", remoteURL, run.CommitID), nil)

	ctx, cancelFn := context.WithTimeout(ctx, r.gitTimeout)
	defer cancelFn()

	startTime := time.Now()

	if err := r.vcs.Clone(ctx, ws.Dir, remoteURL, true); err != nil {
		return "", fmt.Errorf("%w: cloning %s: %w", ErrGitOperationFailed, remoteURL, err)
	}

	out, err := r.vcs.MergeBase(ctx, ws.Dir, run.CommitID, r.integrationBranch)
	if err != nil {
		return "", fmt.Errorf("%w: merge-base %s %s: %w", ErrGitOperationFailed, run.CommitID, r.integrationBranch, err)
	}

	metrics.ObserveMergeBaseDuration(time.Since(startTime))

	mergeID := firstNonEmptyLine(out)
	if mergeID == "" {
		return "", fmt.Errorf("%w: commit %s, branch %s", ErrMergeBaseNotFound, run.CommitID, r.integrationBranch)
	}

	logger.Debug(
		"merge-base resolved",
		logfields.Event("merge_base_resolved"),
		logfields.Commit(mergeID),
		zap.Duration("duration", time.Since(startTime)),
	)

	return mergeID, nil
}

func firstNonEmptyLine(s string) string {
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}

	return ""
}
