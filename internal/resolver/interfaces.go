package resolver

import (
	"context"

	"github.com/simplesurance/csresolver/internal/changeset"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/simplesurance/csresolver/internal/resolver ChangeSetStore,RunStore,VCS,Notifier,DeploymentTrigger,StepRecorder

// ChangeSetStore persists change sets.
type ChangeSetStore interface {
	// FindChangeSet returns changeset.ErrNotFound if no change set with
	// the id exists.
	FindChangeSet(ctx context.Context, id changeset.ID) (*changeset.ChangeSet, error)
	// UpdateChangeSet stores cs if its Version matches the stored version
	// and increments cs.Version. Otherwise changeset.ErrVersionConflict
	// is returned.
	UpdateChangeSet(ctx context.Context, cs *changeset.ChangeSet) error
}

// RunStore persists runs.
type RunStore interface {
	// GetRun returns changeset.ErrNotFound if no run with the id exists.
	GetRun(ctx context.Context, id string) (*changeset.Run, error)
	// UpdateRun stores run if its Version matches the stored version and
	// increments run.Version. Otherwise changeset.ErrVersionConflict is
	// returned.
	UpdateRun(ctx context.Context, run *changeset.Run) error
}

// VCS runs git operations.
type VCS interface {
	// Clone clones remoteURL into dir. If noCheckout is true only the
	// history is fetched and no working tree is created.
	Clone(ctx context.Context, dir, remoteURL string, noCheckout bool) error
	// MergeBase returns the best common ancestors of the commits in the
	// repository in dir, one commit ID per line.
	MergeBase(ctx context.Context, dir, commitA, commitB string) (string, error)
	// DeleteRemoteBranch deletes branch in the remote repository.
	// Deleting a branch that does not exist succeeds.
	DeleteRemoteBranch(ctx context.Context, remoteURL, branch string) error
}

// Notifier sends messages to humans.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// DeployRequest describes a deployment that should be run.
type DeployRequest struct {
	ChangeSetID changeset.ID
	RunID       string
	CommitID    string
	Deploy      bool
}

// DeploymentTrigger starts deployments. It does not wait for the deployment
// to finish.
type DeploymentTrigger interface {
	Trigger(ctx context.Context, req *DeployRequest) error
}

// StepRecorder records audit trail entries for a run.
// Implementations handle failures themselves.
type StepRecorder interface {
	Record(ctx context.Context, run *changeset.Run, message string, err error)
}
