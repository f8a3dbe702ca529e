package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/csresolver/internal/changeset"
)

const testChangeSetID = changeset.ID("0123456789abcdef0123456789abcdef")

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "csresolver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestChangeSetCreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cs := changeset.ChangeSet{
		ID:                testChangeSetID,
		RunID:             "run-1",
		PullRequestRaised: true,
		Status:            changeset.StatusCodeReviewPending,
	}
	require.NoError(t, store.CreateChangeSet(ctx, &cs))
	assert.EqualValues(t, 1, cs.Version)

	stored, err := store.FindChangeSet(ctx, testChangeSetID)
	require.NoError(t, err)
	assert.Equal(t, cs, *stored)

	stored.PullRequestRaised = false
	stored.Status = changeset.StatusComplete
	require.NoError(t, store.UpdateChangeSet(ctx, stored))
	assert.EqualValues(t, 2, stored.Version)

	reloaded, err := store.FindChangeSet(ctx, testChangeSetID)
	require.NoError(t, err)
	assert.Equal(t, *stored, *reloaded)
}

func TestFindChangeSetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindChangeSet(context.Background(), testChangeSetID)
	require.ErrorIs(t, err, changeset.ErrNotFound)
}

func TestUpdateChangeSetVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateChangeSet(ctx, &changeset.ChangeSet{
		ID:                testChangeSetID,
		RunID:             "run-1",
		PullRequestRaised: true,
	}))

	first, err := store.FindChangeSet(ctx, testChangeSetID)
	require.NoError(t, err)

	second, err := store.FindChangeSet(ctx, testChangeSetID)
	require.NoError(t, err)

	first.Status = changeset.StatusComplete
	require.NoError(t, store.UpdateChangeSet(ctx, first))

	second.Status = changeset.StatusCodeReviewRejected
	err = store.UpdateChangeSet(ctx, second)
	require.ErrorIs(t, err, changeset.ErrVersionConflict)
	assert.EqualValues(t, 1, second.Version, "version must not change on conflicts")

	stored, err := store.FindChangeSet(ctx, testChangeSetID)
	require.NoError(t, err)
	assert.Equal(t, changeset.StatusComplete, stored.Status)
}

func TestUpdateChangeSetNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateChangeSet(context.Background(), &changeset.ChangeSet{ID: testChangeSetID, Version: 1})
	require.ErrorIs(t, err, changeset.ErrNotFound)
	assert.False(t, errors.Is(err, changeset.ErrVersionConflict))
}

func TestRunCreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run := changeset.Run{
		ID:       "run-1",
		CommitID: "abc123",
		Config: &changeset.RunConfig{
			Git:        changeset.GitConfig{RemoteURL: "https://git.example.com/app.git"},
			Deploy:     &changeset.DeployConfig{Enabled: true, OnPullRequestResolve: true},
			BranchName: "feature-@" + string(testChangeSetID),
			Host:       changeset.HostConfig{Name: "https://instance.example.com"},
			UpdateSet:  changeset.UpdateSet{SysID: string(testChangeSetID), Name: "my update set"},
			Build:      changeset.BuildConfig{CommitID: "abc123"},
		},
	}
	require.NoError(t, store.CreateRun(ctx, &run))

	stored, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, *stored)

	stored.BranchCommitID = stored.CommitID
	stored.CommitID = "def456"
	stored.DeploymentTriggered = true
	require.NoError(t, store.UpdateRun(ctx, stored))

	reloaded, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.BranchCommitID)
	assert.Equal(t, "def456", reloaded.CommitID)
	assert.True(t, reloaded.DeploymentTriggered)
	assert.EqualValues(t, 2, reloaded.Version)
}

func TestRunWithoutConfig(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(ctx, &changeset.Run{ID: "run-1", CommitID: "abc123"}))

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Nil(t, run.Config)
}

func TestUpdateRunVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(ctx, &changeset.Run{ID: "run-1", CommitID: "abc123"}))

	stale := changeset.Run{ID: "run-1", CommitID: "def456", Version: 5}
	require.ErrorIs(t, store.UpdateRun(ctx, &stale), changeset.ErrVersionConflict)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "run-1")
	require.ErrorIs(t, err, changeset.ErrNotFound)
}

func TestSteps(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AddStep(ctx, &changeset.Step{RunID: "run-1", Message: "first"}))
	require.NoError(t, store.AddStep(ctx, &changeset.Step{RunID: "run-1", Message: "second", Error: "failed"}))
	require.NoError(t, store.AddStep(ctx, &changeset.Step{RunID: "run-2", Message: "other"}))

	steps, err := store.Steps(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "first", steps[0].Message)
	assert.Equal(t, "second", steps[1].Message)
	assert.Equal(t, "failed", steps[1].Error)
	assert.False(t, steps[0].CreatedAt.IsZero())
}
