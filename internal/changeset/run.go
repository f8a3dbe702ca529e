package changeset

import "fmt"

// Run is one build/deploy attempt of a change set.
type Run struct {
	ID string
	// CommitID is the commit the run is tracking.
	CommitID string
	// BranchCommitID is the CommitID before it was replaced by the merge
	// commit, it is empty if the run was never rebound.
	BranchCommitID string
	// DeploymentTriggered is set after a deployment of the run was
	// triggered for its merged pull request.
	DeploymentTriggered bool
	Config              *RunConfig

	Version int64
}

func (r *Run) String() string {
	return fmt.Sprintf("run %s (commit: %s)", r.ID, r.CommitID)
}

// RunConfig is the configuration a run was started with.
// Field names follow the JSON documents that are stored with the run.
type RunConfig struct {
	Git         GitConfig         `json:"git"`
	Application ApplicationConfig `json:"application"`
	Deploy      *DeployConfig     `json:"deploy,omitempty"`
	BranchName  string            `json:"branchName"`
	Host        HostConfig        `json:"host"`
	UpdateSet   UpdateSet         `json:"updateSet"`
	Build       BuildConfig       `json:"build"`
}

type GitConfig struct {
	RemoteURL string `json:"remoteUrl"`
}

type ApplicationConfig struct {
	Dir DirConfig `json:"dir"`
}

type DirConfig struct {
	Tmp string `json:"tmp"`
}

type DeployConfig struct {
	Enabled              bool `json:"enabled"`
	OnPullRequestResolve bool `json:"onPullRequestResolve"`
}

type HostConfig struct {
	Name string `json:"name"`
}

// UpdateSet is the display metadata of the change set in the
// change-management system.
type UpdateSet struct {
	SysID string `json:"sys_id"`
	Name  string `json:"name"`
}

type BuildConfig struct {
	CommitID string `json:"commitId"`
}

// UpdateSetURL returns a link to the change set record on the host.
func (c *RunConfig) UpdateSetURL() string {
	return fmt.Sprintf("%s/sys_update_set.do?sys_id=%s", c.Host.Name, c.UpdateSet.SysID)
}
