package resolver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
)

// BranchRef references a branch in a pull request event.
type BranchRef struct {
	Branch string `json:"branch"`
}

// PullRequestEvent is a pull request event that was received via a webhook.
type PullRequestEvent struct {
	Target BranchRef `json:"target"`
	Source BranchRef `json:"source"`
	// Action is a free-text description of what happened to the pull
	// request, e.g. "merged", "declined" or "deleted".
	Action string `json:"action"`
	// MergeID is the commit the pull request was merged as, it is empty
	// if it is not known.
	MergeID string `json:"mergeId,omitempty"`

	// Provider and DeliveryID are only used for logging.
	Provider   string `json:"-"`
	DeliveryID string `json:"-"`
}

func (e *PullRequestEvent) String() string {
	return fmt.Sprintf("pull request %s -> %s (action: %q)", e.Source.Branch, e.Target.Branch, e.Action)
}

func (e *PullRequestEvent) LogFields() []zap.Field {
	fields := make([]zap.Field, 0, 6) // cap == max. size of fields we append

	if e.Provider != "" {
		fields = append(fields, logfields.EventProvider(e.Provider))
	}

	if e.DeliveryID != "" {
		fields = append(fields, logfields.DeliveryID(e.DeliveryID))
	}

	if e.Source.Branch != "" {
		fields = append(fields, logfields.Branch(e.Source.Branch))
	}

	if e.Target.Branch != "" {
		fields = append(fields, logfields.BaseBranch(e.Target.Branch))
	}

	if e.Action != "" {
		fields = append(fields, logfields.PullRequestAction(e.Action))
	}

	if e.MergeID != "" {
		fields = append(fields, logfields.Commit(e.MergeID))
	}

	return fields
}
