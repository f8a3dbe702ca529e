package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/simplesurance/csresolver/internal/changeset"
)

// DefIntegrationBranch is the branch pull requests must target.
const DefIntegrationBranch = "master"

var sourceBranchRe = regexp.MustCompile(`(?i)^(\S+)-@([a-f0-9]{32})$`)

// ParseChangeSetID extracts the change set ID from a source branch name of
// the form <prefix>-@<32-hex-digit-id>.
func ParseChangeSetID(branch string) (changeset.ID, error) {
	matches := sourceBranchRe.FindStringSubmatch(branch)
	if len(matches) != 3 {
		return "", fmt.Errorf("%w: %q does not match <name>-@<change-set-id>", ErrInvalidSourceBranch, branch)
	}

	return changeset.ID(strings.ToLower(matches[2])), nil
}

// Validate checks that the event targets the integration branch and returns
// the change set ID of its source branch.
func (r *Resolver) Validate(ev *PullRequestEvent) (changeset.ID, error) {
	if ev.Target.Branch != r.integrationBranch {
		return "", fmt.Errorf("%w: target must be %q, is %q", ErrInvalidTarget, r.integrationBranch, ev.Target.Branch)
	}

	return ParseChangeSetID(ev.Source.Branch)
}
