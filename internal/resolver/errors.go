package resolver

import "errors"

var (
	ErrInvalidTarget        = errors.New("invalid target branch")
	ErrInvalidSourceBranch  = errors.New("invalid source branch")
	ErrChangeSetNotFound    = errors.New("change set not found")
	ErrRunNotFound          = errors.New("run not found")
	ErrMissingConfiguration = errors.New("run has no configuration")
	ErrMergeBaseNotFound    = errors.New("merge-base not found")
	ErrGitOperationFailed   = errors.New("git operation failed")
	ErrStoreWriteFailed     = errors.New("store write failed")
)

var errReasons = []struct {
	err    error
	reason string
}{
	{ErrInvalidTarget, "invalid_target"},
	{ErrInvalidSourceBranch, "invalid_source_branch"},
	{ErrChangeSetNotFound, "change_set_not_found"},
	{ErrRunNotFound, "run_not_found"},
	{ErrMissingConfiguration, "missing_configuration"},
	{ErrMergeBaseNotFound, "merge_base_not_found"},
	{ErrGitOperationFailed, "git_operation_failed"},
	{ErrStoreWriteFailed, "store_write_failed"},
}

// ErrorReason returns a short snake_case identifier for the class of err.
func ErrorReason(err error) string {
	for _, r := range errReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}

	return "other"
}
