package changeset

import "time"

// Step is an audit trail entry of a run.
type Step struct {
	RunID     string
	Message   string
	Error     string
	CreatedAt time.Time
}
