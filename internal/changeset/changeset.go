// Package changeset contains the records that describe a change set and the
// build/deploy runs that belong to it.
package changeset

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// Status is the progress state of a change set in the change-management
// system.
type Status string

const (
	StatusUndefined          Status = ""
	StatusCodeReviewPending  Status = "CODE_REVIEW_PENDING"
	StatusCodeReviewRejected Status = "CODE_REVIEW_REJECTED"
	StatusComplete           Status = "COMPLETE"
)

// ID identifies a change set. It is a 32 character lowercase hexadecimal
// string.
type ID string

// ChangeSet is the tracked unit of work a pull request belongs to.
type ChangeSet struct {
	ID                ID
	RunID             string
	PullRequestRaised bool
	Status            Status

	// Version is incremented by the store on every successful update.
	// Updates fail with ErrVersionConflict when the stored version
	// differs.
	Version int64
}

func (c *ChangeSet) String() string {
	return fmt.Sprintf("change set %s (run: %s, status: %q)", c.ID, c.RunID, c.Status)
}
