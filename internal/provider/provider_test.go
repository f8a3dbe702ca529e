package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/csresolver/internal/resolver"
)

func TestStatusCode(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
	}{
		{err: nil, status: http.StatusOK},
		{err: resolver.ErrInvalidTarget, status: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("%w: feature", resolver.ErrInvalidSourceBranch), status: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("%w: abc", resolver.ErrChangeSetNotFound), status: http.StatusNotFound},
		{err: resolver.ErrRunNotFound, status: http.StatusNotFound},
		{err: resolver.ErrMissingConfiguration, status: http.StatusNotFound},
		{err: resolver.ErrGitOperationFailed, status: http.StatusInternalServerError},
		{err: resolver.ErrMergeBaseNotFound, status: http.StatusInternalServerError},
		{err: errors.New("other"), status: http.StatusInternalServerError},
	} {
		name := "nil"
		if tc.err != nil {
			name = tc.err.Error()
		}

		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.status, StatusCode(tc.err))
		})
	}
}

type processorFunc func(context.Context, *resolver.PullRequestEvent) (resolver.Outcome, error)

func (f processorFunc) Process(ctx context.Context, ev *resolver.PullRequestEvent) (resolver.Outcome, error) {
	return f(ctx, ev)
}

func TestProcessWritesOutcome(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	Process(rec, req, zaptest.NewLogger(t), processorFunc(
		func(context.Context, *resolver.PullRequestEvent) (resolver.Outcome, error) {
			return resolver.OutcomeRejected, nil
		},
	), &resolver.PullRequestEvent{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rejected\n", rec.Body.String())
}

func TestProcessWritesError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	Process(rec, req, zaptest.NewLogger(t), processorFunc(
		func(context.Context, *resolver.PullRequestEvent) (resolver.Outcome, error) {
			return resolver.OutcomeUndefined, resolver.ErrChangeSetNotFound
		},
	), &resolver.PullRequestEvent{})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), resolver.ErrChangeSetNotFound.Error())
}
