// Package provider contains the shared parts of the HTTP endpoints that
// receive pull request events.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
	"github.com/simplesurance/csresolver/internal/resolver"
)

// Processor runs the resolution workflow for an event.
type Processor interface {
	Process(ctx context.Context, ev *resolver.PullRequestEvent) (resolver.Outcome, error)
}

// StatusCode returns the HTTP status code that is sent as response when
// processing an event failed with err.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, resolver.ErrInvalidTarget),
		errors.Is(err, resolver.ErrInvalidSourceBranch):
		return http.StatusUnprocessableEntity

	case errors.Is(err, resolver.ErrChangeSetNotFound),
		errors.Is(err, resolver.ErrRunNotFound),
		errors.Is(err, resolver.ErrMissingConfiguration):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// Process passes ev to p and writes the result as response.
func Process(resp http.ResponseWriter, req *http.Request, logger *zap.Logger, p Processor, ev *resolver.PullRequestEvent) {
	outcome, err := p.Process(req.Context(), ev)
	if err != nil {
		status := StatusCode(err)
		if status == http.StatusInternalServerError {
			logger.Warn(
				"processing event failed",
				logfields.Event("event_processing_failed"),
				zap.Error(err),
			)
		}

		http.Error(resp, err.Error(), status)
		return
	}

	WriteOutcome(resp, outcome)
}

// WriteOutcome responds with status code 200 and the outcome as body.
func WriteOutcome(resp http.ResponseWriter, outcome resolver.Outcome) {
	resp.Header().Set("Content-Type", "text/plain; charset=utf-8")
	resp.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintln(resp, outcome.String())
}
