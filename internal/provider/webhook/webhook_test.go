package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/csresolver/internal/resolver"
)

type recordingProcessor struct {
	events  []*resolver.PullRequestEvent
	outcome resolver.Outcome
	err     error
}

func (p *recordingProcessor) Process(_ context.Context, ev *resolver.PullRequestEvent) (resolver.Outcome, error) {
	p.events = append(p.events, ev)
	return p.outcome, p.err
}

func TestEventIsProcessed(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	processor := recordingProcessor{outcome: resolver.OutcomeCompletedManualDeploy}
	p := New(&processor)

	req := httptest.NewRequest(http.MethodPost, "/listener/webhook", bytes.NewBufferString(
		`{"target":{"branch":"master"},"source":{"branch":"x-@0123456789ABCDEF0123456789ABCDEF"},"action":"MERGED","mergeId":"abc"}`,
	))
	req.Header.Set(DeliveryIDHeader, "delivery-1")

	rec := httptest.NewRecorder()
	p.HTTPHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed_manual_deploy\n", rec.Body.String())

	require.Len(t, processor.events, 1)
	assert.Equal(t, &resolver.PullRequestEvent{
		Target:     resolver.BranchRef{Branch: "master"},
		Source:     resolver.BranchRef{Branch: "x-@0123456789ABCDEF0123456789ABCDEF"},
		Action:     "MERGED",
		MergeID:    "abc",
		Provider:   "webhook",
		DeliveryID: "delivery-1",
	}, processor.events[0])
}

func TestDeliveryIDIsGenerated(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	processor := recordingProcessor{outcome: resolver.OutcomeIgnored}
	p := New(&processor)

	req := httptest.NewRequest(http.MethodPost, "/listener/webhook", bytes.NewBufferString(`{"action":"opened"}`))
	rec := httptest.NewRecorder()
	p.HTTPHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, processor.events, 1)
	assert.Len(t, processor.events[0].DeliveryID, 36)
}

func TestInvalidRequests(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	var processor recordingProcessor
	p := New(&processor)

	rec := httptest.NewRecorder()
	p.HTTPHandler(rec, httptest.NewRequest(http.MethodGet, "/listener/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	p.HTTPHandler(rec, httptest.NewRequest(http.MethodPost, "/listener/webhook", bytes.NewBufferString(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, processor.events)
}

func TestErrorStatus(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	processor := recordingProcessor{err: resolver.ErrChangeSetNotFound}
	p := New(&processor)

	rec := httptest.NewRecorder()
	p.HTTPHandler(rec, httptest.NewRequest(http.MethodPost, "/listener/webhook", bytes.NewBufferString(`{"action":"merged"}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
