package deploy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/csresolver/internal/action"
	"github.com/simplesurance/csresolver/internal/resolver"
)

func TestHTTPTriggerPostsRequest(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var body []byte
	var user, password string
	var authOK bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, authOK = r.BasicAuth()
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	scheduler := action.NewScheduler(action.NewRetryer(time.Minute))

	trigger := NewHTTPTrigger(srv.URL, scheduler, WithBasicAuth("ci", "secret"))
	err := trigger.Trigger(context.Background(), &resolver.DeployRequest{
		ChangeSetID: "0123456789abcdef0123456789abcdef",
		RunID:       "run-1",
		CommitID:    "abc123",
		Deploy:      true,
	})
	require.NoError(t, err)

	scheduler.Stop()

	assert.True(t, authOK)
	assert.Equal(t, "ci", user)
	assert.Equal(t, "secret", password)
	assert.JSONEq(t,
		`{"changeSetId":"0123456789abcdef0123456789abcdef","runId":"run-1","commitId":"abc123","deploy":true}`,
		string(body),
	)
}

func TestHTTPTriggerRetriesOnServerError(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	requests := make(chan map[string]any, 2)
	var cnt int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cnt++

		var m map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		requests <- m

		if cnt == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	scheduler := action.NewScheduler(action.NewRetryer(time.Minute))
	t.Cleanup(scheduler.Stop)

	trigger := NewHTTPTrigger(srv.URL, scheduler)
	require.NoError(t, trigger.Trigger(context.Background(), &resolver.DeployRequest{RunID: "run-1", Deploy: true}))

	for i := 0; i < 2; i++ {
		select {
		case m := <-requests:
			assert.Equal(t, "run-1", m["runId"])
		case <-time.After(30 * time.Second):
			t.Fatalf("request %d was not sent", i+1)
		}
	}
}

func TestLogTrigger(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	require.NoError(t, NewLogTrigger().Trigger(context.Background(), &resolver.DeployRequest{RunID: "run-1"}))
}
