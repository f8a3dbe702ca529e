package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/csresolver/internal/action"
)

func TestSendPostsMessage(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var mu sync.Mutex
	var received []message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var msg message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		mu.Lock()
		received = append(received, msg)
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	scheduler := action.NewScheduler(action.NewRetryer(time.Minute))

	n := New(srv.URL, "#deployments", scheduler)
	require.NoError(t, n.Send(context.Background(), "Update-Set needs to be deployed manually!"))

	scheduler.Stop()

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, received, 1)
	assert.Equal(t, "#deployments", received[0].Channel)
	assert.Equal(t, "Update-Set needs to be deployed manually!", received[0].Text)
}

func TestSendWithoutChannelOmitsField(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	scheduler := action.NewScheduler(action.NewRetryer(time.Minute))

	require.NoError(t, New(srv.URL, "", scheduler).Send(context.Background(), "hello"))
	scheduler.Stop()

	assert.Equal(t, map[string]any{"text": "hello"}, body)
}
