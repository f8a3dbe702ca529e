// Package deploy triggers deployments of change sets.
package deploy

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/action"
	"github.com/simplesurance/csresolver/internal/action/httprequest"
	"github.com/simplesurance/csresolver/internal/changeset"
	"github.com/simplesurance/csresolver/internal/logfields"
	"github.com/simplesurance/csresolver/internal/resolver"
)

const loggerName = "deploy_trigger"

// Scheduler executes actions asynchronously.
type Scheduler interface {
	Schedule(action action.Runner, logF ...zap.Field)
}

type triggerRequest struct {
	ChangeSetID changeset.ID `json:"changeSetId"`
	RunID       string       `json:"runId"`
	CommitID    string       `json:"commitId"`
	Deploy      bool         `json:"deploy"`
}

// HTTPTrigger starts deployments by sending a HTTP POST request with a JSON
// body to a CI endpoint.
// Requests are sent asynchronously and retried on temporary failures.
type HTTPTrigger struct {
	url       string
	user      string
	password  string
	scheduler Scheduler
	logger    *zap.Logger
}

type Option func(*HTTPTrigger)

// WithBasicAuth authenticates the trigger requests with user and password.
func WithBasicAuth(user, password string) Option {
	return func(t *HTTPTrigger) {
		t.user = user
		t.password = password
	}
}

func NewHTTPTrigger(url string, scheduler Scheduler, opts ...Option) *HTTPTrigger {
	t := HTTPTrigger{
		url:       url,
		scheduler: scheduler,
		logger:    zap.L().Named(loggerName),
	}

	for _, opt := range opts {
		opt(&t)
	}

	return &t
}

// Trigger schedules the deployment request. It does not wait until the
// request was sent.
func (t *HTTPTrigger) Trigger(_ context.Context, req *resolver.DeployRequest) error {
	buf, err := json.Marshal(&triggerRequest{
		ChangeSetID: req.ChangeSetID,
		RunID:       req.RunID,
		CommitID:    req.CommitID,
		Deploy:      req.Deploy,
	})
	if err != nil {
		return fmt.Errorf("marshalling deployment request failed: %w", err)
	}

	runner := httprequest.NewRunner(httprequest.NewConfig(
		t.url,
		httprequest.WithAuth(t.user, t.password),
		httprequest.WithHeader("Content-Type", "application/json"),
		httprequest.WithBody(buf),
	))

	logF := []zap.Field{
		logfields.ChangeSet(string(req.ChangeSetID)),
		logfields.Run(req.RunID),
		logfields.Commit(req.CommitID),
	}

	t.scheduler.Schedule(runner, logF...)

	t.logger.Info(
		"deployment trigger scheduled",
		append(logF, logfields.Event("deployment_trigger_scheduled"))...,
	)

	return nil
}

// LogTrigger only logs deployment requests.
// It is used when no deployment endpoint is configured.
type LogTrigger struct {
	logger *zap.Logger
}

func NewLogTrigger() *LogTrigger {
	return &LogTrigger{logger: zap.L().Named(loggerName)}
}

func (t *LogTrigger) Trigger(_ context.Context, req *resolver.DeployRequest) error {
	t.logger.Warn(
		"no deployment trigger url configured, deployment must be started manually",
		logfields.Event("deployment_trigger_not_configured"),
		logfields.ChangeSet(string(req.ChangeSetID)),
		logfields.Run(req.RunID),
		logfields.Commit(req.CommitID),
	)

	return nil
}
