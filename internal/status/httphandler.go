// Package status provides HTTP handlers that show the audit trail of runs.
package status

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/changeset"
	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "status_http_service"

// RunParam is the query parameter that specifies the run ID.
const RunParam = "run"

// StepLister returns the steps of a run.
type StepLister interface {
	Steps(ctx context.Context, runID string) ([]*changeset.Step, error)
}

type HTTPService struct {
	steps  StepLister
	logger *zap.Logger
}

func NewHTTPService(steps StepLister) *HTTPService {
	return &HTTPService{
		steps:  steps,
		logger: zap.L().Named(loggerName),
	}
}

type httpRespWriter struct {
	http.ResponseWriter
	logger *zap.Logger
}

func newHTTPRespWriter(logger *zap.Logger, resp http.ResponseWriter) *httpRespWriter {
	return &httpRespWriter{
		ResponseWriter: resp,
		logger:         logger,
	}
}

// WriteStr writes a string to the http response write.
// If an error happens, it is logged with info priority and false is returned.
// If it succeeded true is returned.
func (rw *httpRespWriter) WriteStr(str string) (wasSuccessful bool) {
	_, err := rw.ResponseWriter.Write([]byte(str))
	if err != nil {
		rw.logger.Info("sending http response failed", zap.Error(err))
		return false
	}

	return true
}

// HandlerSteps lists the steps of the run passed as RunParam query parameter
// as plain text.
func (h *HTTPService) HandlerSteps(respWr http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(respWr, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := req.URL.Query().Get(RunParam)
	if runID == "" {
		http.Error(respWr, fmt.Sprintf("query parameter %q is missing", RunParam), http.StatusBadRequest)
		return
	}

	logger := h.logger.With(logfields.Run(runID))

	steps, err := h.steps.Steps(req.Context(), runID)
	if err != nil {
		logger.Warn(
			"retrieving steps failed",
			logfields.Event("status_steps_retrieval_failed"),
			zap.Error(err),
		)
		http.Error(respWr, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := newHTTPRespWriter(logger, respWr)
	resp.Header().Add("Content-Type", "text/plain")

	if len(steps) == 0 {
		resp.WriteStr(fmt.Sprintf("no steps recorded for run %s\n", runID))
		return
	}

	for i, step := range steps {
		line := fmt.Sprintf("#%-4d %s\t%s\n", i, step.CreatedAt.Format(time.RFC3339), step.Message)
		if step.Error != "" {
			line = fmt.Sprintf("#%-4d %s\t%s\terror: %s\n", i, step.CreatedAt.Format(time.RFC3339), step.Message, step.Error)
		}

		if !resp.WriteStr(line) {
			return
		}
	}
}
