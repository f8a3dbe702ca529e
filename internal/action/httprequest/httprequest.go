// Package httprequest provides an action that sends a HTTP request.
package httprequest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/cserr"
	"github.com/simplesurance/csresolver/internal/logfields"
)

const DefaultHTTPClientTimeout = time.Minute

// Runner executes a http request.
type Runner struct {
	*Config
	client *http.Client
}

// NewRunner returns a new Runner struct.
// The HTTPClient of the runner uses a timeout of DefaultHTTPClientTimeout.
func NewRunner(cfg *Config) *Runner {
	return &Runner{
		Config: cfg,
		client: &http.Client{
			Timeout: DefaultHTTPClientTimeout,
		},
	}
}

// Run sends the http request.
// Transport errors and responses with a 5xx, 408 or 429 status code are
// returned as cserr.RetryableError. Other non-2xx responses are returned as
// StatusError.
func (h *Runner) Run(ctx context.Context) error {
	logger := h.logger.With(h.LogFields()...)

	var body io.Reader
	if len(h.data) > 0 {
		body = bytes.NewReader(h.data)
	}

	req, err := http.NewRequestWithContext(ctx, h.method, h.url, body)
	if err != nil {
		return err
	}

	if h.user != "" || h.password != "" {
		req.SetBasicAuth(h.user, h.password)
	}

	for k, v := range h.headers {
		req.Header.Add(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return cserr.NewRetryableAnytimeError(err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn(
			"reading http response body failed",
			logfields.Event("http_request_reading_response_body_failed"),
			zap.Int("http_response_code", resp.StatusCode),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &StatusError{
			Method:     h.method,
			URL:        h.url,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}

		if isRetryableStatus(resp.StatusCode) {
			return cserr.NewRetryableAnytimeError(reqErr)
		}

		return reqErr
	}

	logger.Debug(
		fmt.Sprintf("http response: %s", string(respBody)),
		logfields.Event("http_request_sent"),
	)

	return nil
}

func isRetryableStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

// LogFields returns fields that should be used when logging messages related
// to the action.
func (h *Runner) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("action", "httprequest"),
		zap.String("http_url", h.url),
		zap.String("http_method", h.method),
	}
}
