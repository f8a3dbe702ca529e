// Package webhook receives pull request events as JSON documents from
// source control systems without a dedicated provider.
package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
	"github.com/simplesurance/csresolver/internal/provider"
	"github.com/simplesurance/csresolver/internal/resolver"
)

const loggerName = "webhook_event_provider"

const providerName = "webhook"

const maxBodySize = 1 << 20

// DeliveryIDHeader is the request header that contains an identifier of the
// delivery. When it is missing, a random ID is generated.
const DeliveryIDHeader = "X-Request-Id"

// Provider receives events in the resolver.PullRequestEvent JSON format:
//
//	{"target": {"branch": "master"}, "source": {"branch": "x-@<id>"}, "action": "merged", "mergeId": "<sha>"}
type Provider struct {
	logger    *zap.Logger
	processor provider.Processor
}

func New(processor provider.Processor) *Provider {
	return &Provider{
		processor: processor,
		logger:    zap.L().Named(loggerName),
	}
}

func (p *Provider) HTTPHandler(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(resp, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deliveryID := req.Header.Get(DeliveryIDHeader)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	logger := p.logger.With(
		logfields.EventProvider(providerName),
		logfields.DeliveryID(deliveryID),
	)

	var ev resolver.PullRequestEvent

	dec := json.NewDecoder(http.MaxBytesReader(resp, req.Body, maxBodySize))
	if err := dec.Decode(&ev); err != nil {
		logger.Info(
			"received invalid http request, parsing body failed",
			logfields.Event("webhook_event_parsing_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	ev.Provider = providerName
	ev.DeliveryID = deliveryID

	logger.Debug(
		"received event",
		logfields.Event("webhook_event_received"),
		zap.Stringer("pull_request_event", &ev),
	)

	provider.Process(resp, req, logger, p.processor, &ev)
}
