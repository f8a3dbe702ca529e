// Package github receives pull request events via GitHub webhooks.
package github

import (
	"net/http"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
	"github.com/simplesurance/csresolver/internal/provider"
	"github.com/simplesurance/csresolver/internal/resolver"
)

const loggerName = "github_event_provider"

const providerName = "github"

const (
	actionMerged   = "merged"
	actionDeclined = "declined"
)

// Provider listens for github-webhook http-requests, validates and converts
// closed pull request events to resolver.PullRequestEvents and passes them to
// a Processor.
type Provider struct {
	logger        *zap.Logger
	webhookSecret []byte
	filter        *provider.Filter
	processor     provider.Processor
}

type Option func(*Provider)

// WithPayloadSecret validates the signature of received events with secret.
func WithPayloadSecret(secret string) Option {
	return func(p *Provider) {
		p.webhookSecret = []byte(secret)
	}
}

// WithFilter ignores events for that f does not match.
// The filter is applied on the JSON payload of the webhook.
func WithFilter(f *provider.Filter) Option {
	return func(p *Provider) {
		p.filter = f
	}
}

func New(processor provider.Processor, opts ...Option) *Provider {
	p := Provider{
		processor: processor,
	}

	for _, o := range opts {
		o(&p)
	}

	if p.logger == nil {
		p.logger = zap.L().Named(loggerName)
	}

	return &p
}

func (p *Provider) HTTPHandler(resp http.ResponseWriter, req *http.Request) {
	deliveryID := github.DeliveryID(req)
	hookType := github.WebHookType(req)

	logger := p.logger.With(
		logfields.EventProvider(providerName),
		logfields.DeliveryID(deliveryID),
		zap.String("github.webhook_type", hookType),
	)

	payload, err := github.ValidatePayload(req, p.webhookSecret)
	if err != nil {
		logger.Info(
			"received invalid http request, payload validation failed",
			logfields.Event("github_http_request_validation_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Debug(
		"received http request",
		logfields.Event("github_event_received"),
		zap.ByteString("http_body", payload),
	)

	event, err := github.ParseWebHook(hookType, payload)
	if err != nil {
		logger.Info(
			"received invalid http request, parsing failed",
			logfields.Event("github_event_parsing_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	prEvent, ok := event.(*github.PullRequestEvent)
	if !ok {
		logger.Debug(
			"ignoring event, event type is unsupported",
			logfields.Event("github_unsupported_event_received"),
		)
		provider.WriteOutcome(resp, resolver.OutcomeIgnored)
		return
	}

	if prEvent.GetAction() != "closed" {
		logger.Debug(
			"ignoring pull request event, pull request was not closed",
			logfields.Event("github_pull_request_event_ignored"),
			zap.String("github.action", prEvent.GetAction()),
		)
		provider.WriteOutcome(resp, resolver.OutcomeIgnored)
		return
	}

	if p.filter != nil {
		match, err := p.filter.Match(req.Context(), payload)
		if err != nil {
			logger.Error(
				"evaluating event filter failed",
				logfields.Event("github_event_filter_failed"),
				zap.Stringer("filter", p.filter),
				zap.Error(err),
			)
			http.Error(resp, err.Error(), http.StatusInternalServerError)
			return
		}

		if !match {
			logger.Debug(
				"ignoring event, filter does not match",
				logfields.Event("github_event_filtered"),
			)
			provider.WriteOutcome(resp, resolver.OutcomeIgnored)
			return
		}
	}

	provider.Process(resp, req, logger, p.processor, toPullRequestEvent(prEvent, deliveryID))
}

func toPullRequestEvent(ev *github.PullRequestEvent, deliveryID string) *resolver.PullRequestEvent {
	pr := ev.GetPullRequest()

	result := resolver.PullRequestEvent{
		Target:     resolver.BranchRef{Branch: pr.GetBase().GetRef()},
		Source:     resolver.BranchRef{Branch: pr.GetHead().GetRef()},
		Action:     actionDeclined,
		Provider:   providerName,
		DeliveryID: deliveryID,
	}

	if pr.GetMerged() {
		result.Action = actionMerged
		result.MergeID = pr.GetMergeCommitSHA()
	}

	return &result
}
