// Package slack sends notifications to a Slack channel via an incoming
// webhook.
package slack

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/action"
	"github.com/simplesurance/csresolver/internal/action/httprequest"
	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "slack_notifier"

// Scheduler executes actions asynchronously.
type Scheduler interface {
	Schedule(action action.Runner, logF ...zap.Field)
}

type message struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// Notifier posts messages to a Slack incoming webhook.
// Messages are delivered asynchronously and retried on temporary failures.
type Notifier struct {
	webhookURL string
	channel    string
	scheduler  Scheduler
	logger     *zap.Logger
}

// New returns a Notifier that posts to webhookURL. If channel is empty, the
// default channel of the webhook is used.
func New(webhookURL, channel string, scheduler Scheduler) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		channel:    channel,
		scheduler:  scheduler,
		logger:     zap.L().Named(loggerName),
	}
}

// Send schedules the delivery of text.
// It returns an error when the message could not be scheduled, delivery
// errors are only logged.
func (n *Notifier) Send(_ context.Context, text string) error {
	buf, err := json.Marshal(&message{Channel: n.channel, Text: text})
	if err != nil {
		return fmt.Errorf("marshalling slack message failed: %w", err)
	}

	runner := httprequest.NewRunner(httprequest.NewConfig(
		n.webhookURL,
		httprequest.WithHeader("Content-Type", "application/json"),
		httprequest.WithBody(buf),
	))

	n.scheduler.Schedule(runner, zap.String("slack.channel", n.channel))

	n.logger.Debug(
		"slack notification scheduled",
		logfields.Event("slack_notification_scheduled"),
		zap.String("slack.channel", n.channel),
	)

	return nil
}
