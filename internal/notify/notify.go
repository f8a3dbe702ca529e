// Package notify provides notifiers that inform humans about change sets that
// need attention.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "notifier"

// LogNotifier writes notifications to the log.
// It is used when no chat integration is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: zap.L().Named(loggerName)}
}

func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.logger.Info(
		text,
		logfields.Event("notification_logged"),
	)

	return nil
}
