// Package action executes asynchronous operations that are retried until they
// succeed or a timeout expires.
package action

import (
	"context"

	"go.uber.org/zap"
)

type Runner interface {
	Run(ctx context.Context) error
	String() string
	LogFields() []zap.Field
}
