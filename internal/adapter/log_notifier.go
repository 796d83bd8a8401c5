package adapter

import (
	"context"

	"learnflow/internal/domain"

	"go.uber.org/zap"
)

// LogNotifier implements domain.RateLimitNotifier by emitting the user-facing
// throttle notice as a structured log entry. The enclosing application can
// swap in a notifier that surfaces the message in its own UI.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) domain.RateLimitNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyRateLimited implements domain.RateLimitNotifier.
func (n *LogNotifier) NotifyRateLimited(_ context.Context, retryAfterSeconds int) {
	n.logger.Warn("You're sending requests too quickly. Please wait a moment.",
		zap.Int("retry_after_seconds", retryAfterSeconds),
	)
}
