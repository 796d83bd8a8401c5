package domain

import "context"

// RateLimitNotifier receives the user-facing notice when the worker responds
// with a 429. Implementations must not block the calling request.
type RateLimitNotifier interface {
	NotifyRateLimited(ctx context.Context, retryAfterSeconds int)
}
