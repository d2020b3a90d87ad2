package mhihvac

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// withReauth wraps a session-bound call. On a session-expiry signal it
// logs in again, stores the fresh cookie and retries the call, up to
// c.maxRetries times. Exhausting the budget converts the expiry into an
// APICallFailedError; every other error propagates untouched. The loop is
// strictly sequential.
func withReauth[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, errSessionExpired) {
			return zero, err
		}
		lastErr = err
		if attempt < c.maxRetries {
			c.logger.Debug("session expired, re-authenticating",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries),
			)
			cookie, err := c.login(ctx)
			if err != nil {
				return zero, err
			}
			c.cookie = cookie
		}
	}
	return zero, &APICallFailedError{
		Reason: fmt.Sprintf("max re-authentication attempts (%d) reached", c.maxRetries),
		cause:  lastErr,
	}
}
