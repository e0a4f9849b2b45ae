package gateway

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// retryConfig bounds the retry loop wrapped around every page request.
// sleep is injectable so tests can run without real delays.
type retryConfig struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	sleep          func(time.Duration)
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxAttempts:    3,
		initialBackoff: time.Second,
		maxBackoff:     30 * time.Second,
		sleep:          time.Sleep,
	}
}

// withRetry runs fn up to maxAttempts times with exponential backoff between
// attempts. The last error is returned once the attempts are exhausted.
func (g *GitHubGateway) withRetry(ctx context.Context, op string, fn func() error) error {
	backoff := g.retry.initialBackoff
	var lastErr error

	for attempt := 1; attempt <= g.retry.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < g.retry.maxAttempts {
			g.logger.WithFields(logrus.Fields{
				"op":      op,
				"attempt": attempt,
				"backoff": backoff,
			}).WithError(lastErr).Warn("query failed, retrying")
			g.retry.sleep(backoff)

			backoff *= 2
			if backoff > g.retry.maxBackoff {
				backoff = g.retry.maxBackoff
			}
		}
	}
	return lastErr
}
