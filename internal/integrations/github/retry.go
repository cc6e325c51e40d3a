package github

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/go-github/v60/github"
)

// RetryConfig holds configuration for exponential backoff retry.
type RetryConfig struct {
	MaxRetries  int           // Maximum number of retry attempts
	BaseDelay   time.Duration // Initial delay before first retry
	MaxDelay    time.Duration // Maximum delay cap
	JitterRatio float64       // Jitter as fraction of delay, 0.0-1.0
}

// DefaultRetryConfig returns the defaults for GitHub read calls:
// 3 retries, 1s base delay, 30s max delay, 25% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		JitterRatio: 0.25,
	}
}

// isRetryableError reports whether err is a transient GitHub API error:
// primary or secondary rate limiting, 429, or a 5xx response.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
	}

	return false
}

// withRetry executes fn with exponential backoff. Non-retryable errors are
// returned immediately.
func withRetry[T any](ctx context.Context, cfg RetryConfig, operation string, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !isRetryableError(err) {
			return zero, err
		}

		if attempt == cfg.MaxRetries {
			return zero, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, err)
		}

		delay, ok := retryDelay(cfg, attempt, err)
		if !ok {
			return zero, fmt.Errorf("%s: rate limit resets too late to wait for: %w", operation, err)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%s: context cancelled during retry: %w", operation, ctx.Err())
		case <-time.After(delay):
		}
	}

	return zero, fmt.Errorf("%s: retry loop exited unexpectedly", operation)
}

// retryDelay returns how long to wait before the next attempt. Rate limit
// errors wait until GitHub's reset or retry-after time; ok is false when
// that is further away than MaxDelay.
func retryDelay(cfg RetryConfig, attempt int, err error) (delay time.Duration, ok bool) {
	var wait time.Duration

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		wait = time.Until(rateErr.Rate.Reset.Time)
	case errors.As(err, &abuseErr):
		wait = abuseErr.GetRetryAfter()
	}

	if wait > 0 {
		if cfg.MaxDelay > 0 && wait > cfg.MaxDelay {
			return 0, false
		}
		return wait, true
	}

	// base * 2^attempt, plus jitter, capped.
	delay = time.Duration(float64(cfg.BaseDelay) * math.Pow(2, float64(attempt)))
	if cfg.JitterRatio > 0 {
		delay += time.Duration(rand.Float64() * cfg.JitterRatio * float64(delay))
	}
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay, true
}
