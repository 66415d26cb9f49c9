package judge

import (
	"net/http"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// RetryPolicy bounds the client's reaction to transient judge overload.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the judge's observed rate-limit behavior: five
// attempts with exponential backoff from 800ms, capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   800 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// Delay returns the backoff before retry number attempt (0-based counting of
// failures so far).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// retryableStatuses are the HTTP responses that signal transient overload.
var retryableStatuses = mapset.NewSet(
	http.StatusTooManyRequests,
	http.StatusServiceUnavailable,
)
