package core

import (
	"math"
	"net/http"
	"time"
)

// epochThreshold is the heuristic cutoff above which a reset value is
// treated as a Unix epoch timestamp rather than a relative duration.
const epochThreshold = 1_000_000_000

// WaitTime decides how many seconds to wait before the next attempt for
// the given outcome. It is a pure function of the outcome and the clock.
// Rules are evaluated in order and the first match wins:
//
//  1. Skipped outcomes never wait.
//  2. A known positive Retry-After wins, capped at MaxWaitTime.
//  3. Known positive remaining-quota and reset values spread the
//     remaining calls evenly across the window.
//  4. 429, 503, a connection failure, or any attempt beyond the first
//     backs off exponentially on the attempt count.
//  5. With no signal at all, do not wait.
func WaitTime(o Outcome, now func() time.Time) float64 {
	if now == nil {
		now = time.Now
	}
	if o.Skip {
		return 0
	}
	if ra := o.RateLimits.RetryAfter; ra.IsKnown() && ra.N > 0 {
		if ra.N > MaxWaitTime {
			return MaxWaitTime
		}
		return float64(ra.N)
	}
	remaining := o.RateLimits.Remaining
	reset := o.RateLimits.ResetAfter
	if remaining.IsKnown() && remaining.N > 0 && reset.IsKnown() && reset.N > 0 {
		duration := float64(reset.N)
		if reset.N > epochThreshold {
			duration = float64(reset.N) - float64(now().Unix())
		}
		return duration / float64(remaining.N)
	}
	if o.StatusCode == http.StatusTooManyRequests ||
		o.StatusCode == http.StatusServiceUnavailable ||
		o.StatusCode == StatusConnError ||
		o.Attempt > 1 {
		return math.Pow(2, float64(o.Attempt-1))
	}
	return 0
}
