package core

// MaxWaitTime caps any server-directed wait at 2^20 seconds (about 292
// hours), guarding against malicious or malformed Retry-After values.
const MaxWaitTime = 1 << 20

// StatusConnError is the sentinel status code recorded when no HTTP
// response was received at all (timeout, refused, reset). It sits outside
// the valid HTTP status range so it can never collide with a real code.
const StatusConnError = -1

// State reports whether a rate-limit value was actually present in a
// response or is a placeholder.
type State int

const (
	StateUnknown State = iota
	StateKnown
)

// RateLimitValue is one numeric rate-limit signal together with the tag
// saying whether the server actually sent it. An unknown value always
// carries N == 0 and must never be treated as authoritative.
type RateLimitValue struct {
	N     int
	State State
}

// Known builds a value observed in a response.
func Known(n int) RateLimitValue {
	return RateLimitValue{N: n, State: StateKnown}
}

// Unknown builds the placeholder for a signal the server did not send.
func Unknown() RateLimitValue {
	return RateLimitValue{State: StateUnknown}
}

// IsKnown reports whether the value came from an actual header.
func (v RateLimitValue) IsKnown() bool {
	return v.State == StateKnown
}

// RateLimits is the snapshot of rate-limit signals taken from one HTTP
// response. It is immutable once constructed; one snapshot exists per
// observed response, or a blank one when no response exists.
type RateLimits struct {
	Remaining  RateLimitValue
	Limit      RateLimitValue
	RetryAfter RateLimitValue
	ResetAfter RateLimitValue
}

// BlankRateLimits returns the all-unknown snapshot used when no response
// was received, e.g. on a connection-level failure.
func BlankRateLimits() RateLimits {
	return RateLimits{
		Remaining:  Unknown(),
		Limit:      Unknown(),
		RetryAfter: Unknown(),
		ResetAfter: Unknown(),
	}
}

// Outcome is the result of a single download attempt. Skip and Success
// are independent classifications and are reported exactly as observed:
// an already-existing file is a skipped success, an invalid URL is a
// skipped failure.
type Outcome struct {
	URL        string     `json:"url"`
	Success    bool       `json:"success"`
	StatusCode int        `json:"status_code"`
	RateLimits RateLimits `json:"-"`
	Skip       bool       `json:"skip"`
	Attempt    int        `json:"attempt"`
}

// Stats accumulates counters for one batch run. The engine owns the only
// mutable copy for the duration of a run and returns it by value.
type Stats struct {
	Processed int `json:"processed"`
	Existing  int `json:"existing"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
