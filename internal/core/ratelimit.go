package core

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Header name patterns for the four rate-limit signals. Full-string
// matches, tolerant of an optional X- vendor prefix and an optional
// hyphen between "Rate" and "Limit".
var (
	remainingPattern  = regexp.MustCompile(`(?i)^(X-|)Rate-?Limit-Remaining$`)
	limitPattern      = regexp.MustCompile(`(?i)^(X-|)Rate-?Limit-Limit$`)
	retryAfterPattern = regexp.MustCompile(`(?i)^Retry-?After$`)
	resetAfterPattern = regexp.MustCompile(`(?i)^(X-|)Rate-?Limit-Reset$`)
)

// HeaderParseError reports a rate-limit header that matched a known name
// but did not carry an integer value. Such values are surfaced to the
// caller, never silently coerced to zero, since defaulting would mask
// server misbehavior.
type HeaderParseError struct {
	Header string
	Value  string
	Err    error
}

func (e *HeaderParseError) Error() string {
	return fmt.Sprintf("rate limit header %s: unparseable value %q: %v", e.Header, e.Value, e.Err)
}

func (e *HeaderParseError) Unwrap() error {
	return e.Err
}

// matchHeader finds the first header name matching the pattern and parses
// its value. No match yields the unknown placeholder.
func matchHeader(headers http.Header, pattern *regexp.Regexp) (RateLimitValue, error) {
	for name, values := range headers {
		if !pattern.MatchString(name) || len(values) == 0 {
			continue
		}
		raw := strings.TrimSpace(values[0])
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Unknown(), &HeaderParseError{Header: name, Value: raw, Err: err}
		}
		return Known(n), nil
	}
	return Unknown(), nil
}

// ParseRateLimits extracts the rate-limit snapshot from response headers.
// Signals absent from the headers come back unknown; a matched header
// with a non-integer value is a *HeaderParseError.
func ParseRateLimits(headers http.Header) (RateLimits, error) {
	remaining, err := matchHeader(headers, remainingPattern)
	if err != nil {
		return BlankRateLimits(), err
	}
	limit, err := matchHeader(headers, limitPattern)
	if err != nil {
		return BlankRateLimits(), err
	}
	retryAfter, err := matchHeader(headers, retryAfterPattern)
	if err != nil {
		return BlankRateLimits(), err
	}
	resetAfter, err := matchHeader(headers, resetAfterPattern)
	if err != nil {
		return BlankRateLimits(), err
	}
	return RateLimits{
		Remaining:  remaining,
		Limit:      limit,
		RetryAfter: retryAfter,
		ResetAfter: resetAfter,
	}, nil
}
