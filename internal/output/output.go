// Package output renders the run summary for external consumption.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/willf/downlow/internal/core"
)

// Format selects the summary rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format string from a flag.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", value)
	}
}

// Summary is the run-level report rendered after a batch.
type Summary struct {
	RunID     string     `json:"run_id"`
	Stats     core.Stats `json:"stats"`
	StartedAt time.Time  `json:"started_at"`
	Elapsed   float64    `json:"elapsed_seconds"`
}

// Formatter renders a Summary in a given format.
type Formatter struct {
	format Format
}

// NewFormatter builds a formatter for the format.
func NewFormatter(format Format) *Formatter {
	return &Formatter{format: format}
}

// FormatSummary renders the summary.
func (f *Formatter) FormatSummary(s *Summary) (string, error) {
	switch f.format {
	case FormatJSON:
		return formatJSON(s)
	default:
		return formatTable(s)
	}
}
