package output

import (
	"encoding/json"
	"fmt"
)

// formatJSON renders the summary as indented JSON.
func formatJSON(s *Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return string(data), nil
}
