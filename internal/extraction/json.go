package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SanitizeJSON extracts and parses a JSON object from raw LLM output.
// Handles empty output, markdown-fenced JSON, and prose before or after the
// object.
func SanitizeJSON(text string, out any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty LLM response")
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		// Drop a language tag like "json" on the opening fence.
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			firstLine := strings.TrimSpace(trimmed[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, "{}") {
				trimmed = trimmed[idx+1:]
			}
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object found in LLM output")
	}

	if err := json.Unmarshal([]byte(trimmed[start:end+1]), out); err != nil {
		return fmt.Errorf("failed to parse LLM output as JSON: %w", err)
	}

	return nil
}
