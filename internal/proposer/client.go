// Package proposer is the content-proposer boundary: structured-output
// completion against an LLM provider. The planner always requests a
// specific JSON shape and treats malformed results as hard failures.
package proposer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Client defines the interface the planner uses to call the content
// proposer. Implementations are safe for concurrent use.
type Client interface {
	// Complete sends a prompt and returns free-form text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithSystem sends a prompt with a system message.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CompleteStructured sends a prompt with a JSON schema the response
	// must conform to, and returns the raw JSON text.
	CompleteStructured(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error)

	// Model returns the model identifier in use.
	Model() string
}

// DecodeJSON parses a structured completion into v. It tolerates markdown
// code fences around the payload but nothing else: an empty or
// non-JSON result is an error, never empty output to paper over.
func DecodeJSON(raw string, v interface{}) error {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return fmt.Errorf("empty structured response")
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("malformed structured response: %w", err)
	}
	return nil
}
