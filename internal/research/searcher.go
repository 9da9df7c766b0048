// Package research is the external knowledge search boundary. From the
// planner's perspective a search is a pure function from query text plus
// trip constraints to unstructured finding text.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"wayfarer/internal/logging"
)

// Searcher performs one online search and returns unstructured text.
type Searcher interface {
	Search(ctx context.Context, prompt string) (string, error)
}

// Finding pairs a finalized query with its full search result. Findings
// are append-only for the lifetime of a planning run; the short summary is
// informational and never replaces the full text downstream.
type Finding struct {
	Query   string `json:"query"`
	Result  string `json:"result"`
	Summary string `json:"summary,omitempty"`
}

// SonarClient implements Searcher against a Perplexity-style
// OpenAI-compatible online-search chat API.
type SonarClient struct {
	apiKey      string
	baseURL     string
	model       string
	httpClient  *http.Client
	mu          sync.Mutex
	lastRequest time.Time
}

// SonarConfig holds configuration for the Sonar client.
type SonarConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultSonarConfig returns sensible defaults.
func DefaultSonarConfig(apiKey string) SonarConfig {
	return SonarConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.perplexity.ai",
		Model:   "sonar",
		Timeout: 120 * time.Second,
	}
}

// NewSonarClient creates a new Sonar client with default config.
func NewSonarClient(apiKey string) *SonarClient {
	return NewSonarClientWithConfig(DefaultSonarConfig(apiKey))
}

// NewSonarClientWithConfig creates a new Sonar client with custom config.
func NewSonarClientWithConfig(config SonarConfig) *SonarClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "sonar"
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}
	return &SonarClient{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type sonarMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sonarRequest struct {
	Model       string         `json:"model"`
	Messages    []sonarMessage `json:"messages"`
	Temperature float64        `json:"temperature,omitempty"`
}

type sonarResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Search sends the research prompt and returns the result text.
func (c *SonarClient) Search(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("search API key not configured")
	}

	// Rate limiting: at least 200ms between requests.
	c.mu.Lock()
	if elapsed := time.Since(c.lastRequest); elapsed < 200*time.Millisecond {
		time.Sleep(200*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	reqBody := sonarRequest{
		Model:       c.model,
		Messages:    []sonarMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	}

	logging.Get(logging.CategoryResearch).Debug("search request: model=%s prompt_len=%d", c.model, len(prompt))

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var sr sonarResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if sr.Error != nil {
		return "", fmt.Errorf("search API error: %s", sr.Error.Message)
	}
	if len(sr.Choices) == 0 {
		return "", fmt.Errorf("no search result returned")
	}
	return sr.Choices[0].Message.Content, nil
}
