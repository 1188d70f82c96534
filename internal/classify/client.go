package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Options configures the LLM endpoint. Constructed once at startup from
// config and never mutated.
type Options struct {
	BaseURL string // full chat-completions URL
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client issues classification calls against an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	opts  Options
	httpc *http.Client
}

// NewClient builds a Client. A zero Timeout falls back to two minutes,
// matching the per-call budget the pipeline plans around.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Client{
		opts:  opts,
		httpc: &http.Client{Timeout: opts.Timeout},
	}
}

// Complete sends one transcript for classification and returns the tagged
// outcome. Network-level failures (transport errors, timeouts, non-2xx)
// come back as OutcomeNetworkError; anything wrong with the payload
// itself (bad JSON, schema violations) as OutcomeParseError.
func (c *Client) Complete(ctx context.Context, transcript string) Outcome {
	reqBody := chatRequest{
		Model:          c.opts.Model,
		Messages:       buildMessages(transcript),
		Temperature:    0.2,
		ResponseFormat: &respFormat{Type: "json_object"},
		MaxTokens:      1000,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return parseOutcome(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, bytes.NewReader(body))
	if err != nil {
		return networkOutcome(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return networkOutcome(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkOutcome(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return networkOutcome(fmt.Errorf("API error (status %d): %s", resp.StatusCode, respBody))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return parseOutcome(fmt.Errorf("unmarshal response: %w", err))
	}
	if cr.Error != nil {
		return networkOutcome(fmt.Errorf("API error: %s", cr.Error.Message))
	}
	if len(cr.Choices) == 0 {
		return parseOutcome(fmt.Errorf("empty choices in response"))
	}

	return parseContent(cr.Choices[0].Message.Content)
}

// parseContent deserializes and validates the model's JSON payload.
func parseContent(content string) Outcome {
	content = stripFences(content)

	var f Fields
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return parseOutcome(fmt.Errorf("unmarshal classification JSON: %w", err))
	}
	if err := validate(&f); err != nil {
		return parseOutcome(err)
	}
	return okOutcome(f)
}

// stripFences removes a markdown code fence some models wrap JSON in even
// when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
