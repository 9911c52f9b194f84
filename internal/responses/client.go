package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal Azure OpenAI Responses API client. It speaks the
// streaming surface only: every turn is requested with stream=true and
// consumed as an EventStream.
type Client struct {
	endpoint   string // base URL, e.g. https://example.openai.azure.com/openai/v1
	apiVersion string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given Azure OpenAI endpoint. No
// request timeout is set on the HTTP client: a turn streams for as long as
// the model keeps producing events, and cancellation is handled through
// the request context.
func NewClient(endpoint, apiVersion, apiKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiVersion: apiVersion,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Request describes one model turn.
type Request struct {
	Model              string           `json:"model"`
	Input              []InputItem      `json:"input,omitempty"`
	Tools              []ToolParam      `json:"tools,omitempty"`
	PreviousResponseID string           `json:"previous_response_id,omitempty"`
	Reasoning          *ReasoningParam  `json:"reasoning,omitempty"`
	Stream             bool             `json:"stream"`
}

// InputItem is one element of a turn's input: either a chat message or a
// tool result addressed to an earlier function call.
type InputItem struct {
	Type    string `json:"type,omitempty"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	CallID  string `json:"call_id,omitempty"`
	Output  string `json:"output,omitempty"`
}

// Message builds a chat message input item.
func Message(role, content string) InputItem {
	return InputItem{Role: role, Content: content}
}

// FunctionOutput builds a tool-result input item keyed by the call_id the
// model assigned to the originating function call.
func FunctionOutput(callID, output string) InputItem {
	return InputItem{Type: "function_call_output", CallID: callID, Output: output}
}

// ToolParam is one entry of the tool catalog sent with a turn.
type ToolParam struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ReasoningParam configures the model's reasoning summary output.
type ReasoningParam struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Stream opens one model turn and returns the stream of its events. The
// returned stream must be closed by the caller; cancelling ctx aborts it.
func (c *Client) Stream(ctx context.Context, req Request) (*EventStream, error) {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/responses?api-version=%s", c.endpoint, c.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("responses request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("responses request returned %d: %s", resp.StatusCode, string(detail))
	}

	return NewEventStream(ctx, resp.Body), nil
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets a hard request timeout. The service itself enforces
// none, matching the upstream contract of indefinitely stalled streams.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}
