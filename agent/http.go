// Package agent collects answers from the system under test. The HTTP
// agent speaks the OpenAI-style chat-completions protocol used by hosted
// answer APIs such as Perplexity.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tokenbench/tokeneval/api"
)

const defaultSystemPrompt = "You are a financial data analyst. Answer questions about cryptocurrency price data accurately and concisely. Provide specific numbers and percentages when asked."

const defaultTimeout = 60 * time.Second

// HTTPAgent asks questions over a chat-completions endpoint.
type HTTPAgent struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	client       *http.Client
}

// HTTPOptions configures HTTPAgent creation
type HTTPOptions struct {
	systemPrompt string
	client       *http.Client
	timeout      time.Duration
}

// WithSystemPrompt overrides the default analyst system prompt
func WithSystemPrompt(prompt string) func(*HTTPOptions) {
	return func(opts *HTTPOptions) {
		opts.systemPrompt = prompt
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(client *http.Client) func(*HTTPOptions) {
	return func(opts *HTTPOptions) {
		opts.client = client
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) func(*HTTPOptions) {
	return func(opts *HTTPOptions) {
		opts.timeout = timeout
	}
}

// NewHTTP creates an agent for a chat-completions endpoint.
// endpoint: full URL, e.g. "https://api.perplexity.ai/chat/completions"
// model: the model to request, e.g. "sonar-reasoning"
func NewHTTP(endpoint, model, apiKey string, opts ...func(*HTTPOptions)) *HTTPAgent {
	options := &HTTPOptions{
		systemPrompt: defaultSystemPrompt,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	client := options.client
	if client == nil {
		client = &http.Client{Timeout: options.timeout}
	}
	return &HTTPAgent{
		endpoint:     endpoint,
		model:        model,
		apiKey:       apiKey,
		systemPrompt: options.systemPrompt,
		client:       client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Ask implements Agent.Ask with a single chat-completions round-trip.
func (a *HTTPAgent) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: a.systemPrompt},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, payload)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return decoded.Choices[0].Message.Content, nil
}

// Verify that HTTPAgent implements Agent
var _ api.Agent = (*HTTPAgent)(nil)
