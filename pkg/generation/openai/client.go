// Package openai implements the generation contract against an
// OpenAI-compatible chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutrivo/practice-api/pkg/generation"
	"github.com/nutrivo/practice-api/pkg/metrics"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	cfg     Config
	http    *http.Client
	metrics *metrics.Metrics
}

func NewClient(cfg Config, m *metrics.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate performs a single chat-completion round trip. Failures surface
// unchanged; the pipeline has no retry or fallback path.
func (c *Client) Generate(ctx context.Context, req generation.Request) (string, error) {
	payload, err := req.PayloadJSON()
	if err != nil {
		return "", err
	}

	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Instructions},
			{Role: "user", Content: payload},
		},
		Temperature: 0.3,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if c.metrics != nil {
		c.metrics.GenerationLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.countCall("transport_error")
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.countCall("read_error")
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.countCall("provider_error")
		return "", fmt.Errorf("generation provider returned status %d: %s", resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.countCall("decode_error")
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}
	if parsed.Error != nil {
		c.countCall("provider_error")
		return "", fmt.Errorf("generation provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		c.countCall("empty_response")
		return "", fmt.Errorf("generation provider returned no choices")
	}

	c.countCall("success")
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) countCall(outcome string) {
	if c.metrics != nil {
		c.metrics.GenerationCalls.WithLabelValues(outcome).Inc()
	}
}
