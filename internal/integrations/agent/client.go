// Package agent is the client for the upstream agent invocation service.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"medrep-hub-backend/internal/integrations"
	"medrep-hub-backend/internal/metrics"
)

const apiKeyHeader = "X-API-Key"

// Client talks to the agent invocation service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an agent service client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Invoke sends a free-text query to the named agent and returns the raw
// JSON envelope. The envelope's shape is not stable across agent routing
// paths; callers must run it through the normalizer rather than decode it
// into a fixed struct.
func (c *Client) Invoke(ctx context.Context, query, agentID, sessionID string) (json.RawMessage, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, integrations.ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"query":      query,
		"agent_id":   agentID,
		"session_id": sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invocation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/agents/invoke", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("agent", "network_error").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("agent", "network_error").Inc()
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues("agent", "upstream_error").Inc()
		return nil, &integrations.UpstreamError{
			Service:    "agent",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	metrics.UpstreamRequests.WithLabelValues("agent", "success").Inc()
	return body, nil
}
