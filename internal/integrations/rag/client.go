// Package rag is the client for the upstream RAG document service and its
// companion website-crawl endpoint. Every call carries the secret API key
// header; the key must never be reachable from a browser, which is why all
// access goes through this backend.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"medrep-hub-backend/internal/integrations"
	"medrep-hub-backend/internal/metrics"
	"medrep-hub-backend/internal/models"
)

const (
	apiKeyHeader = "X-API-Key"

	// Fixed indexing parameters sent with every train request.
	chunkSize    = "2000"
	chunkOverlap = "200"
)

// Client talks to the RAG document service.
type Client struct {
	baseURL    string
	crawlURL   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a RAG service client. No client-side timeout is set;
// the per-request context governs how long a call may run.
func NewClient(baseURL, crawlURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		crawlURL:   crawlURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// TrainResult reports what one successful train attempt indexed.
type TrainResult struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

// ListDocuments fetches the current storage paths of a knowledge base.
// The upstream answers either with a bare JSON array of path strings or an
// object wrapping the array under "documents" or "data".
func (c *Client) ListDocuments(ctx context.Context, ragID string) ([]string, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/rag/%s/documents", c.baseURL, url.PathEscape(ragID))
	body, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode document listing: %w", err)
	}
	return pathsFrom(decoded), nil
}

// Train uploads file bytes and asks the service to chunk and index them
// with the given parser strategy. One call is one attempt; the fallback
// chain across strategies lives in the documents service.
func (c *Client) Train(ctx context.Context, ragID string, fileType models.FileType, fileName string, file []byte, parser string) (*TrainResult, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, fmt.Errorf("failed to write file payload: %w", err)
	}
	for field, value := range map[string]string{
		"parser":        parser,
		"chunk_size":    chunkSize,
		"chunk_overlap": chunkOverlap,
		"extra_info":    "{}",
	} {
		if err := mw.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/train/%s?rag_id=%s", c.baseURL, url.PathEscape(string(fileType)), url.QueryEscape(ragID))
	body, err := c.do(ctx, http.MethodPost, endpoint, mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}

	var result TrainResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode train response: %w", err)
	}
	return &result, nil
}

// DeleteDocuments deletes the named documents. Entries may be bare file
// names or full storage paths; the upstream decides which it accepts.
func (c *Client) DeleteDocuments(ctx context.Context, ragID string, names []string) error {
	if err := c.configured(); err != nil {
		return err
	}

	payload, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal document names: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/rag/%s/documents", c.baseURL, url.PathEscape(ragID))
	_, err = c.do(ctx, http.MethodDelete, endpoint, "application/json", payload)
	return err
}

// Crawl queues a website crawl into the knowledge base. Fire and forget:
// a success response only confirms the crawl was queued.
func (c *Client) Crawl(ctx context.Context, ragID, targetURL string) error {
	if c.crawlURL == "" || c.apiKey == "" {
		return integrations.ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"url":    targetURL,
		"rag_id": ragID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal crawl request: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, c.crawlURL, "application/json", payload)
	return err
}

func (c *Client) configured() error {
	if c.baseURL == "" || c.apiKey == "" {
		return integrations.ErrNotConfigured
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("rag", "network_error").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("rag", "network_error").Inc()
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues("rag", "upstream_error").Inc()
		return nil, &integrations.UpstreamError{
			Service:    "rag",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	metrics.UpstreamRequests.WithLabelValues("rag", "success").Inc()
	return respBody, nil
}

// pathsFrom extracts the storage path array from either listing shape.
func pathsFrom(decoded any) []string {
	arr, ok := decoded.([]any)
	if !ok {
		if obj, isObj := decoded.(map[string]any); isObj {
			if docs, found := obj["documents"].([]any); found {
				arr = docs
			} else if data, found := obj["data"].([]any); found {
				arr = data
			}
		}
	}

	paths := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, isString := el.(string); isString {
			paths = append(paths, s)
		}
	}
	return paths
}
