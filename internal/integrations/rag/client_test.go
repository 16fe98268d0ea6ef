package rag

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrep-hub-backend/internal/integrations"
	"medrep-hub-backend/internal/models"
)

func TestListDocuments_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/rag/kb-1/documents", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`["storage/a.pdf","storage/b.docx"]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "secret")
	paths, err := c.ListDocuments(context.Background(), "kb-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"storage/a.pdf", "storage/b.docx"}, paths)
}

func TestListDocuments_WrappedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"documents key", `{"documents":["a.pdf"]}`, []string{"a.pdf"}},
		{"data key", `{"data":["b.pdf","c.txt"]}`, []string{"b.pdf", "c.txt"}},
		{"non-string entries skipped", `["a.pdf", 7, null, "b.pdf"]`, []string{"a.pdf", "b.pdf"}},
		{"unrecognized object", `{"items":["a.pdf"]}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "", "secret")
			paths, err := c.ListDocuments(context.Background(), "kb-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestTrain_MultipartAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/train/pdf", r.URL.Path)
		assert.Equal(t, "kb-1", r.URL.Query().Get("rag_id"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "llmsherpa", r.FormValue("parser"))
		assert.Equal(t, "2000", r.FormValue("chunk_size"))
		assert.Equal(t, "200", r.FormValue("chunk_overlap"))
		assert.Equal(t, "{}", r.FormValue("extra_info"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)
		payload, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), payload)

		_, _ = w.Write([]byte(`{"documents":1,"chunks":12}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "secret")
	result, err := c.Train(context.Background(), "kb-1", models.FileTypePDF, "report.pdf", []byte("%PDF-1.4"), "llmsherpa")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Documents)
	assert.Equal(t, 12, result.Chunks)
}

func TestDeleteDocuments_ArrayBody(t *testing.T) {
	var gotBody []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/rag/kb-1/documents", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "secret")
	err := c.DeleteDocuments(context.Background(), "kb-1", []string{"storage/a.pdf", "b.docx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"storage/a.pdf", "b.docx"}, gotBody)
}

func TestCrawl_Payload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, "secret")
	err := c.Crawl(context.Background(), "kb-1", "https://example.com/docs")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"url": "https://example.com/docs", "rag_id": "kb-1"}, got)
}

func TestUpstreamErrorMirrorsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"parser crashed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "secret")
	_, err := c.ListDocuments(context.Background(), "kb-1")

	var upErr *integrations.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "rag", upErr.Service)
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
	assert.Equal(t, `{"detail":"parser crashed"}`, upErr.Body)
}

func TestMissingCredentialsShortCircuit(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "")

	_, err := c.ListDocuments(context.Background(), "kb-1")
	require.ErrorIs(t, err, integrations.ErrNotConfigured)

	err = c.DeleteDocuments(context.Background(), "kb-1", []string{"a.pdf"})
	require.ErrorIs(t, err, integrations.ErrNotConfigured)

	err = c.Crawl(context.Background(), "kb-1", "https://example.com")
	require.ErrorIs(t, err, integrations.ErrNotConfigured)

	assert.False(t, called, "no request may leave the process without a key")
}

func TestNetworkErrorIsNotUpstreamError(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", "secret")
	_, err := c.ListDocuments(context.Background(), "kb-1")
	require.Error(t, err)

	var upErr *integrations.UpstreamError
	assert.False(t, errors.As(err, &upErr))
}
