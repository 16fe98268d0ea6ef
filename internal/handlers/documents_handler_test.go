package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrep-hub-backend/internal/integrations"
	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/internal/services"
)

type fakeDocumentsService struct {
	docs       []models.RAGDocument
	uploadResp *models.UploadResponse
	deleteResp *models.DeleteDocumentsResponse
	err        error

	gotKBID     string
	gotFileName string
	gotPayload  []byte
	gotNames    []string
	gotURL      string
}

func (f *fakeDocumentsService) ListDocuments(_ context.Context, ragID string) ([]models.RAGDocument, error) {
	f.gotKBID = ragID
	return f.docs, f.err
}

func (f *fakeDocumentsService) UploadAndTrain(_ context.Context, ragID, fileName, _ string, file []byte) (*models.UploadResponse, error) {
	f.gotKBID = ragID
	f.gotFileName = fileName
	f.gotPayload = file
	return f.uploadResp, f.err
}

func (f *fakeDocumentsService) DeleteDocuments(_ context.Context, ragID string, names []string) (*models.DeleteDocumentsResponse, error) {
	f.gotKBID = ragID
	f.gotNames = names
	return f.deleteResp, f.err
}

func (f *fakeDocumentsService) Crawl(_ context.Context, ragID, targetURL string) error {
	f.gotKBID = ragID
	f.gotURL = targetURL
	return f.err
}

func newDocumentsRouter(svc *fakeDocumentsService) http.Handler {
	h := NewDocumentsHandler(svc, logger.NewNop())
	r := chi.NewRouter()
	r.Route("/v1/knowledge-bases/{kbID}", func(r chi.Router) {
		r.Get("/documents", h.HandleListDocuments)
		r.Post("/documents", h.HandleUploadDocument)
		r.Delete("/documents", h.HandleDeleteDocuments)
		r.Post("/crawl", h.HandleCrawlWebsite)
	})
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleListDocuments(t *testing.T) {
	svc := &fakeDocumentsService{docs: []models.RAGDocument{
		{FileName: "report.pdf", FullPath: "storage/report.pdf", FileType: models.FileTypePDF},
	}}
	router := newDocumentsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/knowledge-bases/kb-1/documents", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "kb-1", svc.gotKBID)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandleUploadDocument(t *testing.T) {
	svc := &fakeDocumentsService{uploadResp: &models.UploadResponse{
		FileName:       "report.pdf",
		FileType:       models.FileTypePDF,
		ParserStrategy: "auto",
		Documents:      1,
		Chunks:         8,
	}}
	router := newDocumentsRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/knowledge-bases/kb-1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "report.pdf", svc.gotFileName)
	assert.Equal(t, []byte("%PDF-1.4"), svc.gotPayload)

	body := decodeBody(t, rec)
	assert.Equal(t, "auto", body["parser_strategy"])
	assert.Equal(t, float64(8), body["chunks"])
}

func TestHandleUploadDocument_MissingFileField(t *testing.T) {
	router := newDocumentsRouter(&fakeDocumentsService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/knowledge-bases/kb-1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing 'file' form field", body["error"])
}

func TestHandleDeleteDocuments(t *testing.T) {
	svc := &fakeDocumentsService{deleteResp: &models.DeleteDocumentsResponse{
		Deleted:       []string{"storage/report.pdf"},
		ResolvedRetry: true,
	}}
	router := newDocumentsRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/knowledge-bases/kb-1/documents",
		strings.NewReader(`{"documents":["report.pdf"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"report.pdf"}, svc.gotNames)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["resolved_retry"])
}

func TestHandleCrawlWebsite(t *testing.T) {
	svc := &fakeDocumentsService{}
	router := newDocumentsRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/knowledge-bases/kb-1/crawl",
		strings.NewReader(`{"url":"https://example.com/docs"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "https://example.com/docs", svc.gotURL)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["queued"])
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantDetails interface{}
	}{
		{
			name:       "validation error is 400",
			err:        fmt.Errorf("%w: document list cannot be empty", services.ErrDocValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported file type is 400",
			err:        fmt.Errorf("%w: zip", services.ErrUnsupportedFileType),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing configuration is 500",
			err:        integrations.ErrNotConfigured,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:        "upstream status is mirrored with details",
			err:         &integrations.UpstreamError{Service: "rag", StatusCode: http.StatusBadGateway, Body: "parser crashed"},
			wantStatus:  http.StatusBadGateway,
			wantDetails: "parser crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newDocumentsRouter(&fakeDocumentsService{err: tt.err})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/knowledge-bases/kb-1/documents", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, body["details"])
			} else {
				assert.NotContains(t, body, "details")
			}
		})
	}
}
