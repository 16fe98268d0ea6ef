package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/pkg/httputil"
)

// maxUploadBytes bounds the in-memory multipart parse.
const maxUploadBytes = 32 << 20

// DocumentsService defines the interface expected from the documents service.
type DocumentsService interface {
	ListDocuments(ctx context.Context, ragID string) ([]models.RAGDocument, error)
	UploadAndTrain(ctx context.Context, ragID, fileName, contentType string, file []byte) (*models.UploadResponse, error)
	DeleteDocuments(ctx context.Context, ragID string, names []string) (*models.DeleteDocumentsResponse, error)
	Crawl(ctx context.Context, ragID, targetURL string) error
}

type DocumentsHandler struct {
	docService DocumentsService
	log        logger.Logger
}

func NewDocumentsHandler(docSvc DocumentsService, log logger.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		docService: docSvc,
		log:        log,
	}
}

// HandleListDocuments handles GET /v1/knowledge-bases/{kbID}/documents
func (h *DocumentsHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kbID")

	docs, err := h.docService.ListDocuments(r.Context(), kbID)
	if err != nil {
		h.log.WithError(err).Error("list documents failed", map[string]interface{}{"kb_id": kbID})
		respondServiceError(w, err, "Failed to list documents")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}

// HandleUploadDocument handles POST /v1/knowledge-bases/{kbID}/documents.
// The body is a multipart form carrying the file under the "file" field.
func (h *DocumentsHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kbID")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form", "")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Missing 'file' form field", "")
		return
	}
	defer file.Close()

	// Read the bytes once; the fallback chain reuses them across attempts.
	payload, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read uploaded file", "")
		return
	}

	resp, err := h.docService.UploadAndTrain(r.Context(), kbID, header.Filename, header.Header.Get("Content-Type"), payload)
	if err != nil {
		h.log.WithError(err).Error("upload failed", map[string]interface{}{"kb_id": kbID, "file_name": header.Filename})
		respondServiceError(w, err, "Failed to upload and train document")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"file_name":       resp.FileName,
		"file_type":       resp.FileType,
		"parser_strategy": resp.ParserStrategy,
		"documents":       resp.Documents,
		"chunks":          resp.Chunks,
	})
}

// HandleDeleteDocuments handles DELETE /v1/knowledge-bases/{kbID}/documents
func (h *DocumentsHandler) HandleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kbID")

	var req models.DeleteDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}
	defer r.Body.Close()

	resp, err := h.docService.DeleteDocuments(r.Context(), kbID, req.Documents)
	if err != nil {
		h.log.WithError(err).Error("delete failed", map[string]interface{}{"kb_id": kbID})
		respondServiceError(w, err, "Failed to delete documents")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"deleted":        resp.Deleted,
		"resolved_retry": resp.ResolvedRetry,
	})
}

// HandleCrawlWebsite handles POST /v1/knowledge-bases/{kbID}/crawl.
// Fire and forget: success only confirms the crawl was queued upstream.
func (h *DocumentsHandler) HandleCrawlWebsite(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kbID")

	var req models.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}
	defer r.Body.Close()

	if err := h.docService.Crawl(r.Context(), kbID, req.URL); err != nil {
		h.log.WithError(err).Error("crawl failed", map[string]interface{}{"kb_id": kbID, "url": req.URL})
		respondServiceError(w, err, "Failed to queue website crawl")
		return
	}

	httputil.RespondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"queued": true,
		"url":    req.URL,
	})
}
