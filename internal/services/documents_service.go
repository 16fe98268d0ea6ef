package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"medrep-hub-backend/internal/integrations"
	"medrep-hub-backend/internal/integrations/rag"
	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/metrics"
	"medrep-hub-backend/internal/models"
)

// Custom errors for the documents service
var (
	ErrDocValidation       = errors.New("document request validation failed")
	ErrUnsupportedFileType = errors.New("unsupported file type (expected pdf, docx or txt)")
)

// parserStrategies is the fixed attempt order for upload training: generic
// first, then layout-aware, then raw text. Some parser backends reject
// certain file encodings, so each strategy gets one attempt, in order,
// with no delay in between.
var parserStrategies = []string{"auto", "llmsherpa", "none"}

// RAGClient defines the interface expected from the RAG service client.
type RAGClient interface {
	ListDocuments(ctx context.Context, ragID string) ([]string, error)
	Train(ctx context.Context, ragID string, fileType models.FileType, fileName string, file []byte, parser string) (*rag.TrainResult, error)
	DeleteDocuments(ctx context.Context, ragID string, names []string) error
	Crawl(ctx context.Context, ragID, targetURL string) error
}

// DocumentsService proxies document operations onto the upstream RAG
// service. It is stateless: the document listing is re-fetched on every
// call and never cached.
type DocumentsService struct {
	ragClient RAGClient
	log       logger.Logger
}

// NewDocumentsService creates a new DocumentsService.
func NewDocumentsService(ragClient RAGClient, log logger.Logger) *DocumentsService {
	return &DocumentsService{
		ragClient: ragClient,
		log:       log,
	}
}

// ListDocuments fetches and normalizes the current upstream listing.
func (s *DocumentsService) ListDocuments(ctx context.Context, ragID string) ([]models.RAGDocument, error) {
	paths, err := s.ragClient.ListDocuments(ctx, ragID)
	if err != nil {
		metrics.DocumentOperations.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]models.RAGDocument, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, models.NewRAGDocument(p))
	}
	metrics.DocumentOperations.WithLabelValues("list", "success").Inc()
	return docs, nil
}

// UploadAndTrain validates the file type, then walks the parser strategy
// chain until one upstream train attempt succeeds. The file bytes are read
// once by the caller and reused across attempts. If every strategy fails,
// the final attempt's error is surfaced.
func (s *DocumentsService) UploadAndTrain(ctx context.Context, ragID, fileName, contentType string, file []byte) (*models.UploadResponse, error) {
	if fileName == "" || len(file) == 0 {
		return nil, fmt.Errorf("%w: a non-empty file is required", ErrDocValidation)
	}

	fileType := models.FileTypeFromContentType(contentType)
	if fileType == models.FileTypeUnknown {
		fileType = models.FileTypeFromName(fileName)
	}
	if fileType == models.FileTypeUnknown {
		// No upstream call is made for an unsupported type.
		return nil, ErrUnsupportedFileType
	}

	var lastErr error
	for _, parser := range parserStrategies {
		result, err := s.ragClient.Train(ctx, ragID, fileType, fileName, file, parser)
		if err == nil {
			metrics.ParserFallbackAttempts.WithLabelValues(parser, "success").Inc()
			metrics.DocumentOperations.WithLabelValues("upload", "success").Inc()
			s.log.Info("document trained", map[string]interface{}{
				"rag_id":    ragID,
				"file_name": fileName,
				"parser":    parser,
				"documents": result.Documents,
				"chunks":    result.Chunks,
			})
			return &models.UploadResponse{
				FileName:       fileName,
				FileType:       fileType,
				ParserStrategy: parser,
				Documents:      result.Documents,
				Chunks:         result.Chunks,
			}, nil
		}
		metrics.ParserFallbackAttempts.WithLabelValues(parser, "error").Inc()
		if errors.Is(err, integrations.ErrNotConfigured) {
			// Configuration errors are final, later strategies cannot help.
			return nil, err
		}
		s.log.WithError(err).Warn("train attempt failed", map[string]interface{}{
			"rag_id": ragID,
			"parser": parser,
		})
		lastErr = err
	}

	metrics.DocumentOperations.WithLabelValues("upload", "error").Inc()
	return nil, fmt.Errorf("all parser strategies failed: %w", lastErr)
}

// DeleteDocuments deletes documents by name, retrying once with resolved
// full paths when the upstream rejects bare names. Names with no match in
// the listing are silently dropped from the retry batch; names that are
// already full paths pass through unchanged.
func (s *DocumentsService) DeleteDocuments(ctx context.Context, ragID string, names []string) (*models.DeleteDocumentsResponse, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: documents list cannot be empty", ErrDocValidation)
	}

	firstErr := s.ragClient.DeleteDocuments(ctx, ragID, names)
	if firstErr == nil {
		metrics.DocumentOperations.WithLabelValues("delete", "success").Inc()
		return &models.DeleteDocumentsResponse{Deleted: names, ResolvedRetry: false}, nil
	}
	if errors.Is(firstErr, integrations.ErrNotConfigured) {
		return nil, firstErr
	}

	paths, listErr := s.ragClient.ListDocuments(ctx, ragID)
	if listErr != nil {
		s.log.WithError(listErr).Warn("path resolution listing failed", map[string]interface{}{"rag_id": ragID})
		metrics.DocumentOperations.WithLabelValues("delete", "error").Inc()
		return nil, fmt.Errorf("failed to delete documents: %w", firstErr)
	}

	batch, resolved := resolvePaths(names, paths)
	if resolved == 0 {
		metrics.DocumentOperations.WithLabelValues("delete", "error").Inc()
		return nil, fmt.Errorf("failed to delete documents: %w", firstErr)
	}

	if retryErr := s.ragClient.DeleteDocuments(ctx, ragID, batch); retryErr != nil {
		metrics.DocumentOperations.WithLabelValues("delete", "error").Inc()
		return nil, fmt.Errorf("failed to delete documents after path resolution: %w", retryErr)
	}

	metrics.DocumentOperations.WithLabelValues("delete", "success").Inc()
	s.log.Info("documents deleted after path resolution", map[string]interface{}{
		"rag_id":   ragID,
		"resolved": resolved,
	})
	return &models.DeleteDocumentsResponse{Deleted: batch, ResolvedRetry: true}, nil
}

// Crawl queues a website crawl into the knowledge base.
func (s *DocumentsService) Crawl(ctx context.Context, ragID, targetURL string) error {
	parsed, err := url.Parse(targetURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: url must be a valid http(s) address", ErrDocValidation)
	}

	if err := s.ragClient.Crawl(ctx, ragID, targetURL); err != nil {
		metrics.DocumentOperations.WithLabelValues("crawl", "error").Inc()
		return fmt.Errorf("failed to queue crawl: %w", err)
	}
	metrics.DocumentOperations.WithLabelValues("crawl", "success").Inc()
	return nil
}

// resolvePaths builds the retry batch: bare names are resolved against the
// listing (exact match or suffix "/<name>"), names that already contain a
// path separator pass through as-is. Returns the batch and how many bare
// names were actually resolved.
func resolvePaths(names, listing []string) ([]string, int) {
	batch := make([]string, 0, len(names))
	resolved := 0
	for _, name := range names {
		if strings.Contains(name, "/") {
			batch = append(batch, name)
			continue
		}
		for _, p := range listing {
			if p == name || strings.HasSuffix(p, "/"+name) {
				batch = append(batch, p)
				resolved++
				break
			}
		}
		// Bare names with no match are dropped.
	}
	return batch, resolved
}
