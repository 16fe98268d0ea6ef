package handlers

import (
	"context"
	"net/http"

	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/pkg/httputil"
)

// AuditService defines the interface expected from the audit service.
type AuditService interface {
	List(ctx context.Context) ([]models.AuditEntry, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	LoadSampleData(ctx context.Context) (int, error)
}

type AuditHandler struct {
	auditService AuditService
	log          logger.Logger
}

func NewAuditHandler(auditSvc AuditService, log logger.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditSvc,
		log:          log,
	}
}

// HandleListAudit handles GET /v1/audit
func (h *AuditHandler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("audit list failed", nil)
		respondServiceError(w, err, "Failed to list audit entries")
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// HandleExportAudit handles GET /v1/audit/export, answering text/csv.
func (h *AuditHandler) HandleExportAudit(w http.ResponseWriter, r *http.Request) {
	data, err := h.auditService.ExportCSV(r.Context())
	if err != nil {
		h.log.WithError(err).Error("audit export failed", nil)
		respondServiceError(w, err, "Failed to export audit log")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-log.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleLoadSampleData handles POST /v1/audit/sample
func (h *AuditHandler) HandleLoadSampleData(w http.ResponseWriter, r *http.Request) {
	count, err := h.auditService.LoadSampleData(r.Context())
	if err != nil {
		h.log.WithError(err).Error("sample data load failed", nil)
		respondServiceError(w, err, "Failed to load sample data")
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, map[string]interface{}{
		"loaded": count,
	})
}
