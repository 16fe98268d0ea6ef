package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/internal/store"
)

// csvHeader is the fixed export header. Consumers key on these exact
// column names.
var csvHeader = []string{"Timestamp", "Query", "Status", "Domains", "Confidence", "Session ID"}

// AuditService exposes the append-only audit log: listing, CSV export and
// the demo sample-data loader.
type AuditService struct {
	store store.Store
	log   logger.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(s store.Store, log logger.Logger) *AuditService {
	return &AuditService{
		store: s,
		log:   log,
	}
}

// List returns every audit entry in append order.
func (s *AuditService) List(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := s.store.ListAuditEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// ExportCSV renders the full audit log as CSV text with the header row
// Timestamp,Query,Status,Domains,Confidence,Session ID.
func (s *AuditService) ExportCSV(ctx context.Context) ([]byte, error) {
	entries, err := s.store.ListAuditEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Query,
			e.ResponseStatus,
			strings.Join(e.DomainsAccessed, "; "),
			e.Confidence,
			e.SessionID,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadSampleData appends a fixed set of demo entries, mirroring the
// frontend's "sample data" toggle. Returns how many entries were added.
func (s *AuditService) LoadSampleData(ctx context.Context) (int, error) {
	samples := sampleAuditEntries()
	for _, entry := range samples {
		if err := s.store.AppendAuditEntry(ctx, entry); err != nil {
			return 0, fmt.Errorf("failed to load sample data: %w", err)
		}
	}
	s.log.Info("sample audit data loaded", map[string]interface{}{"entries": len(samples)})
	return len(samples), nil
}

func sampleAuditEntries() []models.AuditEntry {
	now := time.Now().UTC()
	sessionID := uuid.NewString()
	return []models.AuditEntry{
		{
			ID:               uuid.New(),
			Timestamp:        now.Add(-45 * time.Minute),
			Query:            "What are the contraindications for Cardiozen 50mg?",
			ResponseStatus:   "compliant",
			DomainsAccessed:  []string{"medical"},
			Confidence:       "high",
			SessionID:        sessionID,
			FullResponse:     "Cardiozen 50mg is contraindicated in patients with severe hepatic impairment and in combination with MAO inhibitors.",
			SourcesConsulted: []string{"cardiozen-smpc.pdf"},
			Flags:            []string{},
		},
		{
			ID:               uuid.New(),
			Timestamp:        now.Add(-30 * time.Minute),
			Query:            "How does our pricing compare to the main competitor?",
			ResponseStatus:   "redacted",
			DomainsAccessed:  []string{"commercial"},
			Confidence:       "medium",
			SessionID:        sessionID,
			FullResponse:     "Competitive pricing details were redacted from this response.",
			SourcesConsulted: []string{"commercial-playbook.docx"},
			Flags:            []string{"pricing_redaction"},
		},
		{
			ID:               uuid.New(),
			Timestamp:        now.Add(-10 * time.Minute),
			Query:            "Can I promote the new indication before approval?",
			ResponseStatus:   "flagged",
			DomainsAccessed:  []string{"medical", "commercial"},
			Confidence:       "high",
			SessionID:        sessionID,
			FullResponse:     "Promotion of unapproved indications is not permitted. This query was flagged for compliance review.",
			SourcesConsulted: []string{"promotional-guidelines.pdf"},
			Flags:            []string{"off_label_promotion"},
		},
	}
}
