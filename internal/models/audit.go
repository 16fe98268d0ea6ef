package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one completed chat exchange. The audit log is
// append-only: entries are never mutated or deleted for the lifetime of
// the process.
type AuditEntry struct {
	ID               uuid.UUID `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Query            string    `json:"query"`
	ResponseStatus   string    `json:"response_status"` // compliance status, or "error" for failed exchanges
	DomainsAccessed  []string  `json:"domains_accessed"`
	Confidence       string    `json:"confidence"`
	SessionID        string    `json:"session_id"`
	FullResponse     string    `json:"full_response"`
	SourcesConsulted []string  `json:"sources_consulted"`
	Flags            []string  `json:"flags"`
}
