package store

import (
	"context"

	"medrep-hub-backend/internal/models"
)

// Store defines the interface for session and audit state. All state is
// process-local and session-scoped; nothing is written to durable storage.
// The interface exists so services can be tested against fakes.
type Store interface {
	// Message operations. Sessions are keyed by opaque client-generated
	// tokens and come into existence on first append; listing an unknown
	// session yields an empty history.
	AppendMessage(ctx context.Context, msg models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	ClearSession(ctx context.Context, sessionID string) error

	// Audit operations. The audit log is append-only and global across
	// sessions; entries are never mutated or deleted.
	AppendAuditEntry(ctx context.Context, entry models.AuditEntry) error
	ListAuditEntries(ctx context.Context) ([]models.AuditEntry, error)
}
