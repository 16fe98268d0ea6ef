package models

import "github.com/google/uuid"

// --- Request Structs ---

// SendMessageRequest defines the body for posting a query into a session.
type SendMessageRequest struct {
	Query   string `json:"query"`
	AgentID string `json:"agent_id,omitempty"` // optional override of the configured default agent
}

// DeleteDocumentsRequest defines the body for deleting documents from a
// knowledge base. Entries may be bare file names or full storage paths.
type DeleteDocumentsRequest struct {
	Documents []string `json:"documents"`
}

// CrawlRequest defines the body for queueing a website crawl into a
// knowledge base.
type CrawlRequest struct {
	URL string `json:"url"`
}

// --- Response Structs ---

// SessionResponse is returned when a new session is created.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// ExchangeResponse is returned for one completed send-message exchange.
type ExchangeResponse struct {
	UserMessage  ChatMessage `json:"user_message"`
	AgentMessage ChatMessage `json:"agent_message"`
	AuditEntryID uuid.UUID   `json:"audit_entry_id"`
}

// UploadResponse reports a successful upload-and-train operation.
type UploadResponse struct {
	FileName       string   `json:"file_name"`
	FileType       FileType `json:"file_type"`
	ParserStrategy string   `json:"parser_strategy"` // the strategy that finally succeeded
	Documents      int      `json:"documents"`
	Chunks         int      `json:"chunks"`
}

// DeleteDocumentsResponse reports the outcome of a delete, including
// whether the path-resolution retry was taken.
type DeleteDocumentsResponse struct {
	Deleted       []string `json:"deleted"`
	ResolvedRetry bool     `json:"resolved_retry"`
}
