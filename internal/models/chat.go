package models

import (
	"time"

	"github.com/google/uuid"

	"medrep-hub-backend/internal/markdown"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

// ParsedResponse is the best-effort flattening of one agent invocation's
// reply. Every field has a fallback default; nothing here is guaranteed
// to be non-empty. Produced exclusively by the normalizer package.
type ParsedResponse struct {
	Answer           string   `json:"answer"`
	SourcesConsulted []string `json:"sources_consulted"`
	ComplianceStatus string   `json:"compliance_status"` // compliant|redacted|flagged|unknown, lower-cased
	DomainsAccessed  []string `json:"domains_accessed"`
	Confidence       string   `json:"confidence"` // high|medium|low, lower-cased
	Flags            []string `json:"flags"`
}

// ChatMessage is a single entry in a session's conversation. Messages are
// never mutated after creation; the session store only appends.
type ChatMessage struct {
	ID        uuid.UUID        `json:"id"`
	SessionID string           `json:"session_id"`
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Parsed    *ParsedResponse  `json:"parsed,omitempty"` // agent messages only
	Blocks    []markdown.Block `json:"blocks,omitempty"` // display blocks, agent messages only
}
