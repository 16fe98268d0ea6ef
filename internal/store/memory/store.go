// Package memory implements the store interface with process-local maps.
// Chat history and the audit log are ephemeral by contract; everything
// here vanishes on restart.
package memory

import (
	"context"
	"sync"

	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/internal/store"
)

// Ensure MemoryStore implements the Store interface.
var _ store.Store = (*MemoryStore)(nil)

// MemoryStore keeps per-session message sequences and the global audit
// log. A single RWMutex guards both; writes are rare and tiny.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]models.ChatMessage
	audit    []models.AuditEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string][]models.ChatMessage),
	}
}

func (s *MemoryStore) AppendMessage(_ context.Context, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], msg)
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[sessionID]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) ClearSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, sessionID)
	return nil
}

func (s *MemoryStore) AppendAuditEntry(_ context.Context, entry models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

func (s *MemoryStore) ListAuditEntries(_ context.Context) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out, nil
}
