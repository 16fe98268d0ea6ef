package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/markdown"
	"medrep-hub-backend/internal/metrics"
	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/internal/normalizer"
	"medrep-hub-backend/internal/store"
)

// Custom errors for the chat service
var ErrChatValidation = errors.New("chat request validation failed")

// agentFailureMessage is shown in-chat when the agent service cannot be
// reached. Raw upstream errors are never surfaced to the user.
const agentFailureMessage = "I couldn't reach the intelligence service just now. Please try again in a moment."

// emptyAnswerMessage is shown when an invocation succeeds but no answer
// text could be extracted from the envelope.
const emptyAnswerMessage = "The intelligence service returned no answer for this query."

// AgentClient defines the interface expected from the agent service client.
type AgentClient interface {
	Invoke(ctx context.Context, query, agentID, sessionID string) (json.RawMessage, error)
}

// ChatService orchestrates one chat exchange: append the user message,
// invoke the agent, normalize the envelope, append the agent message and
// one audit entry.
type ChatService struct {
	store          store.Store
	agent          AgentClient
	defaultAgentID string
	log            logger.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, agent AgentClient, defaultAgentID string, log logger.Logger) *ChatService {
	return &ChatService{
		store:          s,
		agent:          agent,
		defaultAgentID: defaultAgentID,
		log:            log,
	}
}

// NewSession issues a fresh opaque session token. The token is a
// correlation key only; it carries no authentication meaning.
func (s *ChatService) NewSession(_ context.Context) string {
	return uuid.NewString()
}

// ClearSession discards a session's in-memory history.
func (s *ChatService) ClearSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrChatValidation)
	}
	return s.store.ClearSession(ctx, sessionID)
}

// History returns the ordered message sequence for a session. An unknown
// session yields an empty history, not an error.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrChatValidation)
	}
	return s.store.ListMessages(ctx, sessionID)
}

// SendMessage runs one complete exchange. An agent-call failure does not
// fail the exchange: it degrades to a generic in-chat message and the
// exchange is still audited with response status "error".
func (s *ChatService) SendMessage(ctx context.Context, sessionID string, req models.SendMessageRequest) (*models.ExchangeResponse, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrChatValidation)
	}
	if req.Query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrChatValidation)
	}
	agentID := req.AgentID
	if agentID == "" {
		agentID = s.defaultAgentID
	}
	if agentID == "" {
		return nil, fmt.Errorf("%w: agent_id is required when no default agent is configured", ErrChatValidation)
	}

	userMsg := models.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   req.Query,
		Timestamp: time.Now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to append user message: %w", err)
	}

	var (
		parsed  *models.ParsedResponse
		content string
	)
	raw, err := s.agent.Invoke(ctx, req.Query, agentID, sessionID)
	if err != nil {
		s.log.WithError(err).Warn("agent invocation failed", map[string]interface{}{
			"session_id": sessionID,
			"agent_id":   agentID,
		})
		metrics.ChatExchanges.WithLabelValues("error").Inc()
		content = agentFailureMessage
	} else {
		p := normalizer.NormalizeJSON(raw)
		parsed = &p
		content = p.Answer
		if content == "" {
			content = emptyAnswerMessage
		}
		metrics.ChatExchanges.WithLabelValues("success").Inc()
	}

	agentMsg := models.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleAgent,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Parsed:    parsed,
		Blocks:    markdown.Render(content),
	}
	if err := s.store.AppendMessage(ctx, agentMsg); err != nil {
		return nil, fmt.Errorf("failed to append agent message: %w", err)
	}

	entry := buildAuditEntry(sessionID, req.Query, content, parsed)
	if err := s.store.AppendAuditEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}

	return &models.ExchangeResponse{
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
		AuditEntryID: entry.ID,
	}, nil
}

// buildAuditEntry records one completed exchange. A nil parsed response
// marks a failed invocation.
func buildAuditEntry(sessionID, query, fullResponse string, parsed *models.ParsedResponse) models.AuditEntry {
	entry := models.AuditEntry{
		ID:               uuid.New(),
		Timestamp:        time.Now().UTC(),
		Query:            query,
		ResponseStatus:   "error",
		DomainsAccessed:  []string{},
		SessionID:        sessionID,
		FullResponse:     fullResponse,
		SourcesConsulted: []string{},
		Flags:            []string{},
	}
	if parsed != nil {
		entry.ResponseStatus = parsed.ComplianceStatus
		entry.DomainsAccessed = parsed.DomainsAccessed
		entry.Confidence = parsed.Confidence
		entry.SourcesConsulted = parsed.SourcesConsulted
		entry.Flags = parsed.Flags
	}
	return entry
}
