package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/models"
	"medrep-hub-backend/pkg/httputil"
)

// ChatService defines the interface expected from the chat service.
type ChatService interface {
	NewSession(ctx context.Context) string
	ClearSession(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, sessionID string, req models.SendMessageRequest) (*models.ExchangeResponse, error)
}

type ChatHandlers struct {
	chatService ChatService
	log         logger.Logger
}

func NewChatHandlers(chatSvc ChatService, log logger.Logger) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatSvc,
		log:         log,
	}
}

// HandleCreateSession handles POST /v1/sessions
func (h *ChatHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.chatService.NewSession(r.Context())
	httputil.RespondSuccess(w, http.StatusCreated, map[string]interface{}{
		"session_id": sessionID,
	})
}

// HandleClearSession handles DELETE /v1/sessions/{sessionID}
func (h *ChatHandlers) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.chatService.ClearSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err, "Failed to clear session")
		return
	}
	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"cleared":    true,
	})
}

// HandleGetHistory handles GET /v1/sessions/{sessionID}/messages
func (h *ChatHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatService.History(r.Context(), sessionID)
	if err != nil {
		h.log.WithError(err).Error("history fetch failed", map[string]interface{}{"session_id": sessionID})
		respondServiceError(w, err, "Failed to fetch history")
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   messages,
	})
}

// HandleSendMessage handles POST /v1/sessions/{sessionID}/messages.
// An unreachable agent service does not fail the request: the exchange
// completes with a generic in-chat message instead.
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}
	defer r.Body.Close()

	resp, err := h.chatService.SendMessage(r.Context(), sessionID, req)
	if err != nil {
		h.log.WithError(err).Error("send message failed", map[string]interface{}{"session_id": sessionID})
		respondServiceError(w, err, "Failed to process message")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_message":   resp.UserMessage,
		"agent_message":  resp.AgentMessage,
		"audit_entry_id": resp.AuditEntryID,
	})
}
