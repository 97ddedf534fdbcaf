package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	chatsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/chat"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// Conversation resolves the conversation behind a connection.
func (h *ChatHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	connectionID := pathID(r, "connectionID")
	if connectionID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid connection id")
		return
	}

	conv, err := h.service.ForConnection(r.Context(), connectionID, identity.UserID)
	if err != nil {
		handleChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationResponse{
		ID:           conv.ID,
		ConnectionID: conv.ConnectionID,
		CreatedAt:    conv.CreatedAt,
	})
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	conversationID := pathID(r, "conversationID")
	if conversationID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid conversation id")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), conversationID, identity.UserID, req.Body)
	if err != nil {
		handleChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapMessage(msg))
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	conversationID := pathID(r, "conversationID")
	if conversationID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid conversation id")
		return
	}

	beforeID := int64(parseIntOrDefault(r.URL.Query().Get("before_id"), 0))
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	messages, err := h.service.History(r.Context(), conversationID, identity.UserID, beforeID, limit)
	if err != nil {
		handleChatError(w, err)
		return
	}

	items := make([]dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		items = append(items, mapMessage(msg))
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{Items: items})
}

func handleChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, chatsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a conversation member")
	case errors.Is(err, chatsvc.ErrNotFound):
		writeNotFound(w, "CONVERSATION_NOT_FOUND", "conversation not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process chat request")
	}
}

func mapMessage(msg pgrepo.MessageRecord) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderUserID:   msg.SenderUserID,
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	}
}

func pathID(r *http.Request, key string) int64 {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
