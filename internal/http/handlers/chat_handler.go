// Chat HTTP handlers.
//
// This file exposes REST endpoints for the anonymous chat room:
//   - POST /api/chat/messages   (post a message)
//   - GET  /api/chat/messages   (poll for messages after a given id)
//
// Handlers are transport-thin: they validate input, call the chat service,
// and translate results into HTTP responses. The polling contract lives in
// the service; the handler only parses ?after_id and ?limit.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanbox-dev/piratebox/internal/services"
	"github.com/lanbox-dev/piratebox/internal/utils"
)

// ChatHandlers groups the chat endpoints around the chat service.
type ChatHandlers struct {
	svc *services.ChatService
}

// NewChatHandlers constructs ChatHandlers bound to the given service.
func NewChatHandlers(svc *services.ChatService) *ChatHandlers {
	return &ChatHandlers{svc: svc}
}

// PostMessageRequest is the JSON payload for posting a chat message.
type PostMessageRequest struct {
	// Nickname optionally identifies the sender; blank becomes "Anonymous".
	Nickname string `json:"nickname"`
	// Message is the chat text. Must be non-empty after normalization.
	Message string `json:"message"`
}

// Post accepts a chat message and returns the stored row as {"message": {...}}.
//
// Responses:
//   - 201 on success, body includes the assigned id for polling
//   - 400 bad_request on invalid JSON or an empty message
//   - 500 create_failed on storage errors
func (h *ChatHandlers) Post(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	msg, err := h.svc.Post(c.Request.Context(), req.Nickname, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not store message")
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": msg})
}

// List returns messages strictly after ?after_id, oldest first, as
// {"messages": [...]}. Pollers pass the highest id they have seen; the
// response is empty when nothing new arrived.
func (h *ChatHandlers) List(c *gin.Context) {
	afterID := utils.Atoi64Default(c.Query("after_id"), 0)
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	msgs, err := h.svc.List(c.Request.Context(), afterID, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list messages")
		return
	}
	ok(c, http.StatusOK, gin.H{"messages": msgs})
}
