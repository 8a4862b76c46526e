// Forum HTTP handlers.
//
// This file exposes REST endpoints for the message board:
//   - POST /api/forum/threads             (create thread with opening post)
//   - GET  /api/forum/threads             (list summaries, newest first)
//   - GET  /api/forum/threads/:id         (one thread summary)
//   - GET  /api/forum/threads/:id/posts   (posts, oldest first)
//   - POST /api/forum/threads/:id/posts   (reply)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanbox-dev/piratebox/internal/services"
	"github.com/lanbox-dev/piratebox/internal/utils"
)

// ForumHandlers groups the forum endpoints around the forum service.
type ForumHandlers struct {
	svc *services.ForumService
}

// NewForumHandlers constructs ForumHandlers bound to the given service.
func NewForumHandlers(svc *services.ForumService) *ForumHandlers {
	return &ForumHandlers{svc: svc}
}

// CreateThreadRequest is the JSON payload for opening a thread.
type CreateThreadRequest struct {
	// Title names the thread. Must be non-empty after normalization.
	Title string `json:"title"`
	// Nickname optionally identifies the author; blank becomes "Anonymous".
	Nickname string `json:"nickname"`
	// Message is the opening post. Must be non-empty after normalization.
	Message string `json:"message"`
}

// ReplyRequest is the JSON payload for replying to a thread.
type ReplyRequest struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
}

// CreateThread opens a new thread with its opening post and responds
// 201 {"thread_id": <id>}. Title and message are both required.
func (h *ForumHandlers) CreateThread(c *gin.Context) {
	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id, err := h.svc.CreateThread(c.Request.Context(), req.Title, req.Nickname, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyTitle):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title must not be empty")
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create thread")
		}
		return
	}
	ok(c, http.StatusCreated, gin.H{"thread_id": id})
}

// ListThreads returns thread summaries, newest first, as {"threads": [...]}.
func (h *ForumHandlers) ListThreads(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	threads, err := h.svc.ListThreads(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list threads")
		return
	}
	ok(c, http.StatusOK, gin.H{"threads": threads})
}

// GetThread returns one thread summary as {"thread": {...}}, or 404.
func (h *ForumHandlers) GetThread(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "thread id must be a positive integer")
		return
	}

	th, err := h.svc.GetThread(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrThreadNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "thread not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load thread")
		return
	}
	ok(c, http.StatusOK, gin.H{"thread": th})
}

// ListPosts returns the posts of a thread, oldest first, as {"posts": [...]}.
func (h *ForumHandlers) ListPosts(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "thread id must be a positive integer")
		return
	}

	posts, err := h.svc.ListPosts(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrThreadNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "thread not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list posts")
		return
	}
	ok(c, http.StatusOK, gin.H{"posts": posts})
}

// Reply appends a post to a thread and responds 201 {"post": {...}}.
func (h *ForumHandlers) Reply(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "thread id must be a positive integer")
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	post, err := h.svc.Reply(c.Request.Context(), id, req.Nickname, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrThreadNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "thread not found")
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not store reply")
		}
		return
	}
	ok(c, http.StatusCreated, gin.H{"post": post})
}
