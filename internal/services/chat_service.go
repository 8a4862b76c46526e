// Package services – ChatService
//
// ChatService owns the lifecycle of chat messages: it normalizes inbound
// nickname/message text, rejects empty messages, and persists through the
// repo layer. Reads implement the polling contract (everything strictly
// after a client's last seen id).
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/domain"
	"github.com/lanbox-dev/piratebox/internal/repo"
)

const (
	defaultChatLimit = 200
	maxChatLimit     = 500
)

// ChatService coordinates chat message normalization and persistence.
type ChatService struct {
	DB *gorm.DB

	// Normalizer clamps.
	MaxNicknameLen int
	MaxMessageLen  int
}

// Post normalizes and persists a chat message, returning the stored row
// including its assigned id. Empty messages (after normalization) are
// rejected with ErrEmptyMessage; blank nicknames fall back to "Anonymous".
func (s *ChatService) Post(ctx context.Context, nickname, message string) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Post")
	defer span.End()

	nick := NormalizeNickname(nickname, s.MaxNicknameLen)
	msg := NormalizeText(message, s.MaxMessageLen)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	return repo.InsertChatMessage(ctx, s.DB, nick, msg)
}

// List returns messages with id strictly greater than afterID, oldest
// first. Limits outside (0, maxChatLimit] are coerced to sane values.
func (s *ChatService) List(ctx context.Context, afterID int64, limit int) ([]domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int64("chat.after_id", afterID),
			attribute.Int("chat.limit", limit),
		),
	)
	defer span.End()

	if afterID < 0 {
		afterID = 0
	}
	if limit <= 0 {
		limit = defaultChatLimit
	}
	if limit > maxChatLimit {
		limit = maxChatLimit
	}
	return repo.ListChatMessages(ctx, s.DB, afterID, limit)
}
