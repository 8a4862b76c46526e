// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chat messages.
//
// Chat is append-only and the id sequence is the polling contract: clients
// remember the highest id they have seen and ask for everything strictly
// greater. Ids come from the SQLite AUTOINCREMENT primary key, so assignment
// is atomic under concurrent inserts and ids are never reused.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/domain"
)

// InsertChatMessage appends a chat message with a server-generated UTC
// timestamp and returns the persisted record including the assigned id.
// Nickname and message are assumed pre-normalized by the caller.
func InsertChatMessage(ctx context.Context, db *gorm.DB, nickname, message string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		Nickname:  nickname,
		Message:   message,
		CreatedAt: now(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListChatMessages returns messages with id strictly greater than afterID,
// ascending by id, capped at limit. An afterID of 0 returns from the start.
func ListChatMessages(ctx context.Context, db *gorm.DB, afterID int64, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
