// Package services – ForumService
//
// ForumService manages threads and posts. Thread creation is the one
// compound write in the system: the thread row and its opening post are
// committed together so no reader ever sees a postless thread. Replies
// verify the target thread before inserting.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/domain"
	"github.com/lanbox-dev/piratebox/internal/repo"
)

const (
	defaultThreadLimit = 200
	maxThreadLimit     = 500
)

// ForumService coordinates forum normalization, validation, and persistence.
type ForumService struct {
	DB *gorm.DB

	// Normalizer clamps.
	MaxNicknameLen    int
	MaxMessageLen     int
	MaxThreadTitleLen int
}

// CreateThread normalizes inputs and atomically creates a thread with its
// opening post, returning the new thread id. Empty title or message after
// normalization is rejected; no partial thread is ever persisted.
func (s *ForumService) CreateThread(ctx context.Context, title, nickname, message string) (int64, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "CreateThread")
	defer span.End()

	cleanTitle := NormalizeText(title, s.MaxThreadTitleLen)
	if cleanTitle == "" {
		return 0, ErrEmptyTitle
	}
	cleanMessage := NormalizeText(message, s.MaxMessageLen)
	if cleanMessage == "" {
		return 0, ErrEmptyMessage
	}
	nick := NormalizeNickname(nickname, s.MaxNicknameLen)

	return repo.CreateThread(ctx, s.DB, cleanTitle, nick, cleanMessage)
}

// Reply appends a post to an existing thread. A missing thread yields
// ErrThreadNotFound; an empty message after normalization yields
// ErrEmptyMessage.
func (s *ForumService) Reply(ctx context.Context, threadID int64, nickname, message string) (*domain.ForumPost, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "Reply",
		trace.WithAttributes(attribute.Int64("forum.thread_id", threadID)),
	)
	defer span.End()

	if _, err := repo.GetThread(ctx, s.DB, threadID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}

	cleanMessage := NormalizeText(message, s.MaxMessageLen)
	if cleanMessage == "" {
		return nil, ErrEmptyMessage
	}
	nick := NormalizeNickname(nickname, s.MaxNicknameLen)

	return repo.InsertPost(ctx, s.DB, threadID, nick, cleanMessage)
}

// ListThreads returns thread summaries, newest first, with post counts and
// last activity computed at read time.
func (s *ForumService) ListThreads(ctx context.Context, limit int) ([]domain.ThreadSummary, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "ListThreads",
		trace.WithAttributes(attribute.Int("forum.limit", limit)),
	)
	defer span.End()

	if limit <= 0 {
		limit = defaultThreadLimit
	}
	if limit > maxThreadLimit {
		limit = maxThreadLimit
	}
	return repo.ListThreads(ctx, s.DB, limit)
}

// GetThread returns one thread summary, or ErrThreadNotFound.
func (s *ForumService) GetThread(ctx context.Context, id int64) (*domain.ThreadSummary, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "GetThread",
		trace.WithAttributes(attribute.Int64("forum.thread_id", id)),
	)
	defer span.End()

	th, err := repo.GetThread(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return th, nil
}

// ListPosts returns all posts of a thread in chronological order. The
// thread must exist; otherwise ErrThreadNotFound.
func (s *ForumService) ListPosts(ctx context.Context, threadID int64) ([]domain.ForumPost, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "ListPosts",
		trace.WithAttributes(attribute.Int64("forum.thread_id", threadID)),
	)
	defer span.End()

	if _, err := repo.GetThread(ctx, s.DB, threadID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return repo.ListPosts(ctx, s.DB, threadID)
}
