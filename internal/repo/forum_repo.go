// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for forum threads
// and posts.
//
// The one compound write in the whole store lives here: CreateThread inserts
// the thread row and its opening post in a single transaction, so no reader
// can ever observe a postless thread.
//
// Thread listings carry two derived fields (post_count, last_activity) that
// are computed by a single aggregated query per call, never per-thread.
package repo

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/domain"
)

// threadRow is the scan target for thread summary queries. The aggregate
// column last_activity loses its column type through MAX(), so the SQLite
// driver hands it back as text and we parse it at this boundary. This is
// the only place raw rows become domain records.
type threadRow struct {
	ID           int64
	Title        string
	Nickname     string
	CreatedAt    time.Time
	PostCount    int64
	LastActivity sql.NullString
}

// summaryFromRow converts a scanned aggregate row into the typed projection.
func summaryFromRow(r threadRow) domain.ThreadSummary {
	s := domain.ThreadSummary{
		ID:        r.ID,
		Title:     r.Title,
		Nickname:  r.Nickname,
		CreatedAt: r.CreatedAt,
		PostCount: r.PostCount,
	}
	if r.LastActivity.Valid {
		if t, ok := parseRowTime(r.LastActivity.String); ok {
			s.LastActivity = &t
		}
	}
	return s
}

// parseRowTime parses a timestamp that came back as text from an aggregate
// expression. The driver has stored it in one of a small set of layouts.
func parseRowTime(v string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

const threadSummarySelect = `
SELECT t.id, t.title, t.nickname, t.created_at,
       (SELECT COUNT(*) FROM forum_posts p WHERE p.thread_id = t.id) AS post_count,
       (SELECT MAX(p.created_at) FROM forum_posts p WHERE p.thread_id = t.id) AS last_activity
FROM forum_threads t`

// CreateThread atomically inserts a thread row and its opening post, then
// returns the new thread id. If the post insert fails the thread insert is
// rolled back with it.
func CreateThread(ctx context.Context, db *gorm.DB, title, nickname, message string) (int64, error) {
	createdAt := now()
	var threadID int64

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t := &domain.ForumThread{
			Title:     title,
			Nickname:  nickname,
			CreatedAt: createdAt,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		p := &domain.ForumPost{
			ThreadID:  t.ID,
			Nickname:  nickname,
			Message:   message,
			CreatedAt: createdAt,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		threadID = t.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return threadID, nil
}

// InsertPost appends a reply to an existing thread and returns the persisted
// post. The forum_posts foreign key rejects unknown thread ids; callers that
// want a clean not-found signal check the thread first.
func InsertPost(ctx context.Context, db *gorm.DB, threadID int64, nickname, message string) (*domain.ForumPost, error) {
	p := &domain.ForumPost{
		ThreadID:  threadID,
		Nickname:  nickname,
		Message:   message,
		CreatedAt: now(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListThreads returns thread summaries, newest first by id, capped at limit.
// Aggregates are computed inside the one query via correlated subselects.
func ListThreads(ctx context.Context, db *gorm.DB, limit int) ([]domain.ThreadSummary, error) {
	var rows []threadRow
	err := db.WithContext(ctx).
		Raw(threadSummarySelect+" ORDER BY t.id DESC LIMIT ?", limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.ThreadSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, summaryFromRow(r))
	}
	return out, nil
}

// GetThread fetches a single thread summary by id, or ErrNotFound.
func GetThread(ctx context.Context, db *gorm.DB, id int64) (*domain.ThreadSummary, error) {
	var rows []threadRow
	err := db.WithContext(ctx).
		Raw(threadSummarySelect+" WHERE t.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	s := summaryFromRow(rows[0])
	return &s, nil
}

// ListPosts returns all posts of a thread ascending by id (chronological).
// A missing thread yields an empty slice; callers that need to distinguish
// use GetThread.
func ListPosts(ctx context.Context, db *gorm.DB, threadID int64) ([]domain.ForumPost, error) {
	var out []domain.ForumPost
	err := db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
