// Package domain defines the persistence models for uploaded files, chat
// messages, and forum threads/posts. These types are mapped with GORM and
// form the core data layer of the appliance. All records are append-only:
// they are created once and never updated, and no delete operation is
// exposed anywhere in the application.
package domain

import "time"

// File is the metadata record for one uploaded blob sitting on disk.
//
// Fields:
//   - ID: monotonic integer primary key (SQLite AUTOINCREMENT, never reused).
//   - OriginalName: user-supplied filename, display metadata only. It is
//     never used to address the filesystem.
//   - StoredName: server-generated opaque token that is the sole on-disk
//     filename under the blob directory. Unique by construction and by index.
//   - SizeBytes: total streamed size.
//   - SHA256: hex digest computed while streaming.
//   - UploadedAt: server-side UTC timestamp, second precision.
type File struct {
	ID           int64     `json:"id"            gorm:"primaryKey;autoIncrement"`
	OriginalName string    `json:"original_name" gorm:"type:text;not null"`
	StoredName   string    `json:"stored_name"   gorm:"type:varchar(64);not null;uniqueIndex"`
	SizeBytes    int64     `json:"size_bytes"    gorm:"not null"`
	SHA256       string    `json:"sha256"        gorm:"type:char(64);not null"`
	UploadedAt   time.Time `json:"uploaded_at"   gorm:"not null"`
}

// TableName returns the database table name for File.
func (File) TableName() string { return "files" }

// ChatMessage is a single chat line with a timestamp and no accountability.
// The id sequence is the ordering contract: ascending id means newer, which
// is what pollers rely on when they ask for messages after their last seen id.
type ChatMessage struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	Nickname  string    `json:"nickname"   gorm:"type:varchar(64);not null"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// ForumThread is the stored thread row. Post count and last activity are
// read-time aggregates and live on ThreadSummary, not here.
type ForumThread struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	Nickname  string    `json:"nickname"   gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName returns the database table name for ForumThread.
func (ForumThread) TableName() string { return "forum_threads" }

// ForumPost is one post inside a thread. Every thread owns at least one
// post (the opening post, created in the same transaction as the thread).
//
// The Thread association carries the cascade rule: should thread deletion
// ever be exposed, the posts go with it.
type ForumPost struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	ThreadID  int64     `json:"thread_id"  gorm:"not null;index"`
	Nickname  string    `json:"nickname"   gorm:"type:varchar(64);not null"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`

	Thread ForumThread `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ForumPost.
func (ForumPost) TableName() string { return "forum_posts" }

// ThreadSummary is the read-side projection of a thread: the stored row
// plus aggregates computed over its posts. It is never persisted.
//
// LastActivity is the CreatedAt of the newest post. It is nil only for a
// thread with zero posts, which the atomic create rules out.
type ThreadSummary struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Nickname     string     `json:"nickname"`
	CreatedAt    time.Time  `json:"created_at"`
	PostCount    int64      `json:"post_count"`
	LastActivity *time.Time `json:"last_activity"`
}
