// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for uploaded
// file metadata.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Error semantics:
//   - When a file record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated; callers treat it as a
//     storage fault and do not retry.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// InsertFile appends a file metadata row with a server-generated UTC
// timestamp and returns the persisted record including the assigned id.
func InsertFile(ctx context.Context, db *gorm.DB, originalName, storedName string, sizeBytes int64, sha256Hex string) (*domain.File, error) {
	f := &domain.File{
		OriginalName: originalName,
		StoredName:   storedName,
		SizeBytes:    sizeBytes,
		SHA256:       sha256Hex,
		UploadedAt:   now(),
	}
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// ListFiles returns recent files, newest first by id, capped at limit.
// It returns an empty slice, not an error, when nothing has been uploaded.
func ListFiles(ctx context.Context, db *gorm.DB, limit int) ([]domain.File, error) {
	var out []domain.File
	err := db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetFile fetches a single file record by id. If the record does not
// exist, it returns ErrNotFound.
func GetFile(ctx context.Context, db *gorm.DB, id int64) (*domain.File, error) {
	var f domain.File
	if err := db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}
