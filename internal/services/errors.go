// Package services defines the business logic for uploads, chat, and the
// forum. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes happens at
// the handler layer.
package services

import "errors"

var (
	// ErrEmptyMessage is returned when a chat message or forum post is
	// empty after normalization. Truncation is silent policy; emptiness
	// is the one thing that gets rejected.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrEmptyTitle is returned when a forum thread title is empty after
	// normalization.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrThreadNotFound indicates that the referenced forum thread does
	// not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrFileNotFound indicates that the requested file id has no record.
	ErrFileNotFound = errors.New("file not found")

	// ErrBlobMissing indicates a consistency fault: the metadata record
	// exists but its blob is gone from disk. Externally this is the same
	// not-found outcome as ErrFileNotFound; internally it is worth an
	// error log, never a silently fabricated file.
	ErrBlobMissing = errors.New("stored file missing on disk")

	// ErrUploadTooLarge is returned when a streamed upload exceeds the
	// configured ceiling. The partial blob is guaranteed deleted before
	// this surfaces.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")

	// ErrInvalidFilename is returned when an upload arrives without a
	// usable original filename.
	ErrInvalidFilename = errors.New("invalid filename")
)
