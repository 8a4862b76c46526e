// Package services – FileService
//
// FileService owns the upload path end to end: it streams request bytes to
// a freshly allocated blob while hashing and counting, enforces the size
// ceiling, and persists metadata only once the blob is safely on disk.
//
// The one mandatory compensating action in the whole core lives here: any
// failure while streaming (oversize, disk error, cancelled request, failed
// metadata insert) removes the partial blob before the error propagates.
// No truncated or orphaned blob is ever referenced by a file record.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lanbox-dev/piratebox/internal/domain"
	"github.com/lanbox-dev/piratebox/internal/repo"
)

// uploadChunkSize bounds per-read memory while streaming uploads.
const uploadChunkSize = 1 << 20 // 1 MiB

const (
	defaultFileLimit = 200
	maxFileLimit     = 500
)

// FileService streams uploads into the blob directory and resolves
// downloads back out of it. The blob directory must exist.
type FileService struct {
	DB             *gorm.DB
	FilesDir       string
	MaxUploadBytes int64
}

// newStoredName generates the opaque on-disk token for a blob. It is
// derived from a random UUID, never from the user-supplied filename, so a
// hostile original name can neither traverse paths nor collide.
func newStoredName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// StoreUpload streams src to a new blob, hashing and counting as it goes,
// then records the metadata. The returned record carries the assigned id.
//
// Failure contract: the partial blob is deleted before any error returns.
// Exceeding MaxUploadBytes yields ErrUploadTooLarge; a blank original name
// yields ErrInvalidFilename; context cancellation aborts the stream.
func (s *FileService) StoreUpload(ctx context.Context, src io.Reader, originalName string) (*domain.File, error) {
	tr := otel.Tracer("services/FileService")
	ctx, span := tr.Start(ctx, "StoreUpload")
	defer span.End()

	name := strings.TrimSpace(originalName)
	if name == "" {
		return nil, ErrInvalidFilename
	}

	storedName := newStoredName()
	target := filepath.Join(s.FilesDir, storedName)

	sizeBytes, digest, err := s.streamToBlob(ctx, src, target)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("upload.size_bytes", sizeBytes))

	rec, err := repo.InsertFile(ctx, s.DB, name, storedName, sizeBytes, digest)
	if err != nil {
		// Metadata insert failed: the blob would be unreachable, remove it.
		_ = os.Remove(target)
		return nil, fmt.Errorf("persist upload metadata: %w", err)
	}
	return rec, nil
}

// streamToBlob copies src into target in bounded chunks, folding every
// chunk into a running SHA-256 and byte count. On any failure the partial
// target file is removed before the error is returned.
func (s *FileService) streamToBlob(ctx context.Context, src io.Reader, target string) (sizeBytes int64, sha256Hex string, err error) {
	// O_EXCL: stored names are unique, a collision means something is wrong.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, "", fmt.Errorf("allocate blob: %w", err)
	}

	cleanup := func(cause error) (int64, string, error) {
		_ = f.Close()
		_ = os.Remove(target)
		return 0, "", cause
	}

	h := sha256.New()
	buf := make([]byte, uploadChunkSize)
	for {
		if cerr := ctx.Err(); cerr != nil {
			return cleanup(cerr)
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			sizeBytes += int64(n)
			if s.MaxUploadBytes > 0 && sizeBytes > s.MaxUploadBytes {
				return cleanup(ErrUploadTooLarge)
			}
			h.Write(buf[:n])
			if _, werr := f.Write(buf[:n]); werr != nil {
				return cleanup(fmt.Errorf("write blob: %w", werr))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return cleanup(fmt.Errorf("read upload stream: %w", rerr))
		}
	}

	if cerr := f.Close(); cerr != nil {
		_ = os.Remove(target)
		return 0, "", fmt.Errorf("finalize blob: %w", cerr)
	}
	return sizeBytes, hex.EncodeToString(h.Sum(nil)), nil
}

// Resolve looks up a file record and returns it together with the absolute
// blob path, after verifying the blob is actually on disk. A missing record
// yields ErrFileNotFound; a record whose blob vanished yields ErrBlobMissing
// (same external outcome, distinct internally so it can be logged).
func (s *FileService) Resolve(ctx context.Context, id int64) (*domain.File, string, error) {
	tr := otel.Tracer("services/FileService")
	ctx, span := tr.Start(ctx, "Resolve",
		trace.WithAttributes(attribute.Int64("file.id", id)),
	)
	defer span.End()

	rec, err := repo.GetFile(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrFileNotFound
		}
		return nil, "", err
	}

	path := filepath.Join(s.FilesDir, rec.StoredName)
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("%w: id=%d stored_name=%s", ErrBlobMissing, rec.ID, rec.StoredName)
	}
	return rec, path, nil
}

// List returns recent file records, newest first.
func (s *FileService) List(ctx context.Context, limit int) ([]domain.File, error) {
	tr := otel.Tracer("services/FileService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.Int("file.limit", limit)),
	)
	defer span.End()

	if limit <= 0 {
		limit = defaultFileLimit
	}
	if limit > maxFileLimit {
		limit = maxFileLimit
	}
	return repo.ListFiles(ctx, s.DB, limit)
}
