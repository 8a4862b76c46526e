// File sharing HTTP handlers.
//
// This file exposes REST endpoints for the file box:
//   - POST /api/files              (streaming multipart upload)
//   - GET  /api/files              (list, newest first)
//   - GET  /files/:id/download     (download by id, attachment disposition)
//
// Uploads are never buffered: the multipart part reader is handed straight
// to the file service, which streams it to disk in bounded chunks. Gin's
// convenience FormFile helper is deliberately avoided because it spools the
// body to a temp file first.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanbox-dev/piratebox/internal/http/middleware"
	"github.com/lanbox-dev/piratebox/internal/services"
	"github.com/lanbox-dev/piratebox/internal/utils"
)

// FileHandlers groups the file-box endpoints around the file service.
type FileHandlers struct {
	svc *services.FileService
}

// NewFileHandlers constructs FileHandlers bound to the given service.
func NewFileHandlers(svc *services.FileService) *FileHandlers {
	return &FileHandlers{svc: svc}
}

// uploadFieldName is the multipart form field carrying the file payload.
const uploadFieldName = "file"

// Upload accepts a multipart upload and streams it to storage.
//
// The first part named "file" is consumed; its filename becomes the display
// name. Responses:
//   - 201 {"file": {...}} on success
//   - 400 bad_request when the part or filename is missing
//   - 413 file_too_large when the stream exceeds the ceiling
//   - 500 upload_failed on storage errors
func (h *FileHandlers) Upload(c *gin.Context) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart/form-data body required")
		return
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			// Includes io.EOF: no "file" part was present.
			middleware.RecordUploadReject("invalid_name")
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "form field 'file' required")
			return
		}
		if part.FormName() != uploadFieldName {
			_ = part.Close()
			continue
		}

		rec, err := h.svc.StoreUpload(c.Request.Context(), part, part.FileName())
		_ = part.Close()
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUploadTooLarge):
				middleware.RecordUploadReject("too_large")
				fail(c, http.StatusRequestEntityTooLarge, ErrCodeFileTooLarge, "file exceeds the upload limit")
			case errors.Is(err, services.ErrInvalidFilename):
				middleware.RecordUploadReject("invalid_name")
				fail(c, http.StatusBadRequest, ErrCodeBadRequest, "filename required")
			default:
				middleware.RecordUploadReject("read_error")
				fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "upload failed")
			}
			return
		}

		middleware.RecordUpload(rec.SizeBytes)
		middleware.LoggerFrom(c).Info().
			Int64("file_id", rec.ID).
			Int64("size_bytes", rec.SizeBytes).
			Str("sha256", rec.SHA256).
			Msg("file stored")
		ok(c, http.StatusCreated, gin.H{"file": rec})
		return
	}
}

// List returns recent files, newest first, as {"files": [...]}.
// The optional ?limit query bounds the page size.
func (h *FileHandlers) List(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	files, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list files")
		return
	}
	ok(c, http.StatusOK, gin.H{"files": files})
}

// Download streams a stored blob as an attachment named after the original
// upload. A missing record or a record whose blob vanished both yield 404.
func (h *FileHandlers) Download(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file id must be a positive integer")
		return
	}

	rec, path, err := h.svc.Resolve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "file not found")
		case errors.Is(err, services.ErrBlobMissing):
			middleware.LoggerFrom(c).Error().
				Int64("file_id", id).
				Err(err).
				Msg("blob missing for file record")
			fail(c, http.StatusNotFound, ErrCodeNotFound, "file not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not open file")
		}
		return
	}

	middleware.RecordDownload()
	c.FileAttachment(path, rec.OriginalName)
}
