// handlers_upload.go - File upload operation handlers
package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/datadash/backend/internal/models"
	"github.com/datadash/backend/internal/session"
	"github.com/datadash/backend/internal/upload"
	"github.com/labstack/echo/v4"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	sessions SessionStore
	payloads PayloadStore
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(sessions SessionStore, payloads PayloadStore) UploadHandler {
	return &UploadHandlerImpl{
		sessions: sessions,
		payloads: payloads,
	}
}

// HandleUploadFiles ingests files chosen through the file browser
// (multipart/form-data, field "files", repeatable)
func (h *UploadHandlerImpl) HandleUploadFiles(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("invalid multipart form", err)
	}

	headers := append(form.File["files"], form.File["file"]...)
	raws := make([]models.RawFile, 0, len(headers))
	for _, fh := range headers {
		raw, err := readFormFile(fh)
		if err != nil {
			return NewInternalError("failed to read uploaded file", err)
		}
		raws = append(raws, raw)
	}

	return ingest(c, s, raws)
}

// HandleDropFiles ingests files dropped onto the upload zone, sent as JSON
// with base64-encoded content
func (h *UploadHandlerImpl) HandleDropFiles(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}

	var req dropRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	raws := make([]models.RawFile, 0, len(req.Files))
	for i, f := range req.Files {
		decoded, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return NewBadRequestError(fmt.Sprintf("invalid base64 data for file %d", i), err)
		}
		size := int64(len(decoded))
		if f.SizeBytes != nil {
			size = *f.SizeBytes
		}
		raws = append(raws, models.RawFile{
			Name:      f.Name,
			MimeType:  f.MimeType,
			SizeBytes: size,
			Content:   decoded,
		})
	}

	return ingest(c, s, raws)
}

// HandleRemoveFile removes a file from the session. Unknown ids succeed.
func (h *UploadHandlerImpl) HandleRemoveFile(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}

	s.Uploads.Remove(c.Param("fileId"))
	return c.NoContent(http.StatusNoContent)
}

// HandleGetFileContent returns the stored bytes of a visible file
func (h *UploadHandlerImpl) HandleGetFileContent(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}

	id := c.Param("fileId")
	f, ok := s.Uploads.Find(id)
	if !ok {
		return NewNotFoundError("file", id)
	}

	blob, err := h.payloads.Get(f.Payload)
	if err != nil {
		return NewNotFoundError("file content", id)
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", f.Name))
	return c.Blob(http.StatusOK, contentType, blob.Content)
}

func ingest(c echo.Context, s *session.Session, raws []models.RawFile) error {
	errs := s.Uploads.Ingest(raws)

	resp := ingestResponse{
		Busy:     s.Uploads.Busy(),
		Accepted: len(raws) - len(errs),
		Rejected: make([]rejectedFile, 0, len(errs)),
	}
	for _, err := range errs {
		var invalid *upload.InvalidRawFileError
		if errors.As(err, &invalid) {
			resp.Rejected = append(resp.Rejected, rejectedFile{
				Index:  invalid.Index,
				Name:   invalid.Name,
				Reason: invalid.Reason,
			})
		}
	}

	return c.JSON(http.StatusAccepted, resp)
}

func readFormFile(fh *multipart.FileHeader) (models.RawFile, error) {
	src, err := fh.Open()
	if err != nil {
		return models.RawFile{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RawFile{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}

	return models.RawFile{
		Name:      fh.Filename,
		MimeType:  fh.Header.Get(echo.HeaderContentType),
		SizeBytes: fh.Size,
		Content:   content,
	}, nil
}

// Request/Response types

type dropRequest struct {
	Files []dropFile `json:"files"`
}

type dropFile struct {
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"` // Defaults to the decoded length
	Data      string `json:"data"`                // Base64-encoded content
}

type ingestResponse struct {
	Busy     bool           `json:"busy"`
	Accepted int            `json:"accepted"`
	Rejected []rejectedFile `json:"rejected"`
}

type rejectedFile struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
