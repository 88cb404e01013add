package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

type MediaHandler struct {
	media    ports.MediaService
	maxBytes int64
}

// NewMediaHandler serves uploads of at most maxBytes. Larger bodies are cut
// one byte past the limit so the service can reject them.
func NewMediaHandler(media ports.MediaService, maxBytes int64) *MediaHandler {
	return &MediaHandler{media: media, maxBytes: maxBytes}
}

// Upload stores a single image.
//
// @Summary      Upload an image
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Image (jpg, jpeg, png, gif, webp)"
// @Param        ticket_id  query     string  false  "Ticket ID"
// @Param        user_id    query     string  false  "Uploader ID"
// @Success      201        {object}  ports.UploadResult
// @Failure      400        {object}  api.ErrorResponse
// @Router       /api/v1/media/upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > h.maxBytes {
		return domain.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return err
	}

	res, err := h.media.Upload(c.Request().Context(), ports.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
		TicketID:    c.QueryParam("ticket_id"),
		UserID:      c.QueryParam("user_id"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, res)
}

// GetFile returns the metadata of an uploaded file.
//
// @Summary      File metadata
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  domain.MediaFile
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/media/files/{id} [get]
func (h *MediaHandler) GetFile(c echo.Context) error {
	file, err := h.media.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

// DeleteFile removes an uploaded file and its metadata.
//
// @Summary      Delete file
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/media/files/{id} [delete]
func (h *MediaHandler) DeleteFile(c echo.Context) error {
	if err := h.media.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "File deleted successfully"})
}

// Serve streams stored bytes for /uploads/<name>.
//
// @Summary      Download file
// @Tags         media
// @Produce      octet-stream
// @Param        name  path  string  true  "Stored file name"
// @Success      200
// @Failure      404   {object}  api.ErrorResponse
// @Router       /uploads/{name} [get]
func (h *MediaHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	rc, err := h.media.Open(c.Request().Context(), name)
	if err != nil {
		return err
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
