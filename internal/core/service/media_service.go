package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/image/webp"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// DefaultMaxUploadBytes caps a single upload at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// UploadURLPrefix is the public path stored files are served from.
const UploadURLPrefix = "/uploads/"

// allowedExtensions maps accepted file extensions to their image type.
var allowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var magicBytes = map[string][]byte{
	"image/jpeg": {0xFF, 0xD8, 0xFF},
	"image/png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"image/gif":  []byte("GIF8"),
	"image/webp": []byte("RIFF"),
}

// MediaService validates uploaded images, stores their bytes and records
// their metadata.
type MediaService struct {
	store    ports.DocumentStore
	storage  ports.FileStorage
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

func NewMediaService(store ports.DocumentStore, storage ports.FileStorage, maxBytes int64, log zerolog.Logger) *MediaService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &MediaService{
		store:    store,
		storage:  storage,
		maxBytes: maxBytes,
		log:      log,
		now:      time.Now,
	}
}

func (s *MediaService) Upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.Filename), "."))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		return nil, domain.ErrFileTypeNotAllowed
	}
	if int64(len(in.Data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	cfg, err := inspectImage(in.Data, mimeType)
	if err != nil {
		s.log.Debug().Err(err).Str("filename", in.Filename).Msg("rejected upload")
		return nil, domain.ErrFileTypeNotAllowed
	}

	stored := uuid.NewString() + "." + ext
	path, err := s.storage.Save(ctx, stored, bytes.NewReader(in.Data), int64(len(in.Data)), mimeType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := domain.Document{
		"filename":        in.Filename,
		"stored_filename": stored,
		"mime_type":       mimeType,
		"size":            int64(len(in.Data)),
		"width":           cfg.Width,
		"height":          cfg.Height,
		"ticket_id":       optionalRef(in.TicketID),
		"uploaded_by":     optionalRef(in.UserID),
		"upload_date":     s.now().UTC(),
		"storage":         s.storage.Name(),
		"path":            path,
	}

	id, err := s.store.Insert(ctx, domain.CollectionMediaFiles, doc)
	if err != nil {
		if delErr := s.storage.Delete(ctx, stored); delErr != nil {
			s.log.Warn().Err(delErr).Str("stored_filename", stored).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	s.log.Info().Str("id", id).Str("stored_filename", stored).Int("size", len(in.Data)).Msg("file uploaded")
	return &ports.UploadResult{ID: id, Filename: stored, URL: UploadURLPrefix + stored}, nil
}

func (s *MediaService) Get(ctx context.Context, id string) (*domain.MediaFile, error) {
	doc, err := s.store.FindByID(ctx, domain.CollectionMediaFiles, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return toMediaFile(doc), nil
}

// Delete removes the stored bytes, then the metadata document.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, file.StoredFilename); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	if err := s.store.DeleteByID(ctx, domain.CollectionMediaFiles, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrFileNotFound
		}
		return err
	}
	return nil
}

func (s *MediaService) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	if storedName == "" || storedName != filepath.Base(storedName) {
		return nil, domain.ErrFileNotFound
	}
	return s.storage.Open(ctx, storedName)
}

// inspectImage checks that data holds an image of mimeType and returns its
// dimensions.
func inspectImage(data []byte, mimeType string) (image.Config, error) {
	magic := magicBytes[mimeType]
	if !bytes.HasPrefix(data, magic) {
		return image.Config{}, fmt.Errorf("content does not match %s", mimeType)
	}
	if mimeType == "image/webp" && (len(data) < 12 || string(data[8:12]) != "WEBP") {
		return image.Config{}, errors.New("content does not match image/webp")
	}

	r := bytes.NewReader(data)
	switch mimeType {
	case "image/jpeg":
		return jpeg.DecodeConfig(r)
	case "image/png":
		return png.DecodeConfig(r)
	case "image/gif":
		return gif.DecodeConfig(r)
	case "image/webp":
		return webp.DecodeConfig(r)
	}
	return image.Config{}, fmt.Errorf("unsupported image type: %s", mimeType)
}

func optionalRef(id string) any {
	if id == "" {
		return nil
	}
	return domain.Ref(id)
}

func toMediaFile(doc domain.Document) *domain.MediaFile {
	return &domain.MediaFile{
		ID:             doc.ID(),
		Filename:       doc.String("filename"),
		StoredFilename: doc.String("stored_filename"),
		MimeType:       doc.String("mime_type"),
		Size:           toInt64(doc["size"]),
		Width:          int(toInt64(doc["width"])),
		Height:         int(toInt64(doc["height"])),
		TicketID:       doc.String("ticket_id"),
		UploadedBy:     doc.String("uploaded_by"),
		UploadDate:     doc.Time("upload_date"),
		Storage:        doc.String("storage"),
		Path:           doc.String("path"),
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
