package ports

import (
	"context"
	"io"

	"github.com/cityfix/platform/internal/core/domain"
)

// FileStorage persists uploaded file bytes.
type FileStorage interface {
	// Name identifies the backend in stored metadata ("local", "s3").
	Name() string
	Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) (path string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// UploadInput is a single file received by the media service.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
	TicketID    string
	UserID      string
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// MediaService manages uploaded files and their metadata.
type MediaService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Get(ctx context.Context, id string) (*domain.MediaFile, error)
	Delete(ctx context.Context, id string) error
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
}
