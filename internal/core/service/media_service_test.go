package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (s *memStorage) Name() string { return "memory" }

func (s *memStorage) Save(_ context.Context, name string, data io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.files[name] = b
	return "mem://" + name, nil
}

func (s *memStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	b, ok := s.files[name]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Delete(_ context.Context, name string) error {
	delete(s.files, name)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 4, 4), []color.Color{color.Black, color.White}), nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func TestMediaService_UploadPNG(t *testing.T) {
	store, storage := newMemStore(), newMemStorage()
	svc := NewMediaService(store, storage, 0, discardLogger)
	ctx := context.Background()

	res, err := svc.Upload(ctx, ports.UploadInput{
		Filename: "pothole.PNG",
		Data:     pngBytes(t, 3, 2),
		TicketID: hexA,
		UserID:   hexB,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(res.Filename, ".png") || res.URL != "/uploads/"+res.Filename {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, ok := storage.files[res.Filename]; !ok {
		t.Fatal("file bytes not stored")
	}

	meta, err := svc.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if meta.Filename != "pothole.PNG" || meta.MimeType != "image/png" || meta.Width != 3 || meta.Height != 2 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.TicketID != hexA || meta.UploadedBy != hexB || meta.Storage != "memory" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestMediaService_UploadGIF(t *testing.T) {
	svc := NewMediaService(newMemStore(), newMemStorage(), 0, discardLogger)
	if _, err := svc.Upload(context.Background(), ports.UploadInput{Filename: "a.gif", Data: gifBytes(t)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestMediaService_UploadRejections(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
		max      int64
		want     error
	}{
		{"extension", "notes.txt", func(t *testing.T) []byte { return []byte("hello") }, 0, domain.ErrFileTypeNotAllowed},
		{"no extension", "photo", func(t *testing.T) []byte { return pngBytes(t, 1, 1) }, 0, domain.ErrFileTypeNotAllowed},
		{"content mismatch", "photo.jpg", func(t *testing.T) []byte { return pngBytes(t, 1, 1) }, 0, domain.ErrFileTypeNotAllowed},
		{"truncated", "photo.png", func(t *testing.T) []byte { return pngBytes(t, 1, 1)[:10] }, 0, domain.ErrFileTypeNotAllowed},
		{"fake webp", "photo.webp", func(t *testing.T) []byte { return []byte("RIFF0000WAVEfmt ") }, 0, domain.ErrFileTypeNotAllowed},
		{"too large", "photo.png", func(t *testing.T) []byte { return pngBytes(t, 8, 8) }, 16, domain.ErrFileTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := newMemStorage()
			svc := NewMediaService(newMemStore(), storage, tc.max, discardLogger)

			_, err := svc.Upload(context.Background(), ports.UploadInput{Filename: tc.filename, Data: tc.data(t)})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(storage.files) != 0 {
				t.Fatal("rejected upload must not be stored")
			}
		})
	}
}

func TestMediaService_UploadInvalidReferenceRemovesFile(t *testing.T) {
	storage := newMemStorage()
	svc := NewMediaService(newMemStore(), storage, 0, discardLogger)

	_, err := svc.Upload(context.Background(), ports.UploadInput{Filename: "a.png", Data: pngBytes(t, 1, 1), TicketID: "bogus"})
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if len(storage.files) != 0 {
		t.Fatal("orphaned file left in storage")
	}
}

func TestMediaService_Delete(t *testing.T) {
	storage := newMemStorage()
	svc := NewMediaService(newMemStore(), storage, 0, discardLogger)
	ctx := context.Background()

	res, _ := svc.Upload(ctx, ports.UploadInput{Filename: "a.png", Data: pngBytes(t, 1, 1)})
	if err := svc.Delete(ctx, res.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(storage.files) != 0 {
		t.Fatal("stored bytes not removed")
	}
	if err := svc.Delete(ctx, res.ID); !errors.Is(err, domain.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestMediaService_OpenRejectsTraversal(t *testing.T) {
	svc := NewMediaService(newMemStore(), newMemStorage(), 0, discardLogger)
	for _, name := range []string{"", "../etc/passwd", "a/b.png"} {
		if _, err := svc.Open(context.Background(), name); !errors.Is(err, domain.ErrFileNotFound) {
			t.Fatalf("%q: expected ErrFileNotFound, got %v", name, err)
		}
	}
}
