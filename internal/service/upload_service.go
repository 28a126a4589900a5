package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/photostore"
)

// MaxUploadSize caps a single photo.
const MaxUploadSize = 5 << 20

var ErrFileTooLarge = errors.New("file exceeds the 5MB limit")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// allowedImageTypes is the set of sniffed MIME types accepted for photos.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type UploadResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type UploadService struct {
	photos photostore.PhotoStore
	logger *slog.Logger
}

func NewUploadService(photos photostore.PhotoStore, logger *slog.Logger) *UploadService {
	return &UploadService{photos: photos, logger: logger}
}

// Upload checks the file name, size and content of a photo and stores it.
func (s *UploadService) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, invalidPhoto("Only .jpg, .jpeg, .png and .gif images are allowed")
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, invalidPhoto("File is empty")
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return nil, invalidPhoto("File content is not a supported image")
	}

	key, err := s.photos.Save(ctx, "photo", mimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	s.logger.Info("photo uploaded", "key", key, "mime_type", mimeType, "bytes", len(data))
	return &UploadResult{Filename: key, Path: "/uploads/" + key}, nil
}

// Open returns a stored photo and its MIME type.
func (s *UploadService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rc, mimeType, err := s.photos.Get(ctx, key)
	if errors.Is(err, photostore.ErrNotFound) || errors.Is(err, photostore.ErrInvalidKey) {
		return nil, "", domain.ErrNotFound
	}
	return rc, mimeType, err
}

// allowedImageMIME returns the sniffed MIME type and true if data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func invalidPhoto(msg string) error {
	return &domain.ValidationError{Errors: []domain.FieldError{{Field: "photo", Message: msg}}}
}
