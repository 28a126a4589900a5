package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/geohome/geohome/internal/photostore"
)

// Store keeps photos as files in a single directory.
type Store struct {
	basePath string
	logger   *slog.Logger
}

func New(basePath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &Store{basePath: basePath, logger: logger}, nil
}

func (s *Store) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := photostore.NewKey(prefix, mimeType)
	filePath, err := s.safeJoin(key)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			s.logger.Error("failed to close file after write error", "key", key, "error", cerr)
		}
		s.remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.remove(filePath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return key, nil
}

func (s *Store) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", photostore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, photostore.MIMEForKey(storageKey), nil
}

func (s *Store) Delete(ctx context.Context, storageKey string) error {
	filePath, err := s.safeJoin(storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return photostore.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Store) remove(filePath string) {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("failed to remove partial upload", "path", filePath, "error", err)
	}
}

// safeJoin validates the key and resolves it inside basePath.
func (s *Store) safeJoin(storageKey string) (string, error) {
	if err := photostore.ValidKey(storageKey); err != nil {
		return "", err
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.basePath, storageKey))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", photostore.ErrInvalidKey
	}
	return absPath, nil
}
