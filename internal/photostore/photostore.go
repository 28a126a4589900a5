// Package photostore holds uploaded inspection photos. Keys are flat names
// of the form "<prefix>-<uuid><ext>".
package photostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("photo not found")
	ErrInvalidKey = errors.New("invalid photo key")
)

type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.(jpg|png|gif)$`)

// NewKey builds a fresh storage key for an image of mimeType.
func NewKey(prefix, mimeType string) string {
	return fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ExtForMIME(mimeType))
}

// ValidKey rejects anything that is not a key produced by NewKey, including
// path separators and traversal.
func ValidKey(key string) error {
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

func ExtForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func MIMEForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
