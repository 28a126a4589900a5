package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/logging"
	"github.com/geohome/geohome/internal/photostore/local"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

// fakePNG returns size bytes that sniff as a PNG.
func fakePNG(size int) []byte {
	data := make([]byte, size)
	copy(data, pngHeader)
	return data
}

func newUploadService(t *testing.T) *UploadService {
	t.Helper()
	photos, err := local.New(t.TempDir(), logging.Discard())
	require.NoError(t, err)
	return NewUploadService(photos, logging.Discard())
}

func TestUploadAccepts4MBPNG(t *testing.T) {
	svc := newUploadService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, "living-room.png", bytes.NewReader(fakePNG(4<<20)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Filename, "photo-"))
	assert.True(t, strings.HasSuffix(res.Filename, ".png"))
	assert.Equal(t, "/uploads/"+res.Filename, res.Path)

	rc, mimeType, err := svc.Open(ctx, res.Filename)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Len(t, data, 4<<20)
}

func TestUploadRejects6MBPNG(t *testing.T) {
	svc := newUploadService(t)

	_, err := svc.Upload(context.Background(), "big.png", bytes.NewReader(fakePNG(6<<20)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadRejectsText(t *testing.T) {
	svc := newUploadService(t)

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("hello"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "photo", verr.Errors[0].Field)
}

func TestUploadRejectsDisguisedContent(t *testing.T) {
	svc := newUploadService(t)

	_, err := svc.Upload(context.Background(), "photo.JPG", strings.NewReader("plain text pretending"))
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Upload(context.Background(), "empty.gif", bytes.NewReader(nil))
	assert.ErrorAs(t, err, &verr)
}

func TestUploadOpenMissing(t *testing.T) {
	svc := newUploadService(t)

	_, _, err := svc.Open(context.Background(), "photo-missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = svc.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{
			name:         "JPEG",
			data:         []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			wantMIME:     "image/jpeg",
			wantDetected: true,
		},
		{
			name:         "PNG",
			data:         []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			wantMIME:     "image/png",
			wantDetected: true,
		},
		{
			name:         "GIF",
			data:         []byte("GIF89a"),
			wantMIME:     "image/gif",
			wantDetected: true,
		},
		{
			name:         "WebP is not accepted",
			data:         append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...),
			wantDetected: false,
		},
		{
			name:         "PDF disguised as image",
			data:         []byte("%PDF-1.4 malicious content"),
			wantDetected: false,
		},
		{
			name:         "empty",
			data:         []byte{},
			wantDetected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMIME, gotDetected := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantDetected, gotDetected)
			assert.Equal(t, tt.wantMIME, gotMIME)
		})
	}
}
