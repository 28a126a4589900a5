package photostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyIsValid(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif"} {
		key := NewKey("photo", mime)
		assert.NoError(t, ValidKey(key), key)
		assert.Equal(t, mime, MIMEForKey(key))
	}
}

func TestValidKeyRejects(t *testing.T) {
	for _, key := range []string{"", "../../etc/passwd", "a/b.jpg", "photo.txt", "photo.jpg/..", ".jpg"} {
		assert.ErrorIs(t, ValidKey(key), ErrInvalidKey, key)
	}
}
