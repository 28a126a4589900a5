package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("GEOHOME_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "local", cfg.AuthProvider)
	assert.Equal(t, 30*time.Second, cfg.PDFServiceTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("PDF_SERVICE_URL", "http://pdf:8000")
	t.Setenv("PDF_SERVICE_TIMEOUT", "5s")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DSN())
	assert.Equal(t, "http://pdf:8000", cfg.PDFServiceURL)
	assert.Equal(t, 5*time.Second, cfg.PDFServiceTimeout)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geohome.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr = ":7000"
db_driver = "postgres"
db_dsn = "postgres://localhost/geohome"
photo_backend = "s3"
s3_bucket = "photos"
`), 0o600))
	t.Setenv("LISTEN_ADDR", ":7001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7001", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/geohome", cfg.DSN())
	assert.Equal(t, "photos", cfg.S3Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.Env = "production"
	cfg.DBDriver = "mysql"
	cfg.PhotoBackend = "s3"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "S3_BUCKET")

	cfg = defaults()
	cfg.AuthProvider = "supabase"
	assert.ErrorContains(t, cfg.Validate(), "SUPABASE_URL")
}

func TestIsProduction(t *testing.T) {
	cfg := defaults()
	assert.False(t, cfg.IsProduction())
	cfg.Env = "Production"
	assert.True(t, cfg.IsProduction())
}
