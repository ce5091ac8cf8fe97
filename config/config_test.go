package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "gonext.db", cfg.DBPath)
	assert.Equal(t, "photos", cfg.PhotosDir)
	assert.Equal(t, "disk", cfg.PhotoBackend)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:8081"}, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GONEXT_DB_PATH", ":memory:")
	t.Setenv("GONEXT_PHOTO_BACKEND", "disabled")
	t.Setenv("GONEXT_TOKEN_TTL", "30m")
	t.Setenv("GONEXT_ALLOWED_ORIGINS", "http://a.local,http://b.local")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "disabled", cfg.PhotoBackend)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.AllowedOrigins)
}

func TestLoadFromDotEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("GONEXT_PHOTOS_DIR=/data/photos\nGONEXT_HTTP_ADDR=0.0.0.0:9000\n"), 0o600))
	// godotenv не перезаписывает уже заданные переменные, t.Setenv вернет их после теста.
	t.Setenv("GONEXT_PHOTOS_DIR", "")
	os.Unsetenv("GONEXT_PHOTOS_DIR")
	t.Setenv("GONEXT_HTTP_ADDR", "")
	os.Unsetenv("GONEXT_HTTP_ADDR")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/data/photos", cfg.PhotosDir)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPAddr)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("GONEXT_TOKEN_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
