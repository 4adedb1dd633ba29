package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsEnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	env := "DATABASE_URL=postgres://localhost/fairway\nJWT_SECRET=s3cret\nCOURSE_AMBIGUOUS_WORDS=Old, Championship ,New\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/fairway", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(4_900_000), cfg.ImageMaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.SettingsRefreshInterval)
	assert.Equal(t, []string{"Old", "Championship", "New"}, cfg.AmbiguousCourseWords())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9000\n"), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "x", JWTSecret: "y", ImageMaxBytes: 10, MaxUploadBytes: 5}
	assert.Error(t, cfg.Validate())

	cfg.MaxUploadBytes = 10
	assert.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")
}
