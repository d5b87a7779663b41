package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOMEFLIX_JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 6540, cfg.Server.Port)
	assert.Equal(t, "data/library.db", cfg.Database.Path)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
}

func TestLoad_FromFile(t *testing.T) {
	content := `
server:
  host: 127.0.0.1
  port: 8080
library:
  path: /srv/media
  name: Home
auth:
  jwt_secret: file-secret
  token_ttl: 24h
logging:
  level: debug
  pretty: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/srv/media", cfg.Library.Path)
	assert.Equal(t, "Home", cfg.Library.Name)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Pretty)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("HOMEFLIX_JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOMEFLIX_JWT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 6540, cfg.Server.Port)
}
