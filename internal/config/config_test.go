package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.True(t, cfg.Auth.DemoEnabled)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, 5000, cfg.Relay.Port)
	assert.Equal(t, "http://localhost:8085/callback", cfg.Relay.AppCallbackURL)
	assert.Equal(t, "http://localhost:5000/callback", cfg.OAuth.RedirectURL)
	assert.Equal(t, []string{"openid", "email", "profile"}, cfg.OAuth.Scopes)
	assert.Empty(t, cfg.OAuth.ClientSecret)
	assert.Empty(t, cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OREMUS_SERVER_PORT", "9090")
	t.Setenv("OREMUS_OAUTH_CLIENT_ID", "client-from-env")
	t.Setenv("OREMUS_AUTH_DEMO_ENABLED", "false")
	t.Setenv("OREMUS_STORAGE_DRIVER", "memory")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "client-from-env", cfg.OAuth.ClientID)
	assert.False(t, cfg.Auth.DemoEnabled)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oremus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
relay:
  app_callback_url: http://127.0.0.1:9999/callback
client:
  server_url: http://api.example.com
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:9999/callback", cfg.Relay.AppCallbackURL)
	assert.Equal(t, "http://api.example.com", cfg.Client.ServerURL)
	assert.Equal(t, 5000, cfg.Relay.Port, "unset keys keep defaults")
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
