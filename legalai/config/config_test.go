package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend.local:8000/")
	t.Setenv("CHAT_VIEW_TTL", "10m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := LoadConfig()

	assert.Equal(t, "http://backend.local:8000", cfg.BackendURL)
	assert.Equal(t, 10*time.Minute, cfg.ChatViewTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "__session", cfg.Identity.SessionCookie)
	assert.False(t, cfg.DatabaseEnabled())
}

func TestOverlayKeepsUnsetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend_url: "http://overlay:9000/"
identity:
  issuer: "https://idp.example"
db_host: "db"
db_name: "legalai"
`), 0o600))

	cfg := Config{Addr: ":1234", BackendURL: "http://before"}
	require.NoError(t, cfg.Overlay(path))

	assert.Equal(t, ":1234", cfg.Addr)
	assert.Equal(t, "http://overlay:9000", cfg.BackendURL)
	assert.Equal(t, "https://idp.example", cfg.Identity.Issuer)
	assert.True(t, cfg.DatabaseEnabled())
}
