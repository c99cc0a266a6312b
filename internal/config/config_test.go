package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, model.DefaultPolicy(), cfg.Policy)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
policy:
  backToBack: strict
log:
  level: debug
  pretty: false
server:
  port: 9090
  requestTimeout: 5s
  allowedOrigins: ["https://exams.example.edu"]
export:
  directory: out
`)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.Policy{BackToBack: model.Strict, QuotaOverrun: model.Lenient}, cfg.Policy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://exams.example.edu"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "out", cfg.Export.Directory)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	// Arrange
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("INVIGILATION_QUOTA_OVERRUN", "strict")
	t.Setenv("INVIGILATION_SERVER_PORT", "7070")
	t.Setenv("INVIGILATION_REQUEST_TIMEOUT", "90s")
	t.Setenv("INVIGILATION_EXPORT_DIR", "/tmp/duties")

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.Strict, cfg.Policy.QuotaOverrun)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "/tmp/duties", cfg.Export.Directory)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "policy:\n  backToBack: sometimes\nserver:\n  port: 70000\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy.backToBack")
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [port"))
	assert.Error(t, err)
}
