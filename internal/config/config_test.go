// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers YAML parsing, env var expansion, and required-field checks

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/gateway.db"
crm:
  api_key: "sk-test"
  webhook_url: "https://crm.example.com/hook"
fallback:
  min_score: 85
router:
  lead_capture_surfaces_failure: true
logging:
  level: "debug"
  format: "json"
metrics:
  enabled: true
  path: "/metrics"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/gateway.db", cfg.Database.Path)
	assert.Equal(t, "sk-test", cfg.CRM.APIKey)
	assert.Equal(t, "https://crm.example.com/hook", cfg.CRM.WebhookURL)
	assert.Equal(t, 85, cfg.Fallback.MinScore)
	assert.True(t, cfg.Router.LeadCaptureSurfacesFailure)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("CRM_API_KEY", "sk-from-env")

	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/gateway.db"
crm:
  api_key: "${CRM_API_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.CRM.APIKey)
}

func TestLoad_UnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/gateway.db"
crm:
  api_key: "${DEFINITELY_NOT_SET_ANYWHERE}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.CRM.APIKey)
}

func TestLoad_MissingHTTPAddr(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/gateway.db"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.http_addr")
}

func TestLoad_MissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.path")
}

func TestLoad_InvalidMinScore(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/gateway.db"
fallback:
  min_score: 150
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_score")
}

func TestLoad_MetricsPathDefault(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/gateway.db"
metrics:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/gateway.yaml")
	assert.Error(t, err)
}
