package config

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisai/skillicons/pkg/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.Equal(t, DefaultCatalog, cfg.Catalog.Path)
	assert.Equal(t, DefaultPerLine, cfg.Render.DefaultPerLine)
	assert.Equal(t, "dark", cfg.Render.DefaultTheme)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":8080"
  read_timeout: 5s
catalog:
  path: "/srv/icons.json"
render:
  default_per_line: 10
  default_theme: light
logging:
  level: debug
  pretty: true
telemetry:
  otlp_endpoint: "localhost:4317"
  insecure: true
`)
	t.Setenv("PORT", "")
	t.Setenv("SKILLICONS_LOG_LEVEL", "warn")
	t.Setenv("SKILLICONS_CATALOG", "/data/icons.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "/data/icons.json", cfg.Catalog.Path)
	assert.Equal(t, 10, cfg.Render.DefaultPerLine)
	assert.Equal(t, "light", cfg.Render.DefaultTheme)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.Insecure)
}

func TestLoad_PortEnvWins(t *testing.T) {
	t.Setenv("PORT", "4000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.Address)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "per line too large", content: "render:\n  default_per_line: 51\n"},
		{name: "per line zero", content: "render:\n  default_per_line: 0\n"},
		{name: "unknown theme", content: "render:\n  default_theme: blue\n"},
		{name: "unknown log level", content: "logging:\n  level: loud\n"},
		{name: "empty catalog path", content: "catalog:\n  path: \"\"\n"},
		{name: "relative metrics path", content: "metrics:\n  enabled: true\n  path: metrics\n"},
		{name: "tls without cert", content: "server:\n  tls:\n    enabled: true\n"},
		{name: "tls bad version", content: "server:\n  tls:\n    min_version: \"1.1\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfigInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestTLSConfig_ServerTLSConfig(t *testing.T) {
	disabled, err := TLSConfig{}.ServerTLSConfig()
	require.NoError(t, err)
	assert.Nil(t, disabled)

	enabled, err := TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", MinVersion: "1.3"}.ServerTLSConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS13), enabled.MinVersion)
}
