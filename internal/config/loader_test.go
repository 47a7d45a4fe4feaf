package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the triage config dir.
func setupTestHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "triage")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, `rules:
  path: /etc/triage/rules.toml
  watch: true
  debounce: 1s
logging:
  level: debug
  format: json
telemetry:
  enabled: true
  service_name: triage-test
  sample_rate: 0.5
metrics:
  textfile: /var/lib/node_exporter/triage.prom
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/triage/rules.toml", cfg.Rules.Path)
	assert.True(t, cfg.Rules.Watch)
	assert.Equal(t, time.Second, cfg.Rules.Debounce.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "triage-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	assert.Equal(t, "/var/lib/node_exporter/triage.prom", cfg.Metrics.Textfile)
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, DefaultServiceName, cfg.Telemetry.ServiceName)
	assert.Equal(t, DefaultWatchDebounce, cfg.Rules.Debounce.Duration())
	assert.Empty(t, cfg.Rules.Path)
}

func TestLoadWithFile_EnvOverrides(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, `rules:
  path: /etc/triage/rules.toml
logging:
  level: info
`, 0600)

	t.Setenv("TRIAGE_RULES_PATH", "/etc/triage/other.yaml")
	t.Setenv("TRIAGE_LOGGING_LEVEL", "error")
	t.Setenv("TRIAGE_TELEMETRY_SAMPLE_RATE", "0.25")
	t.Setenv("TRIAGE_METRICS_TEXTFILE", "/tmp/triage.prom")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/triage/other.yaml", cfg.Rules.Path)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 0.25, cfg.Telemetry.SampleRate)
	assert.Equal(t, "/tmp/triage.prom", cfg.Metrics.Textfile)
}

func TestLoadWithFile_InsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission model differs on windows")
	}
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "logging:\n  level: info\n", 0644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFile_ReadOnlyPermissionsAllowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission model differs on windows")
	}
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "logging:\n  level: info\n", 0400)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithFile_TooLarge(t *testing.T) {
	dir := setupTestHome(t)
	big := "# " + strings.Repeat("x", maxConfigFileSize) + "\n"
	path := writeConfig(t, dir, big, 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file too large")
}

func TestLoadWithFile_PathOutsideAllowedDirs(t *testing.T) {
	setupTestHome(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "tmp", path: filepath.Join(os.TempDir(), "config.yaml")},
		{name: "traversal", path: "/etc/triage/../passwd"},
		{name: "sibling prefix", path: "/etc/triage-evil/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithFile(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config path validation failed")
		})
	}
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "logging:\n  level: verbose\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoadWithFile_MalformedYAML(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "logging: [level\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"TRIAGE_RULES_PATH":            "rules.path",
		"TRIAGE_TELEMETRY_SAMPLE_RATE": "telemetry.sample_rate",
		"TRIAGE_TELEMETRY_ENABLED":     "telemetry.enabled",
		"TRIAGE_METRICS":               "metrics",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, envKey(in))
		})
	}
}
