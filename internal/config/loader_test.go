package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_SetsExpectedValues(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3040, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 64, cfg.Gateway.SendBuffer)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromFile_ParsesYAML(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 9000
  log_level: "debug"

database:
  path: "/tmp/wardlink-test.db"

gateway:
  send_buffer: 128

cors:
  allowed_origins:
    - "https://dashboard.ward.test"
`

	tmpFile := filepath.Join(t.TempDir(), "wardlink.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFromFile(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/wardlink-test.db", cfg.Database.Path)
	assert.Equal(t, 128, cfg.Gateway.SendBuffer)
	assert.Equal(t, []string{"https://dashboard.ward.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("WARDLINK_TEST_DB", "/tmp/from-env.db")

	content := `
database:
  path: "${WARDLINK_TEST_DB}"
`
	tmpFile := filepath.Join(t.TempDir(), "wardlink.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFromFile(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
}

func TestLoadFromFile_RejectsInvalidPort(t *testing.T) {
	t.Parallel()

	content := `
server:
  port: 99999
`
	tmpFile := filepath.Join(t.TempDir(), "wardlink.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	_, err := LoadFromFile(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadFromFile_RejectsSendBufferZero(t *testing.T) {
	t.Parallel()

	content := `
gateway:
  send_buffer: 0
`
	tmpFile := filepath.Join(t.TempDir(), "wardlink.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	_, err := LoadFromFile(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send_buffer")
}

func TestLoadFromFile_NonexistentFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromFile("/tmp/wardlink-nonexistent-config-file.yaml")
	require.NoError(t, err)

	assert.Equal(t, 3040, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadFromFile_PartialOverride_KeepsDefaults(t *testing.T) {
	t.Parallel()

	content := `
server:
  port: 9999
`
	tmpFile := filepath.Join(t.TempDir(), "wardlink.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFromFile(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "default host should be preserved")
	assert.Equal(t, 64, cfg.Gateway.SendBuffer, "default send_buffer should be preserved")
}

func TestLoadFromFile_InvalidYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	tmpFile := filepath.Join(t.TempDir(), "wardlink.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("{{invalid yaml:::"), 0644))

	_, err := LoadFromFile(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML")
}

func TestExpandHome_ReplacesLeadingTilde(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	result := ExpandHome("~/some/path")
	assert.Equal(t, filepath.Join(home, "some/path"), result)
}

func TestExpandHome_LeavesAbsolutePathsUnchanged(t *testing.T) {
	t.Parallel()

	result := ExpandHome("/absolute/path")
	assert.Equal(t, "/absolute/path", result)
}
