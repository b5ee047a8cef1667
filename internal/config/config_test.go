package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socheck/internal/tool"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30, cfg.Tools.TimeoutSeconds)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.False(t, cfg.Tools.UseBundled)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socheck.yaml")
	doc := `
tools:
  use_bundled: true
  ndk_root: /opt/ndk/r27
  platform: linux-x86_64
  timeout_seconds: 5
logging:
  level: debug
  pretty: false
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Tools.UseBundled)
	assert.Equal(t, "/opt/ndk/r27", cfg.Tools.NDKRoot)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Pretty)
}

func TestLoadBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  use_bundled: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Tools.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	// Defaults still come back so the caller can choose to continue.
	assert.Equal(t, 30, cfg.Tools.TimeoutSeconds)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolver(t *testing.T) {
	cfg := Default()
	cfg.Tools.UseBundled = true
	cfg.Tools.NDKRoot = "/opt/ndk/r27"
	cfg.Tools.Platform = "darwin-x86_64"

	r := cfg.Resolver()
	assert.True(t, r.UseBundled)
	assert.Equal(t, "/opt/ndk/r27", r.RootPath)
	assert.Equal(t, tool.PlatformDarwin, r.Platform)
}

func TestResolverHostPlatform(t *testing.T) {
	r := Default().Resolver()
	assert.NotEmpty(t, r.Platform)
}
