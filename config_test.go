package depthtop

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "Depthtop", cfg.Window.Title)
	assert.Equal(t, float32(0.063), cfg.Stereo.IPD)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Hover.Duration)
	assert.True(t, cfg.Hover.Enabled)
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := writeTempYAML(t, `
window:
  width: 1920
  height: 1080
  title: Workbench
hover:
  duration: 150ms
  enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, "Workbench", cfg.Window.Title)
	assert.Equal(t, Duration(150*time.Millisecond), cfg.Hover.Duration)
	// Untouched sections still get defaults.
	assert.Equal(t, float32(60), cfg.Stereo.FovDegrees)
}

func TestLoadConfigRejectsNegativeIPD(t *testing.T) {
	path := writeTempYAML(t, `
stereo:
  ipd: -0.05
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ipd")
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeTempYAML(t, `
hover:
  duration: sideways
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
