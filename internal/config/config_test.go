package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RICHSYNC_WIDTH", "RICHSYNC_COLOR", "RICHSYNC_DIFF_TIMEOUT", "RICHSYNC_LOG_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "richsync.yaml"), []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{Width: 0, Color: ColorAuto, DiffTimeout: time.Second}, cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "width: 80\ncolor: never\ndiff_timeout: 250ms\nlog_file: /tmp/richsync.log\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{Width: 80, Color: ColorNever, DiffTimeout: 250 * time.Millisecond, LogFile: "/tmp/richsync.log"}, cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "width: 80\ncolor: never\n")
	t.Setenv("RICHSYNC_WIDTH", "120")
	t.Setenv("RICHSYNC_COLOR", "always")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, ColorAlways, cfg.Color)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	writeConfig(t, dir, "color: purple\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")

	dir = t.TempDir()
	writeConfig(t, dir, "width: [1\n")
	_, err = Load(dir)
	require.Error(t, err)

	dir = t.TempDir()
	writeConfig(t, dir, "width: -1\n")
	_, err = Load(dir)
	require.Error(t, err)
}

func TestUseColor(t *testing.T) {
	assert.True(t, (&Config{Color: ColorAuto}).UseColor(true))
	assert.False(t, (&Config{Color: ColorAuto}).UseColor(false))
	assert.True(t, (&Config{Color: ColorAlways}).UseColor(false))
	assert.False(t, (&Config{Color: ColorNever}).UseColor(true))
}
