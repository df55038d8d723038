package simplelogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_WritesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "richsync.log")
	t.Setenv(EnvLogFile, path)
	assert.True(t, Enabled())

	Log("traversal %v", "[0,5]")
	Log("widened\n")
	Log("")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "traversal [0,5]\nwidened\n\n", string(b))
}

func TestLine(t *testing.T) {
	assert.Equal(t, "a 1\n", string(line("a %d", []any{1})))
	assert.Equal(t, "done\n", string(line("done\n", nil)))
	assert.Equal(t, "\n", string(line("", nil)))
	assert.Equal(t, "two\n\n", string(line("two\n\n", nil)))
}

func TestLog_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	assert.False(t, Enabled())
	Log("should not %s", "panic")
}

func TestLog_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogFile, dir)

	Log("ignored %d", 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
