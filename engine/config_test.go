package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 256\nlogLevel: debug\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Capacity)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("capacity = 512\nlog_level = \"warn\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Capacity)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.ini")
	require.NoError(t, os.WriteFile(path, []byte("capacity=1"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestWatch_ReloadsLogLevelOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 16\nlogLevel: info\n"), 0o600))

	levels := make(chan string, 4)
	w, err := Watch(path, func(level string) { levels <- level })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("capacity: 16\nlogLevel: debug\n"), 0o600))

	select {
	case level := <-levels:
		assert.Equal(t, "debug", level)
	case <-time.After(2 * time.Second):
		t.Fatal("config watcher did not observe the write")
	}
}
