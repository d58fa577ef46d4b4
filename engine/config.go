package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config configures an Engine. Capacity and PublishBlockTimeout are
// fixed at construction time and are not hot-reloadable; LogLevel is
// (see Watch).
type Config struct {
	// Capacity is the bounded queue's fixed size.
	Capacity int `json:"capacity" yaml:"capacity" toml:"capacity"`

	// PublishBlockTimeout is the default timeout applied to a blocking
	// Put call that does not specify its own via WithTimeout. Zero means
	// block indefinitely. Publish does not use it: it always blocks
	// without a timeout.
	PublishBlockTimeout time.Duration `json:"publishBlockTimeout" yaml:"publishBlockTimeout" toml:"publish_block_timeout"`

	// LogLevel is informational only at the engine layer: it is the
	// field Watch reloads on file change. Applying it to an actual
	// logger is the host application's responsibility.
	LogLevel string `json:"logLevel" yaml:"logLevel" toml:"log_level"`
}

// DefaultConfig returns the configuration used when an application does
// not load one from a file.
func DefaultConfig() Config {
	return Config{
		Capacity:            1024,
		PublishBlockTimeout: 0,
		LogLevel:            "info",
	}
}

// LoadConfig reads a YAML or TOML file (selected by extension) into a
// Config seeded with DefaultConfig's values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("engine: parse yaml config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("engine: parse toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("engine: unsupported config extension %q", ext)
	}

	return cfg, nil
}

// Watch watches path for writes and invokes onLogLevelChange with the
// freshly parsed LogLevel field whenever the file changes. Only
// LogLevel is reloadable; Capacity and PublishBlockTimeout changes in
// the file are ignored once the engine has been constructed, since
// both are fixed at construction time. Call Close on the returned
// watcher to stop watching.
func Watch(path string, onLogLevelChange func(level string)) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("engine: create config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("engine: watch config directory: %w", err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					continue
				}
				onLogLevelChange(cfg.LogLevel)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return w, nil
}
