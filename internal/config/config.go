// Package config loads attest.toml, the per-project run configuration.
// The file is optional: a missing manifest yields defaults, a malformed
// one is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up from the start directory upward.
const ManifestName = "attest.toml"

// Config is the decoded manifest.
type Config struct {
	Output OutputConfig      `toml:"output"`
	Run    RunConfig         `toml:"run"`
	Tags   map[string]string `toml:"tags"`
}

// OutputConfig controls the recorders.
type OutputConfig struct {
	// Color is "auto", "on", or "off".
	Color string `toml:"color"`
	// Stream is the event stream file path, relative to the manifest.
	// Empty disables the stream recorder.
	Stream string `toml:"stream"`
}

// RunConfig controls script execution.
type RunConfig struct {
	// Workers caps concurrent scripts. 0 means one per CPU.
	Workers int `toml:"workers"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Output: OutputConfig{Color: "auto"},
	}
}

// Find walks from startDir toward the filesystem root looking for the
// manifest, the same way module roots are located.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the manifest governing startDir. The returned
// path is empty when defaults were used.
func Load(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := decode(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

func decode(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch strings.TrimSpace(c.Output.Color) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on, or off, got %q", c.Output.Color)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("[run].workers must be non-negative, got %d", c.Run.Workers)
	}
	for tag, col := range c.Tags {
		if !validTagColor(col) {
			return fmt.Errorf("[tags].%s: unknown color %q", tag, col)
		}
	}
	return nil
}

var tagColors = map[string]bool{
	"red": true, "green": true, "yellow": true, "blue": true,
	"magenta": true, "cyan": true, "white": true,
}

func validTagColor(name string) bool {
	return tagColors[strings.ToLower(strings.TrimSpace(name))]
}
