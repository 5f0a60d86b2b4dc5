package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pixelfold/quadpress/pkg/convert"
)

// Config holds user preferences loaded from the TOML config file.
type Config struct {
	// Anchor is the default crop anchor used by convert when no
	// --anchor flag is given.
	Anchor string `toml:"anchor"`

	// Ratio is the default retention percentage for rho compression.
	Ratio int `toml:"ratio"`

	// OutputDir, when set, is prepended to relative output paths.
	OutputDir string `toml:"output_dir"`
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		Anchor: convert.Center.String(),
		Ratio:  defaultRatio,
	}
}

// LoadConfig reads the TOML config at path and applies it on top of the
// defaults. A missing file is not an error; a malformed file or invalid
// values are.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if _, err := convert.ParseAnchor(cfg.Anchor); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Ratio < 0 || cfg.Ratio > 100 {
		return nil, fmt.Errorf("config %s: ratio must be between 0 and 100, got %d", path, cfg.Ratio)
	}
	return cfg, nil
}

// resolveOutput applies the configured output directory to relative paths.
// Absolute paths and empty paths (stdout) pass through unchanged.
func (cfg *Config) resolveOutput(path string) string {
	if path == "" || cfg.OutputDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.OutputDir, path)
}
