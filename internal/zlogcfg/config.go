// Package zlogcfg loads cmd/zlogctl's configuration, grounded on
// internal/ticket/config.go's HuJSON-based loader trimmed to the one
// setting this demo CLI needs: where to snapshot the in-memory object
// between invocations.
package zlogcfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the default config file name, read from the current
// directory unless overridden by --config.
const ConfigFileName = ".zlogctl.json"

// Config holds zlogctl's settings.
type Config struct {
	// SnapshotPath is where the object's key/value map is persisted between
	// CLI invocations (see internal/host.FileMap).
	SnapshotPath string `json:"snapshot_path"`
}

// DefaultConfig returns the built-in defaults, used when no config file is
// present.
func DefaultConfig() Config {
	return Config{SnapshotPath: ".zlogctl.snapshot"}
}

// ErrConfigInvalid reports a config file that parsed but failed validation.
var ErrConfigInvalid = errors.New("invalid config")

// Load reads configPath (HuJSON: JSON plus comments and trailing commas) if
// it exists, falling back to defaults. An explicit configPath that does not
// exist is an error; the default path is optional.
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	explicit := configPath != ""
	if !explicit {
		configPath = ConfigFileName
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
	}

	standard, err := hujson.Standardize(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, configPath, err)
	}

	if err := json.Unmarshal(standard, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, configPath, err)
	}

	if cfg.SnapshotPath == "" {
		return Config{}, fmt.Errorf("%w: %s: snapshot_path must not be empty", ErrConfigInvalid, configPath)
	}

	if !filepath.IsAbs(cfg.SnapshotPath) {
		dir := filepath.Dir(configPath)
		cfg.SnapshotPath = filepath.Join(dir, cfg.SnapshotPath)
	}

	return cfg, nil
}
