// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/framfs/lib/framfs"
)

// EnvVar names the environment variable Load reads the config path from.
const EnvVar = "FRAMFS_CONFIG"

// Config is the configuration for the framfs tools.
type Config struct {
	// Device selects the backing device image.
	Device DeviceConfig `yaml:"device"`

	// Filesystem configures formatting.
	Filesystem FilesystemConfig `yaml:"filesystem"`

	// Log configures CLI logging.
	Log LogConfig `yaml:"log"`

	// Snapshot configures export and import.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// DeviceConfig selects the file that stands in for the FRAM part.
type DeviceConfig struct {
	// Path is the device image file. Created at Size bytes if it does
	// not exist.
	Path string `yaml:"path"`

	// Size is the device capacity in bytes.
	// Default: 8192
	Size int64 `yaml:"size"`
}

// FilesystemConfig configures formatting.
type FilesystemConfig struct {
	// AreaSize is the allocatable area passed to a reset mount. Zero
	// uses all of the device after the superblock.
	AreaSize int `yaml:"area_size"`
}

// LogConfig configures CLI logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format is auto, text, or json. Auto picks text when stderr is a
	// terminal and json otherwise.
	// Default: auto
	Format string `yaml:"format"`
}

// SnapshotConfig configures export and import.
type SnapshotConfig struct {
	// Compression is none, lz4, or zstd.
	// Default: zstd
	Compression string `yaml:"compression"`

	// Recipients are age X25519 public keys ("age1..."). When set,
	// exported snapshots are encrypted to all of them.
	Recipients []string `yaml:"recipients"`

	// IdentityFile holds the age identity used to decrypt on import.
	IdentityFile string `yaml:"identity_file"`
}

var (
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"auto", "text", "json"}
	compressionIDs = []string{"none", "lz4", "zstd"}
)

// Default returns the default configuration. Device.Path is empty: the
// device must be named by the config file or the command line.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Size: framfs.DefaultDeviceSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Snapshot: SnapshotConfig{
			Compression: "zstd",
		},
	}
}

// Load loads configuration from the file named by FRAMFS_CONFIG.
//
// There is no discovery and no fallback: if FRAMFS_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your framfs.yaml config file, or use --config flag", EnvVar)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, layered over
// Default. Files ending in .json or .jsonc may carry comments and
// trailing commas.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Device.Path = expandVars(c.Device.Path, vars)
	c.Snapshot.IdentityFile = expandVars(c.Snapshot.IdentityFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Device.Path is not
// required here because commands may supply it with --device.
func (c *Config) Validate() error {
	var errs []error

	if c.Device.Size < framfs.SuperblockSize || c.Device.Size > framfs.MaxDeviceSize {
		errs = append(errs, fmt.Errorf("device.size must be between %d and %d, got %d",
			framfs.SuperblockSize, framfs.MaxDeviceSize, c.Device.Size))
	}

	usable := int(c.Device.Size) - framfs.SuperblockSize
	if c.Filesystem.AreaSize < 0 || (usable >= 0 && c.Filesystem.AreaSize > usable) {
		errs = append(errs, fmt.Errorf("filesystem.area_size must be between 0 and %d, got %d",
			max(usable, 0), c.Filesystem.AreaSize))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}
	if !slices.Contains(compressionIDs, c.Snapshot.Compression) {
		errs = append(errs, fmt.Errorf("snapshot.compression must be one of: %v", compressionIDs))
	}
	for i, recipient := range c.Snapshot.Recipients {
		if !strings.HasPrefix(recipient, "age1") {
			errs = append(errs, fmt.Errorf("snapshot.recipients[%d] is not an age public key", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel returns Log.Level as an slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// AreaSize returns the allocatable area a reset mount should use on a
// device of deviceSize bytes.
func (c *Config) AreaSize(deviceSize int64) int {
	if c.Filesystem.AreaSize > 0 {
		return c.Filesystem.AreaSize
	}
	return int(deviceSize) - framfs.SuperblockSize
}
