package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/multisum/multisum/internal/hashing"
)

// Error definitions for configuration loading and validation.
var (
	// ErrUnsupportedConfigFormat is returned for config files that are
	// neither TOML nor YAML.
	ErrUnsupportedConfigFormat = errors.New("unsupported config file format")
	// ErrInvalidChunkSize is returned for non-positive chunk sizes.
	ErrInvalidChunkSize = errors.New("chunk_size must be positive")
	// ErrInvalidWorkerCount is returned for non-positive worker counts.
	ErrInvalidWorkerCount = errors.New("workers must be positive")
	// ErrInvalidOutputFormat is returned for unknown output formats.
	ErrInvalidOutputFormat = errors.New("output format must be text, json, or csv")
	// ErrInvalidColorMode is returned for unknown color modes.
	ErrInvalidColorMode = errors.New("color must be auto, always, or never")
	// ErrInvalidManifestFormat is returned for unknown manifest formats.
	ErrInvalidManifestFormat = errors.New("manifest_format must be gnu or bsd")
	// ErrInvalidLogLevel is returned for unknown log levels.
	ErrInvalidLogLevel = errors.New("log level must be debug, info, warn, or error")
)

// Load reads, decodes, defaults, and validates a configuration file. The
// decoder is chosen by extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- config path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a defaulted configuration. Zero enabled algorithms or an
// unknown algorithm name is a run-level failure, consistent with the
// registry's own construction rules.
func Validate(cfg *Config) error {
	if len(cfg.Hash.Algorithms) == 0 {
		return hashing.ErrNoAlgorithms
	}
	for _, name := range cfg.Hash.Algorithms {
		if _, ok := hashing.Lookup(name); !ok {
			return fmt.Errorf("%w: %q", hashing.ErrUnsupportedAlgorithm, name)
		}
	}
	if cfg.Hash.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, cfg.Hash.ChunkSize)
	}
	if cfg.Hash.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, cfg.Hash.Workers)
	}

	switch cfg.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, cfg.Output.Format)
	}
	switch cfg.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, cfg.Output.Color)
	}
	switch cfg.Output.ManifestFormat {
	case "gnu", "bsd":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidManifestFormat, cfg.Output.ManifestFormat)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level)
	}
	return nil
}
