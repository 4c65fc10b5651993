package config

import (
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/scheduler"
)

// Default values applied to unset configuration fields.
const (
	DefaultChunkSize      = hashing.DefaultChunkSize
	DefaultUseMmap        = true
	DefaultWorkers        = scheduler.DefaultWorkers
	DefaultOutputFormat   = "text"
	DefaultColor          = "auto"
	DefaultManifestFormat = "gnu"
	DefaultLogLevel       = "info"

	DefaultMatchMessage    = "all files share identical digests"
	DefaultMismatchMessage = "digest mismatches detected"
	DefaultDetailFormat    = "{algo} digest of {file2} differs from {file1}"
)

// DefaultAlgorithms is the enabled set when the configuration names none.
var DefaultAlgorithms = []string{"md5", "sha1", "sha256"}

// Default returns a fully populated configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields in place. Explicit values are kept.
func ApplyDefaults(cfg *Config) {
	if len(cfg.Hash.Algorithms) == 0 {
		cfg.Hash.Algorithms = append([]string{}, DefaultAlgorithms...)
	}
	if cfg.Hash.ChunkSize == 0 {
		cfg.Hash.ChunkSize = DefaultChunkSize
	}
	if cfg.Hash.Workers == 0 {
		cfg.Hash.Workers = DefaultWorkers
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = DefaultColor
	}
	if cfg.Output.ManifestFormat == "" {
		cfg.Output.ManifestFormat = DefaultManifestFormat
	}
	if cfg.Comparison.MatchMessage == "" {
		cfg.Comparison.MatchMessage = DefaultMatchMessage
	}
	if cfg.Comparison.MismatchMessage == "" {
		cfg.Comparison.MismatchMessage = DefaultMismatchMessage
	}
	if cfg.Comparison.DetailFormat == "" {
		cfg.Comparison.DetailFormat = DefaultDetailFormat
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
}
