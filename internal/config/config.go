// Package config defines the runtime configuration values consumed by the
// digest engine: enabled algorithms, buffer and pool sizing, failure policy,
// and output preferences. The configuration is loaded once, validated, and
// treated as immutable for the rest of the run.
package config

// Config is the full configuration for one run.
type Config struct {
	Hash       HashConfig       `toml:"hash" yaml:"hash"`
	Files      FilesConfig      `toml:"files" yaml:"files"`
	Output     OutputConfig     `toml:"output" yaml:"output"`
	Comparison ComparisonConfig `toml:"comparison" yaml:"comparison"`
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
}

// HashConfig controls the digest engine.
type HashConfig struct {
	// Algorithms is the enabled algorithm set, in output order.
	Algorithms []string `toml:"algorithms" yaml:"algorithms"`
	// ChunkSize is the read-chunk size in bytes.
	ChunkSize int `toml:"chunk_size" yaml:"chunk_size"`
	// UseMmap enables the memory-mapped read strategy for large files.
	UseMmap *bool `toml:"use_mmap" yaml:"use_mmap"`
	// Workers is the hashing worker-pool size.
	Workers int `toml:"workers" yaml:"workers"`
}

// FilesConfig controls per-file failure policy.
type FilesConfig struct {
	// IgnoreErrors keeps a batch going after per-file failures instead of
	// stopping dispatch at the first one.
	IgnoreErrors bool `toml:"ignore_errors" yaml:"ignore_errors"`
}

// OutputConfig controls result rendering and manifest generation.
type OutputConfig struct {
	// Format selects the renderer: text, json, or csv.
	Format string `toml:"format" yaml:"format"`
	// Color is auto, always, or never.
	Color string `toml:"color" yaml:"color"`
	// ManifestFormat selects gnu or bsd checksum lines for generated files.
	ManifestFormat string `toml:"manifest_format" yaml:"manifest_format"`
	// GenerateSidecars writes one "<file>.<algo>" bare-hash sidecar per
	// computed algorithm in compute mode.
	GenerateSidecars bool `toml:"generate_sidecars" yaml:"generate_sidecars"`
	// GenerateSums writes aggregate "MD5SUMS"-style files in compute mode.
	GenerateSums bool `toml:"generate_sums" yaml:"generate_sums"`
}

// ComparisonConfig holds the user-facing comparison messages.
type ComparisonConfig struct {
	MatchMessage    string `toml:"match_message" yaml:"match_message"`
	MismatchMessage string `toml:"mismatch_message" yaml:"mismatch_message"`
	// DetailFormat is a template with {algo}, {file1}, {file2} placeholders.
	DetailFormat string `toml:"detail_format" yaml:"detail_format"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `toml:"level" yaml:"level"`
	// File receives the log stream in addition to stderr when set.
	File string `toml:"file" yaml:"file"`
}

// MmapEnabled resolves the UseMmap tri-state against its default.
func (h HashConfig) MmapEnabled() bool {
	if h.UseMmap == nil {
		return DefaultUseMmap
	}
	return *h.UseMmap
}
