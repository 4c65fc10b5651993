// Package cmdcommon provides common functionality for command-line tools:
// it assembles the digest engine components and the result renderer from a
// validated configuration.
package cmdcommon

import (
	"io"

	"github.com/multisum/multisum/internal/compare"
	"github.com/multisum/multisum/internal/config"
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/output"
	"github.com/multisum/multisum/internal/scheduler"
	"github.com/multisum/multisum/internal/terminal"
	"github.com/multisum/multisum/internal/verify"
)

// Toolkit bundles the components every run mode draws from. All of them
// share one registry and one worker pool.
type Toolkit struct {
	Registry *hashing.Registry
	Hasher   *hashing.Hasher
	Pool     *scheduler.Pool
	Comparer *compare.Engine
	Verifier *verify.Orchestrator
}

// NewToolkit builds the engine components from a validated configuration.
func NewToolkit(cfg *config.Config) (*Toolkit, error) {
	registry, err := hashing.NewRegistry(cfg.Hash.Algorithms)
	if err != nil {
		return nil, err
	}

	hasher := hashing.NewHasher(registry,
		hashing.WithChunkSize(cfg.Hash.ChunkSize),
		hashing.WithMmap(cfg.Hash.MmapEnabled()),
	)
	pool := scheduler.New(cfg.Hash.Workers)

	var engineOpts []compare.EngineOption
	if cfg.Comparison.DetailFormat != "" {
		engineOpts = append(engineOpts, compare.WithDetailTemplate(cfg.Comparison.DetailFormat))
	}
	comparer, err := compare.NewEngine(hasher, pool, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Toolkit{
		Registry: registry,
		Hasher:   hasher,
		Pool:     pool,
		Comparer: comparer,
		Verifier: verify.New(hasher, pool),
	}, nil
}

// NewRenderer builds the configured renderer for w. forceNoColor is the
// command-line override; it wins over both the configured color mode and
// the environment.
func NewRenderer(cfg *config.Config, w io.Writer, forceNoColor bool) (output.Renderer, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	mode, err := terminal.ParseMode(cfg.Output.Color)
	if err != nil {
		return nil, err
	}
	if forceNoColor {
		mode = terminal.ModeNever
	}
	detector := terminal.NewDetector(mode)

	return output.New(format, w, output.Options{
		Color:           format == output.FormatText && detector.ColorEnabled(w),
		MatchMessage:    cfg.Comparison.MatchMessage,
		MismatchMessage: cfg.Comparison.MismatchMessage,
	})
}
