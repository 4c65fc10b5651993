// Package main provides the multisum command. It computes file digests over
// several algorithms in one read pass (-i), compares files by their digests
// (-s), and, with no mode flag, verifies checksum manifests found in a
// directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/multisum/multisum/internal/cmdcommon"
	"github.com/multisum/multisum/internal/config"
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/logging"
	"github.com/multisum/multisum/internal/manifest"
	"github.com/multisum/multisum/internal/output"
	"github.com/multisum/multisum/internal/scheduler"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	errConflictingModes = errors.New("-i and -s are mutually exclusive")
	errComputeNeedsFile = errors.New("-i requires at least one file or glob pattern")
	errCompareNeedsTwo  = errors.New("-s requires at least two files after glob expansion")
	errVerifyNoArgs     = errors.New("verify mode takes no positional arguments, use -dir")
	errNoMatches        = errors.New("no files match the given patterns")
)

type runMode int

const (
	modeVerify runMode = iota
	modeCompute
	modeCompare
)

type cliOptions struct {
	mode         runMode
	patterns     []string
	configPath   string
	algos        string
	workers      int
	format       string
	ignoreErrors bool
	noColor      bool
	logLevel     string
	dir          string

	// flags the user actually passed, for config override precedence
	set map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		printUsage(fs, stderr)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	closeLog, err := logging.Setup(logging.Options{
		Level:  level,
		File:   cfg.Logging.File,
		RunID:  logging.GenerateRunID(),
		Writer: stderr,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	defer func() {
		if err := closeLog(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error closing log file: %v\n", err)
		}
	}()

	toolkit, err := cmdcommon.NewToolkit(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	renderer, err := cmdcommon.NewRenderer(cfg, stdout, opts.noColor)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch opts.mode {
	case modeCompute:
		return runCompute(ctx, toolkit, renderer, cfg, opts, stderr)
	case modeCompare:
		return runCompare(ctx, toolkit, renderer, opts, stderr)
	default:
		return runVerify(ctx, toolkit, renderer, opts, stderr)
	}
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, *flag.FlagSet, error) {
	opts := &cliOptions{set: make(map[string]bool)}
	var compute, compare bool

	fs := flag.NewFlagSet("multisum", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	fs.BoolVar(&compute, "i", false, "Compute digests of the given files or glob patterns")
	fs.BoolVar(&compare, "s", false, "Compare the digests of two or more files")
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.algos, "algos", "", "Comma-separated algorithm list (overrides configuration)")
	fs.IntVar(&opts.workers, "workers", 0, "Hashing worker count (overrides configuration)")
	fs.StringVar(&opts.format, "format", "", "Output format: text, json, or csv (overrides configuration)")
	fs.BoolVar(&opts.ignoreErrors, "ignore-errors", false, "Keep processing after per-file failures")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, or error (overrides configuration)")
	fs.StringVar(&opts.dir, "dir", ".", "Directory to scan for checksum manifests in verify mode")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.patterns = fs.Args()
	switch {
	case compute && compare:
		return nil, fs, errConflictingModes
	case compute:
		opts.mode = modeCompute
		if len(opts.patterns) == 0 {
			return nil, fs, errComputeNeedsFile
		}
	case compare:
		opts.mode = modeCompare
		if len(opts.patterns) < 2 {
			return nil, fs, errCompareNeedsTwo
		}
	default:
		opts.mode = modeVerify
		if len(opts.patterns) > 0 {
			return nil, fs, errVerifyNoArgs
		}
	}
	return opts, fs, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	if fs == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Usage: %s [flags] [-i <file|glob>... | -s <file> <file>...]\n", filepath.Base(os.Args[0]))
	_, _ = fmt.Fprintln(w, "Without -i or -s, checksum manifests in the -dir directory are verified.")
	fs.PrintDefaults()
}

// loadConfig resolves the effective configuration: file (or defaults), then
// command-line overrides, then re-validation.
func loadConfig(opts *cliOptions) (*config.Config, error) {
	var cfg *config.Config
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if opts.set["algos"] {
		var names []string
		for _, name := range strings.Split(opts.algos, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		cfg.Hash.Algorithms = names
	}
	if opts.set["workers"] {
		cfg.Hash.Workers = opts.workers
	}
	if opts.set["format"] {
		cfg.Output.Format = opts.format
	}
	if opts.set["ignore-errors"] {
		cfg.Files.IgnoreErrors = opts.ignoreErrors
	}
	if opts.set["log-level"] {
		cfg.Logging.Level = opts.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandPatterns resolves glob patterns against the filesystem. A pattern
// without metacharacters passes through untouched, so a missing literal file
// still surfaces as a hashing error instead of vanishing silently.
func expandPatterns(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if matches == nil {
			if !strings.ContainsAny(pattern, "*?[") {
				paths = append(paths, pattern)
			}
			continue
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err == nil && info.Mode().IsRegular() {
				paths = append(paths, match)
			}
		}
	}
	return paths, nil
}

func runCompute(ctx context.Context, tk *cmdcommon.Toolkit, renderer output.Renderer, cfg *config.Config, opts *cliOptions, stderr io.Writer) int {
	paths, err := expandPatterns(opts.patterns)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if len(paths) == 0 {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", errNoMatches)
		return exitFailure
	}

	algorithms := tk.Registry.Enabled()
	results, runErr := tk.Pool.Run(ctx, paths, func(ctx context.Context, path string) (*hashing.FileDigestSet, error) {
		return tk.Hasher.HashFile(ctx, path, algorithms)
	}, cfg.Files.IgnoreErrors)

	var sets []*hashing.FileDigestSet
	failures := 0
	for _, res := range results {
		switch {
		case res.Err == nil:
			sets = append(sets, res.Set)
		case errors.Is(res.Err, scheduler.ErrNotProcessed):
			// dispatch stopped after an earlier failure
		default:
			failures++
			_, _ = fmt.Fprintf(stderr, "Error processing %s: %v\n", res.Path, res.Err)
		}
	}

	if len(sets) > 0 {
		if err := renderer.DigestSets(sets, algorithms); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		if code := generateManifests(cfg, opts.dir, sets, algorithms, stderr); code != exitOK {
			return code
		}
	}

	if runErr != nil || failures > 0 {
		return exitFailure
	}
	return exitOK
}

// generateManifests writes sidecar and aggregate checksum files when the
// configuration asks for them.
func generateManifests(cfg *config.Config, dir string, sets []*hashing.FileDigestSet, algorithms []hashing.Algorithm, stderr io.Writer) int {
	if cfg.Output.GenerateSidecars {
		for _, set := range sets {
			written, err := manifest.WriteSidecars(set, algorithms)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "Error writing sidecars for %s: %v\n", set.Path, err)
				return exitFailure
			}
			slog.Debug("wrote sidecar manifests", "file", set.Path, "sidecars", written)
		}
	}
	if cfg.Output.GenerateSums {
		written, err := manifest.WriteSumsFiles(dir, sets, algorithms, manifest.Format(cfg.Output.ManifestFormat))
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error writing checksum files: %v\n", err)
			return exitFailure
		}
		slog.Debug("wrote aggregate checksum files", "files", written)
	}
	return exitOK
}

func runCompare(ctx context.Context, tk *cmdcommon.Toolkit, renderer output.Renderer, opts *cliOptions, stderr io.Writer) int {
	paths, err := expandPatterns(opts.patterns)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if len(paths) < 2 {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", errCompareNeedsTwo)
		return exitUsage
	}

	result, err := tk.Comparer.Compare(ctx, paths)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if err := renderer.Comparison(result, tk.Registry.Enabled()); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if !result.AllMatch {
		return exitFailure
	}
	return exitOK
}

func runVerify(ctx context.Context, tk *cmdcommon.Toolkit, renderer output.Renderer, opts *cliOptions, stderr io.Writer) int {
	summary, err := tk.Verifier.Run(ctx, opts.dir)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if err := renderer.Verification(summary); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if !summary.OK() {
		return exitFailure
	}
	return exitOK
}
