package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/manifest"
	"github.com/multisum/multisum/internal/scheduler"
)

// ErrUnknownManifestExtension indicates a file offered for verification whose
// extension names no known algorithm. The file is skipped with a warning.
var ErrUnknownManifestExtension = errors.New("manifest extension matches no known algorithm")

// Orchestrator drives the auto-verify run:
// Discover -> ParseEach -> ResolveTargets -> Hash -> Reconcile -> Summarize.
type Orchestrator struct {
	hasher *hashing.Hasher
	pool   *scheduler.Pool
}

// New creates an orchestrator using the given hasher and worker pool.
func New(hasher *hashing.Hasher, pool *scheduler.Pool) *Orchestrator {
	return &Orchestrator{hasher: hasher, pool: pool}
}

// Run discovers manifests in dir and reconciles every entry. An error is
// returned only when the directory itself cannot be enumerated; every
// per-manifest and per-entry failure degrades to a recorded outcome instead.
func (o *Orchestrator) Run(ctx context.Context, dir string) (*Summary, error) {
	start := time.Now()

	manifests, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Directory: dir}
	for _, path := range manifests {
		report := o.verifyManifest(ctx, path)
		if report.Err != nil {
			slog.Warn("skipping manifest",
				"manifest", path,
				"error", report.Err)
			summary.SkippedManifests = append(summary.SkippedManifests, path)
			summary.Reports = append(summary.Reports, report)
			continue
		}
		for _, outcome := range report.Outcomes {
			switch outcome.Status {
			case StatusMatched:
				summary.Matched++
			case StatusMismatched:
				summary.Mismatched++
			case StatusMissingTarget:
				summary.Missing++
			default:
				summary.Errors++
			}
		}
		summary.Reports = append(summary.Reports, report)
	}

	summary.Duration = time.Since(start)
	slog.Info("auto-verify run complete",
		"directory", dir,
		"manifests", len(manifests),
		"matched", summary.Matched,
		"mismatched", summary.Mismatched,
		"missing", summary.Missing,
		"errors", summary.Errors,
		"skipped_manifests", len(summary.SkippedManifests))
	return summary, nil
}

// Discover returns the manifest files in dir, sorted by name: regular files
// whose extension names a known algorithm, case-insensitively.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}

	var manifests []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := manifest.InferAlgorithm(entry.Name()); ok {
			manifests = append(manifests, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(manifests)
	return manifests, nil
}

// verifyManifest parses one manifest and reconciles its entries. The
// inferred algorithm is used for this manifest only, whether or not it is in
// the globally enabled set; the registry is never mutated.
func (o *Orchestrator) verifyManifest(ctx context.Context, path string) ManifestReport {
	report := ManifestReport{Path: path}

	algo, ok := manifest.InferAlgorithm(path)
	if !ok {
		report.Err = fmt.Errorf("%w: %s", ErrUnknownManifestExtension, path)
		return report
	}
	report.Algorithm = algo

	text, err := os.ReadFile(path) // #nosec G304 -- manifest discovered in the verification directory
	if err != nil {
		report.Err = fmt.Errorf("failed to read manifest: %w", err)
		return report
	}

	parsed, err := manifest.Parse(path, text, algo)
	if err != nil {
		report.Err = err
		return report
	}

	if !o.hasher.Registry().IsEnabled(algo) {
		slog.Debug("transiently activating algorithm for manifest",
			"manifest", path,
			"algorithm", algo)
	}

	report.Outcomes = o.reconcile(ctx, parsed)
	return report
}

// reconcile resolves each entry's target, hashes the ones that exist, and
// classifies every entry. Per-entry failures never abort the batch.
func (o *Orchestrator) reconcile(ctx context.Context, parsed *manifest.File) []Outcome {
	baseDir := filepath.Dir(parsed.Path)
	outcomes := make([]Outcome, len(parsed.Entries))

	var hashable []int
	var targets []string
	for i, entry := range parsed.Entries {
		target := entry.Filename
		if !filepath.IsAbs(target) {
			target = filepath.Join(baseDir, target)
		}
		outcomes[i] = Outcome{
			Manifest:  parsed.Path,
			Filename:  entry.Filename,
			Target:    target,
			Algorithm: parsed.Algorithm,
			Expected:  entry.Hash,
		}

		// Stat follows symlinks, so a dangling link counts as a missing
		// target rather than a read error.
		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				outcomes[i].Status = StatusMissingTarget
			} else {
				outcomes[i].Status = StatusReadError
				outcomes[i].Err = err
			}
			continue
		}
		hashable = append(hashable, i)
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return outcomes
	}

	algorithms := []hashing.Algorithm{parsed.Algorithm}
	results, _ := o.pool.Run(ctx, targets, func(ctx context.Context, target string) (*hashing.FileDigestSet, error) {
		return o.hasher.HashFile(ctx, target, algorithms)
	}, true)

	for slot, res := range results {
		i := hashable[slot]
		if res.Err != nil {
			if errors.Is(res.Err, hashing.ErrUnsupportedAlgorithm) {
				outcomes[i].Status = StatusUnsupportedAlgorithm
			} else {
				outcomes[i].Status = StatusReadError
			}
			outcomes[i].Err = res.Err
			continue
		}
		actual := res.Set.Digests[parsed.Algorithm].Hex
		outcomes[i].Actual = actual
		if actual == outcomes[i].Expected {
			outcomes[i].Status = StatusMatched
		} else {
			outcomes[i].Status = StatusMismatched
		}
	}
	return outcomes
}
