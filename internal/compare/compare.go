// Package compare implements manifest-free comparison of two or more files
// by their digests. The first caller-supplied path is the reference; there is
// no other canonical anchor, so the caller's ordering is never re-sorted.
package compare

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/valyala/fasttemplate"

	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/scheduler"
)

// DefaultDetailTemplate renders one mismatch description. Placeholders:
// {algo} is the algorithm display name, {file1} the reference basename,
// {file2} the candidate basename.
const DefaultDetailTemplate = "{algo} digest of {file2} differs from {file1}"

// template tag delimiters.
const (
	startTag = "{"
	endTag   = "}"
)

// ErrInsufficientInput is returned when fewer than two resolved paths are
// supplied. It is fatal to the comparison call only.
var ErrInsufficientInput = errors.New("comparison requires at least two files")

// Candidate holds the comparison outcome for one non-reference file.
type Candidate struct {
	Path       string
	Digests    *hashing.FileDigestSet
	Matches    map[hashing.Algorithm]bool
	Mismatches []string
}

// Result is the outcome of comparing a file set against its reference.
type Result struct {
	Reference  *hashing.FileDigestSet
	Candidates []Candidate
	AllMatch   bool
}

// Engine computes and compares digests across a file set.
type Engine struct {
	hasher *hashing.Hasher
	pool   *scheduler.Pool
	detail *fasttemplate.Template
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithDetailTemplate overrides the mismatch description template.
func WithDetailTemplate(pattern string) EngineOption {
	return func(e *Engine) error {
		tpl, err := fasttemplate.NewTemplate(pattern, startTag, endTag)
		if err != nil {
			return fmt.Errorf("invalid detail template %q: %w", pattern, err)
		}
		e.detail = tpl
		return nil
	}
}

// NewEngine creates a comparison engine using the given hasher and worker
// pool.
func NewEngine(hasher *hashing.Hasher, pool *scheduler.Pool, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		hasher: hasher,
		pool:   pool,
		detail: fasttemplate.New(DefaultDetailTemplate, startTag, endTag),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Compare hashes every path once and compares each non-reference file
// against the first path, algorithm by algorithm, using exact lowercase-hex
// string equality. It fails with ErrInsufficientInput for fewer than two
// paths and propagates the first hashing failure otherwise.
func (e *Engine) Compare(ctx context.Context, paths []string) (*Result, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientInput, len(paths))
	}

	algorithms := e.hasher.Registry().Enabled()
	results, err := e.pool.Run(ctx, paths, func(ctx context.Context, path string) (*hashing.FileDigestSet, error) {
		return e.hasher.HashFile(ctx, path, algorithms)
	}, false)
	if err != nil {
		return nil, err
	}

	reference := results[0].Set
	out := &Result{
		Reference: reference,
		AllMatch:  true,
	}

	for _, res := range results[1:] {
		candidate := Candidate{
			Path:    res.Path,
			Digests: res.Set,
			Matches: make(map[hashing.Algorithm]bool, len(algorithms)),
		}
		for _, algo := range algorithms {
			refDigest := reference.Digests[algo]
			candDigest := res.Set.Digests[algo]
			match := refDigest.Hex == candDigest.Hex
			candidate.Matches[algo] = match
			if !match {
				out.AllMatch = false
				candidate.Mismatches = append(candidate.Mismatches, e.describeMismatch(algo, reference.Path, res.Path))
			}
		}
		out.Candidates = append(out.Candidates, candidate)
	}
	return out, nil
}

func (e *Engine) describeMismatch(algo hashing.Algorithm, refPath, candPath string) string {
	return e.detail.ExecuteString(map[string]interface{}{
		"algo":  algo.DisplayName(),
		"file1": filepath.Base(refPath),
		"file2": filepath.Base(candPath),
	})
}
