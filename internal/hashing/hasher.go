package hashing

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	// DefaultChunkSize is the default read-chunk size of 8 MiB.
	DefaultChunkSize = 8 * 1024 * 1024

	// defaultMmapThreshold is the minimum file size for which the
	// memory-mapped read strategy is attempted.
	defaultMmapThreshold = 32 * 1024 * 1024
)

// Hasher reads a file once and feeds identical chunks to every requested
// accumulator, so N digests cost a single physical read pass.
type Hasher struct {
	registry      *Registry
	chunkSize     int
	useMmap       bool
	mmapThreshold int64
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithChunkSize sets the read-chunk size. Non-positive values keep the
// default.
func WithChunkSize(n int) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.chunkSize = n
		}
	}
}

// WithMmap enables or disables the memory-mapped read strategy.
func WithMmap(enabled bool) Option {
	return func(h *Hasher) {
		h.useMmap = enabled
	}
}

// NewHasher creates a Hasher bound to the given registry.
func NewHasher(registry *Registry, opts ...Option) *Hasher {
	h := &Hasher{
		registry:      registry,
		chunkSize:     DefaultChunkSize,
		useMmap:       true,
		mmapThreshold: defaultMmapThreshold,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry returns the algorithm registry the hasher was built with.
func (h *Hasher) Registry() *Registry {
	return h.registry
}

// HashFile computes the digests of the file at path for every algorithm in
// algorithms, reading the file exactly once. A zero-length file yields the
// well-defined empty-input digest for each algorithm. Read failures are
// returned as wrapped I/O errors; unknown algorithms fail with
// ErrUnsupportedAlgorithm before the file is opened.
func (h *Hasher) HashFile(ctx context.Context, path string, algorithms []Algorithm) (*FileDigestSet, error) {
	if len(algorithms) == 0 {
		return nil, ErrNoAlgorithmsRequested
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accums, writers, err := h.makeAccumulators(algorithms)
	if err != nil {
		return nil, err
	}

	// Stat rather than Lstat: symlinks resolve to their target, the way
	// md5sum and friends treat them.
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotRegularFile, path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	f, err := os.Open(path) // #nosec G304 -- hashing arbitrary user-supplied paths is the purpose of this tool
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if size := info.Size(); size > 0 {
		dst := io.MultiWriter(writers...)
		if err := h.stream(ctx, f, size, dst); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	set := &FileDigestSet{
		Path:    path,
		Digests: make(map[Algorithm]Digest, len(algorithms)),
	}
	for i, a := range algorithms {
		set.Digests[a] = Digest{
			Algorithm: a,
			Hex:       hex.EncodeToString(accums[i].Sum(nil)),
		}
	}
	return set, nil
}

// makeAccumulators constructs one accumulator per requested algorithm. The
// returned writers slice aliases the accumulators for io.MultiWriter.
func (h *Hasher) makeAccumulators(algorithms []Algorithm) ([]acc, []io.Writer, error) {
	accums := make([]acc, len(algorithms))
	writers := make([]io.Writer, len(algorithms))
	for i, a := range algorithms {
		hh, err := h.registry.New(a)
		if err != nil {
			return nil, nil, err
		}
		accums[i] = hh
		writers[i] = hh
	}
	return accums, writers, nil
}

type acc interface {
	io.Writer
	Sum(b []byte) []byte
}

// stream pushes the file content through dst using the memory-mapped
// strategy when it applies, falling back to buffered reads when mapping
// fails. A mapping failure happens before any byte reaches the accumulators,
// so falling back never double-feeds data.
func (h *Hasher) stream(ctx context.Context, f *os.File, size int64, dst io.Writer) error {
	if h.useMmap && size >= h.mmapThreshold {
		err := (mmapStrategy{}).stream(ctx, f, size, h.chunkSize, dst)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errMmapUnavailable) {
			return err
		}
		slog.Debug("mmap read unavailable, using buffered reads",
			"file", f.Name(),
			"size", size,
			"error", err)
	}
	return (bufferedStrategy{}).stream(ctx, f, size, h.chunkSize, dst)
}
