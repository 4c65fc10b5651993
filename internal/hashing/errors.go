package hashing

import "errors"

var (
	// ErrUnsupportedAlgorithm indicates that a requested digest algorithm has
	// no implementation in the constructor table.
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

	// ErrNoAlgorithms indicates that the configured algorithm set resolved to
	// nothing. A run cannot proceed without at least one algorithm.
	ErrNoAlgorithms = errors.New("no hash algorithms enabled")

	// ErrNotRegularFile indicates that the hashing target is not a regular
	// file (a directory, device, socket, or similar).
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNoAlgorithmsRequested indicates that HashFile was called with an
	// empty algorithm list.
	ErrNoAlgorithmsRequested = errors.New("no algorithms requested")

	// errMmapUnavailable marks a failed attempt to memory-map a file. The
	// hasher falls back to buffered reads when it sees this error.
	errMmapUnavailable = errors.New("memory-mapped read unavailable")
)
