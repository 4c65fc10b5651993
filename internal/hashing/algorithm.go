// Package hashing provides the digest algorithm registry and the streaming
// multi-algorithm file hasher. The registry is the single source of truth for
// which algorithms exist and which are enabled; both the hashing path and
// manifest extension inference resolve names through it.
package hashing

import (
	"crypto/md5"  // #nosec G501 -- md5 is required for checksum manifest compatibility
	"crypto/sha1" // #nosec G505 -- sha1 is required for checksum manifest compatibility
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"hash/crc32"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies a supported digest algorithm. The string value doubles
// as the manifest file extension (e.g. ".sha256") and the lowercase display
// name.
type Algorithm string

// Supported algorithm identifiers.
const (
	MD5     Algorithm = "md5"
	SHA1    Algorithm = "sha1"
	SHA256  Algorithm = "sha256"
	SHA512  Algorithm = "sha512"
	SHA3    Algorithm = "sha3"
	BLAKE2B Algorithm = "blake2b"
	BLAKE3  Algorithm = "blake3"
	XXH64   Algorithm = "xxh64"
	CRC32   Algorithm = "crc32"
)

// algorithmInfo describes one entry of the closed constructor table.
type algorithmInfo struct {
	size int // digest output length in bytes
	ctor func() hash.Hash
}

// algorithms is the closed constructor table. Unknown names fail with
// ErrUnsupportedAlgorithm instead of being silently skipped.
var algorithms = map[Algorithm]algorithmInfo{
	MD5:     {size: md5.Size, ctor: md5.New},
	SHA1:    {size: sha1.Size, ctor: sha1.New},
	SHA256:  {size: sha256.Size, ctor: sha256.New},
	SHA512:  {size: sha512.Size, ctor: sha512.New},
	SHA3:    {size: 32, ctor: func() hash.Hash { return sha3.New256() }},
	BLAKE2B: {size: 32, ctor: newBlake2b256},
	BLAKE3:  {size: 32, ctor: func() hash.Hash { return blake3.New() }},
	XXH64:   {size: 8, ctor: func() hash.Hash { return xxhash.New() }},
	CRC32:   {size: 4, ctor: func() hash.Hash { return crc32.NewIEEE() }},
}

// newBlake2b256 constructs an unkeyed BLAKE2b-256 accumulator.
// blake2b.New256 only fails for oversized keys, which cannot happen here.
func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("hashing: blake2b.New256 failed: %v", err))
	}
	return h
}

// Lookup resolves an algorithm name (case-insensitive) to its identifier.
// The second return value reports whether the name is known.
func Lookup(name string) (Algorithm, bool) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	_, ok := algorithms[a]
	return a, ok
}

// Known reports whether a is a supported algorithm.
func (a Algorithm) Known() bool {
	_, ok := algorithms[a]
	return ok
}

// Size returns the digest output length in bytes, or 0 for unknown algorithms.
func (a Algorithm) Size() int {
	return algorithms[a].size
}

// HexLength returns the length of the lowercase hexadecimal digest string,
// which is exactly twice the byte-output length.
func (a Algorithm) HexLength() int {
	return 2 * algorithms[a].size
}

// DisplayName returns the uppercase name used by BSD-style manifest lines
// (e.g. "SHA256").
func (a Algorithm) DisplayName() string {
	return strings.ToUpper(string(a))
}

// Registry holds the immutable set of enabled algorithms for a run and
// constructs per-file accumulators. It is safe for concurrent use: all state
// is fixed at construction.
type Registry struct {
	enabled []Algorithm
	index   map[Algorithm]struct{}
}

// NewRegistry builds a registry from the configured algorithm names,
// preserving their order. It fails with ErrUnsupportedAlgorithm for names
// without an implementation and with ErrNoAlgorithms when the resolved set is
// empty.
func NewRegistry(names []string) (*Registry, error) {
	r := &Registry{index: make(map[Algorithm]struct{}, len(names))}
	for _, name := range names {
		a, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
		}
		if _, dup := r.index[a]; dup {
			continue
		}
		r.index[a] = struct{}{}
		r.enabled = append(r.enabled, a)
	}
	if len(r.enabled) == 0 {
		return nil, ErrNoAlgorithms
	}
	return r, nil
}

// Enabled returns the enabled algorithms in configuration order. The caller
// must not modify the returned slice.
func (r *Registry) Enabled() []Algorithm {
	return r.enabled
}

// IsEnabled reports whether a is part of the enabled set.
func (r *Registry) IsEnabled(a Algorithm) bool {
	_, ok := r.index[a]
	return ok
}

// New returns a fresh accumulator for a. Any known algorithm can be
// constructed, including ones outside the enabled set; verification uses this
// to transiently activate an algorithm inferred from a manifest extension.
func (r *Registry) New(a Algorithm) (hash.Hash, error) {
	info, ok := algorithms[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, a)
	}
	return info.ctor(), nil
}
