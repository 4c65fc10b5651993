package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/multisum/multisum/internal/hashing"
)

const sidecarPermissions = 0o644

// WriteSidecars writes one bare-hash sidecar file per computed algorithm
// next to the hashed file: "<path>.<algo>" containing only the hex digest.
// Existing sidecars are overwritten. It returns the paths written.
func WriteSidecars(set *hashing.FileDigestSet, algorithms []hashing.Algorithm) ([]string, error) {
	var written []string
	for _, algo := range algorithms {
		d, ok := set.Get(algo)
		if !ok {
			continue
		}
		sidecarPath := set.Path + "." + string(algo)
		if err := os.WriteFile(sidecarPath, []byte(d.Hex+"\n"), sidecarPermissions); err != nil {
			return written, fmt.Errorf("failed to write sidecar %s: %w", sidecarPath, err)
		}
		written = append(written, sidecarPath)
	}
	return written, nil
}

// WriteSumsFiles aggregates the digests of several files into per-algorithm
// checksum files in dir, named after the algorithm ("MD5SUMS", "SHA256SUMS",
// ...). Entries are written in the given format with filenames relative to
// dir where possible, sorted by filename for stable output.
func WriteSumsFiles(dir string, sets []*hashing.FileDigestSet, algorithms []hashing.Algorithm, format Format) ([]string, error) {
	var written []string
	for _, algo := range algorithms {
		entries := collectEntries(dir, sets, algo)
		if len(entries) == 0 {
			continue
		}

		sumsPath := filepath.Join(dir, sumsFileName(algo))
		f, err := os.OpenFile(sumsPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, sidecarPermissions) // #nosec G304 -- dir is caller-chosen output location
		if err != nil {
			return written, fmt.Errorf("failed to create %s: %w", sumsPath, err)
		}
		werr := Write(f, entries, algo, format)
		cerr := f.Close()
		if werr != nil {
			return written, werr
		}
		if cerr != nil {
			return written, fmt.Errorf("failed to close %s: %w", sumsPath, cerr)
		}
		written = append(written, sumsPath)
	}
	return written, nil
}

func collectEntries(dir string, sets []*hashing.FileDigestSet, algo hashing.Algorithm) []Entry {
	var entries []Entry
	for _, set := range sets {
		d, ok := set.Get(algo)
		if !ok {
			continue
		}
		name := set.Path
		if rel, err := filepath.Rel(dir, set.Path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
		entries = append(entries, Entry{Filename: name, Hash: d.Hex})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	return entries
}

func sumsFileName(algo hashing.Algorithm) string {
	return algo.DisplayName() + "SUMS"
}
