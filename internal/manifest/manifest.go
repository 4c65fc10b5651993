// Package manifest parses and generates checksum-manifest files in the
// sidecar format family: GNU lines ("hash  name", "hash *name"), BSD lines
// ("ALGO (name) = hash"), and single-line bare-hash files whose target name
// is derived from the manifest's own filename.
package manifest

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/multisum/multisum/internal/hashing"
)

// Entry is one declared checksum line: the target filename (relative or
// bare), the declared lowercase hex hash, and whether the line carried the
// legacy "*" binary-mode sigil. The sigil does not switch any behavior here
// but is preserved for round-trip fidelity.
type Entry struct {
	Filename     string
	Hash         string
	BinaryMarker bool
}

// File is a parsed checksum manifest: its path, the algorithm inferred from
// its extension, and the entries in file order.
type File struct {
	Path      string
	Algorithm hashing.Algorithm
	Entries   []Entry
}

// Format selects the on-disk manifest line format for writing.
type Format string

// Supported write formats.
const (
	FormatGNU Format = "gnu"
	FormatBSD Format = "bsd"
)

// bsdLine matches "ALGO (filename) = hash". The algorithm tag is informative
// only; the manifest's extension decides which algorithm is verified.
var bsdLine = regexp.MustCompile(`^([A-Za-z0-9-]+) \((.+)\) = ([0-9a-fA-F]+)$`)

// Parse decodes manifest text into a File. Blank lines and trailing
// whitespace are tolerated; unparseable lines are skipped. When no entry can
// be extracted at all the manifest is invalid and ErrNoEntries is returned.
//
// Grammar, in priority order:
//  1. Exactly one non-blank line without embedded whitespace: bare-hash form;
//     the target filename is the manifest filename with its algorithm
//     extension stripped.
//  2. "ALGO (filename) = hash": BSD form.
//  3. Any other line containing whitespace: GNU "hash  filename" form, with
//     an optional "*" binary marker before the filename.
func Parse(path string, text []byte, algo hashing.Algorithm) (*File, error) {
	lines := nonBlankLines(string(text))

	f := &File{Path: path, Algorithm: algo}

	if len(lines) == 1 && !strings.ContainsAny(lines[0], " \t") {
		if entry, ok := parseBareHash(path, lines[0], algo); ok {
			f.Entries = append(f.Entries, entry)
			return f, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoEntries, path)
	}

	for _, line := range lines {
		entry, ok := parseLine(line)
		if !ok {
			continue
		}
		f.Entries = append(f.Entries, entry)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEntries, path)
	}
	return f, nil
}

// nonBlankLines splits text into lines with trailing whitespace removed and
// blank lines dropped. Leading whitespace is also trimmed so that indented
// manifest lines (seen in hand-edited files) still parse.
func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseBareHash handles the single-line hash-only form. The declared hash
// must be hex and, when the algorithm is known, of the algorithm's exact hex
// length.
func parseBareHash(path, line string, algo hashing.Algorithm) (Entry, bool) {
	hash := strings.ToLower(line)
	if !isHex(hash) {
		return Entry{}, false
	}
	if algo.Known() && len(hash) != algo.HexLength() {
		return Entry{}, false
	}
	return Entry{
		Filename: TargetForBareManifest(path, algo),
		Hash:     hash,
	}, true
}

// parseLine decodes one BSD or GNU manifest line.
func parseLine(line string) (Entry, bool) {
	if m := bsdLine.FindStringSubmatch(line); m != nil {
		return Entry{
			Filename: m[2],
			Hash:     strings.ToLower(m[3]),
		}, true
	}

	// GNU form: split on the first run of whitespace.
	idx := strings.IndexAny(line, " \t")
	if idx <= 0 {
		return Entry{}, false
	}
	hash := strings.ToLower(line[:idx])
	if !isHex(hash) {
		return Entry{}, false
	}
	rest := strings.TrimLeft(line[idx:], " \t")
	if rest == "" {
		return Entry{}, false
	}

	entry := Entry{Hash: hash}
	if strings.HasPrefix(rest, "*") {
		entry.BinaryMarker = true
		rest = rest[1:]
	}
	if rest == "" {
		return Entry{}, false
	}
	entry.Filename = rest
	return entry, true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}

// Write serializes entries to w in the requested format, one entry per line,
// newline-terminated. GNU output round-trips with Parse, including binary
// markers; the BSD form has no marker syntax, so markers are dropped there.
//
// One GNU corner case cannot round-trip: a filename that itself begins with
// "*" and carries no binary marker writes as "hash  *name" and reads back as
// a marker with the "*" stripped. The format shares this ambiguity with
// coreutils md5sum, which resolves a leading "*" as the marker too.
func Write(w io.Writer, entries []Entry, algo hashing.Algorithm, format Format) error {
	for _, entry := range entries {
		var line string
		switch format {
		case FormatGNU:
			sep := "  "
			if entry.BinaryMarker {
				sep = " *"
			}
			line = strings.ToLower(entry.Hash) + sep + entry.Filename
		case FormatBSD:
			line = fmt.Sprintf("%s (%s) = %s", algo.DisplayName(), entry.Filename, strings.ToLower(entry.Hash))
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write manifest line: %w", err)
		}
	}
	return nil
}

// InferAlgorithm maps a manifest filename to the algorithm named by its
// extension (case-insensitive). It resolves through the same registry table
// as the hashing path, so a name that hashes also auto-detects.
func InferAlgorithm(path string) (hashing.Algorithm, bool) {
	ext := filepath.Ext(path)
	if len(ext) < 2 {
		return "", false
	}
	return hashing.Lookup(ext[1:])
}

// TargetForBareManifest derives the target filename for a bare-hash manifest
// by stripping the trailing algorithm extension from the manifest's own
// basename (e.g. "archive.tar.sha256" -> "archive.tar").
func TargetForBareManifest(manifestPath string, algo hashing.Algorithm) string {
	base := filepath.Base(manifestPath)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, "."+string(algo)) {
		return base[:len(base)-len(ext)]
	}
	return base
}
