// Package verify implements auto-verification: it discovers checksum
// manifests in a directory by extension, reconciles the declared digests
// against freshly computed ones, and aggregates the outcomes into a run
// summary. Failures are contained at entry/manifest granularity; nothing
// short of an unreadable directory aborts a run.
package verify

import (
	"time"

	"github.com/multisum/multisum/internal/hashing"
)

// Status classifies the outcome of reconciling a single manifest entry.
type Status string

// Entry outcome states.
const (
	StatusMatched              Status = "matched"
	StatusMismatched           Status = "mismatched"
	StatusMissingTarget        Status = "missing_target"
	StatusUnsupportedAlgorithm Status = "unsupported_algorithm"
	StatusReadError            Status = "read_error"
)

// Outcome pairs one manifest entry's declared digest with the computed one.
type Outcome struct {
	Manifest  string            // manifest file the entry came from
	Filename  string            // target filename as declared in the manifest
	Target    string            // resolved target path
	Algorithm hashing.Algorithm //
	Expected  string            // declared lowercase hex digest
	Actual    string            // computed digest, empty unless a hash was produced
	Status    Status            //
	Err       error             // underlying error for StatusReadError
}

// ManifestReport collects the outcomes of one manifest. A non-nil Err means
// the manifest was skipped before any entry was reconciled (unreadable or no
// parseable entries).
type ManifestReport struct {
	Path      string
	Algorithm hashing.Algorithm
	Outcomes  []Outcome
	Err       error
}

// Summary aggregates a whole auto-verify run. Every contained failure is
// counted; nothing disappears silently.
type Summary struct {
	Directory        string
	Reports          []ManifestReport
	SkippedManifests []string
	Matched          int
	Mismatched       int
	Missing          int
	Errors           int
	Duration         time.Duration
}

// OK reports whether every reconciled entry matched and no manifest was
// skipped for errors.
func (s *Summary) OK() bool {
	return s.Mismatched == 0 && s.Missing == 0 && s.Errors == 0 && len(s.SkippedManifests) == 0
}

// Entries returns the total number of reconciled entries.
func (s *Summary) Entries() int {
	return s.Matched + s.Mismatched + s.Missing + s.Errors
}
