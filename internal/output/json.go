package output

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/multisum/multisum/internal/compare"
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/verify"
)

// JSONRenderer writes results as indented JSON documents.
type JSONRenderer struct {
	w io.Writer
}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

type jsonDigestSet struct {
	Path    string            `json:"path"`
	Digests map[string]string `json:"digests"`
}

type jsonCandidate struct {
	Path       string            `json:"path"`
	Digests    map[string]string `json:"digests"`
	Matches    map[string]bool   `json:"matches"`
	Mismatches []string          `json:"mismatches,omitempty"`
}

type jsonComparison struct {
	Reference  jsonDigestSet   `json:"reference"`
	Candidates []jsonCandidate `json:"candidates"`
	AllMatch   bool            `json:"all_match"`
}

type jsonOutcome struct {
	Filename  string `json:"filename"`
	Target    string `json:"target"`
	Algorithm string `json:"algorithm"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type jsonReport struct {
	Path      string        `json:"path"`
	Algorithm string        `json:"algorithm"`
	Outcomes  []jsonOutcome `json:"outcomes"`
}

type jsonSummary struct {
	Directory        string       `json:"directory"`
	Reports          []jsonReport `json:"reports"`
	SkippedManifests []string     `json:"skipped_manifests,omitempty"`
	Matched          int          `json:"matched"`
	Mismatched       int          `json:"mismatched"`
	Missing          int          `json:"missing"`
	Errors           int          `json:"errors"`
	DurationMillis   int64        `json:"duration_ms"`
	OK               bool         `json:"ok"`
}

func (r *JSONRenderer) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func digestMap(set *hashing.FileDigestSet, algorithms []hashing.Algorithm) map[string]string {
	out := make(map[string]string, len(algorithms))
	for _, algo := range algorithms {
		if d, ok := set.Get(algo); ok {
			out[string(algo)] = d.Hex
		}
	}
	return out
}

// DigestSets encodes one object per file holding its digest map.
func (r *JSONRenderer) DigestSets(sets []*hashing.FileDigestSet, algorithms []hashing.Algorithm) error {
	docs := make([]jsonDigestSet, 0, len(sets))
	for _, set := range sets {
		docs = append(docs, jsonDigestSet{Path: set.Path, Digests: digestMap(set, algorithms)})
	}
	return r.encode(docs)
}

// Comparison encodes the full comparison result.
func (r *JSONRenderer) Comparison(result *compare.Result, algorithms []hashing.Algorithm) error {
	doc := jsonComparison{
		Reference: jsonDigestSet{
			Path:    result.Reference.Path,
			Digests: digestMap(result.Reference, algorithms),
		},
		AllMatch: result.AllMatch,
	}
	for _, cand := range result.Candidates {
		matches := make(map[string]bool, len(cand.Matches))
		for algo, ok := range cand.Matches {
			matches[string(algo)] = ok
		}
		doc.Candidates = append(doc.Candidates, jsonCandidate{
			Path:       cand.Path,
			Digests:    digestMap(cand.Digests, algorithms),
			Matches:    matches,
			Mismatches: cand.Mismatches,
		})
	}
	return r.encode(doc)
}

// Verification encodes the summary with per-entry outcomes.
func (r *JSONRenderer) Verification(summary *verify.Summary) error {
	doc := jsonSummary{
		Directory:        summary.Directory,
		SkippedManifests: summary.SkippedManifests,
		Matched:          summary.Matched,
		Mismatched:       summary.Mismatched,
		Missing:          summary.Missing,
		Errors:           summary.Errors,
		DurationMillis:   summary.Duration.Milliseconds(),
		OK:               summary.OK(),
	}
	for _, report := range summary.Reports {
		jr := jsonReport{
			Path:      report.Path,
			Algorithm: string(report.Algorithm),
		}
		for _, outcome := range report.Outcomes {
			jo := jsonOutcome{
				Filename:  outcome.Filename,
				Target:    outcome.Target,
				Algorithm: string(outcome.Algorithm),
				Expected:  outcome.Expected,
				Actual:    outcome.Actual,
				Status:    string(outcome.Status),
			}
			if outcome.Err != nil {
				jo.Error = outcome.Err.Error()
			}
			jr.Outcomes = append(jr.Outcomes, jo)
		}
		doc.Reports = append(doc.Reports, jr)
	}
	return r.encode(doc)
}
