package output

import (
	"encoding/csv"
	"io"

	"github.com/multisum/multisum/internal/compare"
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/verify"
)

// CSVRenderer writes results as flat records, one row per file/algorithm
// pair, with a header row.
type CSVRenderer struct {
	w io.Writer
}

// NewCSVRenderer creates a CSV renderer.
func NewCSVRenderer(w io.Writer) *CSVRenderer {
	return &CSVRenderer{w: w}
}

func (r *CSVRenderer) writeAll(records [][]string) error {
	cw := csv.NewWriter(r.w)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// DigestSets emits file,algorithm,digest rows.
func (r *CSVRenderer) DigestSets(sets []*hashing.FileDigestSet, algorithms []hashing.Algorithm) error {
	records := [][]string{{"file", "algorithm", "digest"}}
	for _, set := range sets {
		for _, algo := range algorithms {
			if d, ok := set.Get(algo); ok {
				records = append(records, []string{set.Path, string(algo), d.Hex})
			}
		}
	}
	return r.writeAll(records)
}

// Comparison emits one row per candidate/algorithm pair with the reference
// digest alongside.
func (r *CSVRenderer) Comparison(result *compare.Result, algorithms []hashing.Algorithm) error {
	records := [][]string{{"file", "algorithm", "reference_digest", "digest", "match"}}
	for _, cand := range result.Candidates {
		for _, algo := range algorithms {
			ref, _ := result.Reference.Get(algo)
			got, _ := cand.Digests.Get(algo)
			match := "false"
			if cand.Matches[algo] {
				match = "true"
			}
			records = append(records, []string{cand.Path, string(algo), ref.Hex, got.Hex, match})
		}
	}
	return r.writeAll(records)
}

// Verification emits one row per reconciled entry.
func (r *CSVRenderer) Verification(summary *verify.Summary) error {
	records := [][]string{{"manifest", "filename", "algorithm", "status", "expected", "actual"}}
	for _, report := range summary.Reports {
		for _, outcome := range report.Outcomes {
			records = append(records, []string{
				report.Path,
				outcome.Filename,
				string(outcome.Algorithm),
				string(outcome.Status),
				outcome.Expected,
				outcome.Actual,
			})
		}
	}
	return r.writeAll(records)
}
