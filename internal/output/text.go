package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/multisum/multisum/internal/color"
	"github.com/multisum/multisum/internal/compare"
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/verify"
)

const blockSeparator = "--------------------------------------"

// TextRenderer writes human-readable result blocks, optionally colored.
type TextRenderer struct {
	w               io.Writer
	palette         color.Palette
	matchMessage    string
	mismatchMessage string
}

// NewTextRenderer creates a text renderer. Empty messages fall back to
// plain defaults.
func NewTextRenderer(w io.Writer, opts Options) *TextRenderer {
	matchMsg := opts.MatchMessage
	if matchMsg == "" {
		matchMsg = "all files share identical digests"
	}
	mismatchMsg := opts.MismatchMessage
	if mismatchMsg == "" {
		mismatchMsg = "digest mismatches detected"
	}
	return &TextRenderer{
		w:               w,
		palette:         color.NewPalette(opts.Color),
		matchMessage:    matchMsg,
		mismatchMessage: mismatchMsg,
	}
}

// DigestSets prints one block per file with the digests in algorithm order.
func (r *TextRenderer) DigestSets(sets []*hashing.FileDigestSet, algorithms []hashing.Algorithm) error {
	for i, set := range sets {
		if i > 0 {
			if _, err := fmt.Fprintln(r.w); err != nil {
				return err
			}
		}
		if err := r.digestBlock(set, algorithms); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) digestBlock(set *hashing.FileDigestSet, algorithms []hashing.Algorithm) error {
	width := 0
	for _, algo := range algorithms {
		if n := len(algo.DisplayName()); n > width {
			width = n
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", r.palette.Cyan(filepath.Base(set.Path)))
	b.WriteString(blockSeparator + "\n")
	for _, algo := range algorithms {
		d, ok := set.Get(algo)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-*s  %s\n", width+1, algo.DisplayName()+":", d.Hex)
	}
	b.WriteString(blockSeparator + "\n")
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Comparison prints the digest blocks of every file followed by a verdict
// line and, on mismatch, the per-candidate detail descriptions.
func (r *TextRenderer) Comparison(result *compare.Result, algorithms []hashing.Algorithm) error {
	sets := []*hashing.FileDigestSet{result.Reference}
	for _, cand := range result.Candidates {
		sets = append(sets, cand.Digests)
	}
	if err := r.DigestSets(sets, algorithms); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.w); err != nil {
		return err
	}

	if result.AllMatch {
		_, err := fmt.Fprintln(r.w, r.palette.Green(r.matchMessage))
		return err
	}

	if _, err := fmt.Fprintln(r.w, r.palette.Red(r.mismatchMessage)); err != nil {
		return err
	}
	var differing []string
	for _, cand := range result.Candidates {
		if len(cand.Mismatches) == 0 {
			continue
		}
		differing = append(differing, filepath.Base(cand.Path))
		for _, detail := range cand.Mismatches {
			if _, err := fmt.Fprintf(r.w, "  %s\n", detail); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(r.w, "files differing from %q: %s\n",
		filepath.Base(result.Reference.Path), strings.Join(differing, " "))
	return err
}

// statusLabel maps an entry status to its printed tag and color.
func (r *TextRenderer) statusLabel(status verify.Status) string {
	switch status {
	case verify.StatusMatched:
		return r.palette.Green("OK")
	case verify.StatusMismatched:
		return r.palette.Red("MISMATCH")
	case verify.StatusMissingTarget:
		return r.palette.Yellow("MISSING")
	case verify.StatusUnsupportedAlgorithm:
		return r.palette.Yellow("UNSUPPORTED")
	case verify.StatusReadError:
		return r.palette.Red("ERROR")
	default:
		return string(status)
	}
}

// Verification prints a per-manifest entry listing followed by totals.
func (r *TextRenderer) Verification(summary *verify.Summary) error {
	for _, report := range summary.Reports {
		name := filepath.Base(report.Path)
		if _, err := fmt.Fprintf(r.w, "%s (%s):\n", r.palette.Cyan(name), report.Algorithm.DisplayName()); err != nil {
			return err
		}
		for _, outcome := range report.Outcomes {
			if err := r.verifyLine(outcome); err != nil {
				return err
			}
		}
	}
	for _, skipped := range summary.SkippedManifests {
		if _, err := fmt.Fprintf(r.w, "%s %s\n", r.palette.Yellow("SKIP"), filepath.Base(skipped)); err != nil {
			return err
		}
	}

	if summary.Entries() == 0 && len(summary.SkippedManifests) == 0 {
		_, err := fmt.Fprintf(r.w, "no checksum manifests found in %s\n", summary.Directory)
		return err
	}

	verdict := r.palette.Green("ok")
	if !summary.OK() {
		verdict = r.palette.Red("failed")
	}
	_, err := fmt.Fprintf(r.w, "%s: %d entries in %s: %d matched, %d mismatched, %d missing, %d errors\n",
		verdict, summary.Entries(), summary.Duration.Round(time.Millisecond),
		summary.Matched, summary.Mismatched, summary.Missing, summary.Errors)
	return err
}

func (r *TextRenderer) verifyLine(outcome verify.Outcome) error {
	label := r.statusLabel(outcome.Status)
	switch outcome.Status {
	case verify.StatusMismatched:
		if _, err := fmt.Fprintf(r.w, "  %-11s %s\n", label, outcome.Filename); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(r.w, "              %s\n", r.palette.Gray("expected "+outcome.Expected)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(r.w, "              %s\n", r.palette.Gray("actual   "+outcome.Actual))
		return err
	case verify.StatusReadError:
		_, err := fmt.Fprintf(r.w, "  %-11s %s: %v\n", label, outcome.Filename, outcome.Err)
		return err
	default:
		_, err := fmt.Fprintf(r.w, "  %-11s %s\n", label, outcome.Filename)
		return err
	}
}
