// Package output renders digest, comparison, and verification results in
// text, JSON, or CSV form. Renderers only format; they never compute.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/multisum/multisum/internal/compare"
	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/verify"
)

// Format selects a renderer.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedOutputFormat is returned for format names outside the
// supported set.
var ErrUnsupportedOutputFormat = errors.New("unsupported output format")

// ParseFormat converts a configuration string into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOutputFormat, name)
	}
}

// Renderer formats results for one of the three run modes. Algorithms are
// passed explicitly so digests render in the enabled order rather than map
// order.
type Renderer interface {
	DigestSets(sets []*hashing.FileDigestSet, algorithms []hashing.Algorithm) error
	Comparison(result *compare.Result, algorithms []hashing.Algorithm) error
	Verification(summary *verify.Summary) error
}

// Options carries renderer settings shared across formats. Only the text
// renderer uses Color and the message fields.
type Options struct {
	Color           bool
	MatchMessage    string
	MismatchMessage string
}

// New builds the renderer for a format.
func New(format Format, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case FormatText:
		return NewTextRenderer(w, opts), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	case FormatCSV:
		return NewCSVRenderer(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOutputFormat, format)
	}
}
