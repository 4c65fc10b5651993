// Package terminal decides whether colored output should be emitted. It
// combines the configured color mode with environment conventions
// (NO_COLOR, CLICOLOR, CLICOLOR_FORCE), CI detection, and a TTY check on
// the destination stream.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode controls how the color decision is made.
type Mode string

// Supported color modes.
const (
	// ModeAuto enables color when the output stream looks like an
	// interactive color-capable terminal.
	ModeAuto Mode = "auto"
	// ModeAlways enables color unconditionally.
	ModeAlways Mode = "always"
	// ModeNever disables color unconditionally.
	ModeNever Mode = "never"
)

// ErrUnknownColorMode is returned by ParseMode for unrecognized mode names.
var ErrUnknownColorMode = errors.New("unknown color mode")

// ParseMode converts a configuration string into a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "auto", "":
		return ModeAuto, nil
	case "always":
		return ModeAlways, nil
	case "never":
		return ModeNever, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColorMode, name)
	}
}

// ciEnvVars lists environment variables commonly set by CI systems. Output
// produced under CI is treated as non-interactive even when a pseudo-TTY
// is attached.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"TRAVIS",
	"CIRCLECI",
	"JENKINS_URL",
	"BUILD_NUMBER",
	"GITLAB_CI",
	"APPVEYOR",
	"BUILDKITE",
	"DRONE",
	"TF_BUILD",
}

// colorTerminals lists TERM values (or prefixes) known to support basic
// ANSI colors.
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
}

// FdWriter is satisfied by *os.File and any writer backed by a file
// descriptor, which is what the TTY check needs.
type FdWriter interface {
	Fd() uintptr
}

// Detector answers whether a given output stream should receive colored
// text. The zero value uses the real process environment; tests override
// lookupEnv and isTerminal.
type Detector struct {
	mode       Mode
	lookupEnv  func(string) (string, bool)
	isTerminal func(fd int) bool
}

// Option customizes a Detector.
type Option func(*Detector)

// WithEnvLookup replaces the environment accessor used for NO_COLOR,
// CLICOLOR, CLICOLOR_FORCE, TERM, and CI detection.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(d *Detector) { d.lookupEnv = fn }
}

// WithTerminalCheck replaces the file-descriptor TTY check.
func WithTerminalCheck(fn func(fd int) bool) Option {
	return func(d *Detector) { d.isTerminal = fn }
}

// NewDetector creates a Detector for the given mode.
func NewDetector(mode Mode, opts ...Option) *Detector {
	d := &Detector{
		mode:       mode,
		lookupEnv:  os.LookupEnv,
		isTerminal: term.IsTerminal,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ColorEnabled reports whether output written to w should use ANSI colors.
// The decision order is:
//
//  1. configured mode, when not auto
//  2. CLICOLOR_FORCE set truthy
//  3. NO_COLOR set to any value, including empty
//  4. CLICOLOR, when the stream is interactive
//  5. interactive stream with a color-capable TERM
//
// A nil or non-file writer never gets color in auto mode.
func (d *Detector) ColorEnabled(w any) bool {
	switch d.mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}

	if v, ok := d.lookupEnv("CLICOLOR_FORCE"); ok && isTruthy(v) {
		return true
	}
	if _, ok := d.lookupEnv("NO_COLOR"); ok {
		return false
	}

	if !d.interactive(w) || !d.termSupportsColor() {
		return false
	}

	if v, ok := d.lookupEnv("CLICOLOR"); ok && v != "" {
		return isTruthy(v)
	}
	return true
}

// interactive reports whether w is a terminal and the process is not
// running under CI.
func (d *Detector) interactive(w any) bool {
	if d.inCIEnvironment() {
		return false
	}
	fw, ok := w.(FdWriter)
	if !ok {
		return false
	}
	return d.isTerminal(int(fw.Fd()))
}

func (d *Detector) inCIEnvironment() bool {
	for _, name := range ciEnvVars {
		v, ok := d.lookupEnv(name)
		if !ok || v == "" {
			continue
		}
		// CI=false and CI=0 opt out explicitly.
		if name == "CI" {
			lower := strings.ToLower(strings.TrimSpace(v))
			return lower != "false" && lower != "0" && lower != "no"
		}
		return true
	}
	return false
}

func (d *Detector) termSupportsColor() bool {
	v, ok := d.lookupEnv("TERM")
	if !ok || v == "" {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(v))
	if name == "dumb" {
		return false
	}
	for _, known := range colorTerminals {
		if name == known || strings.HasPrefix(name, known+"-") {
			return true
		}
	}
	// Unknown terminals stay uncolored rather than risk raw escapes.
	return false
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
