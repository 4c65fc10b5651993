// Package color provides small helpers for coloring terminal output using
// ANSI escape sequences. A Palette is either live or inert, so callers
// apply colors unconditionally and let construction decide whether escape
// sequences are emitted.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color wraps text with ANSI escape sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// plain returns text unchanged.
func plain(text string) string { return text }

// Palette groups the colors used for result rendering.
type Palette struct {
	Green  Color
	Yellow Color
	Red    Color
	Cyan   Color
	Gray   Color
}

// NewPalette returns live colors when enabled and identity functions
// otherwise.
func NewPalette(enabled bool) Palette {
	if !enabled {
		return Palette{Green: plain, Yellow: plain, Red: plain, Cyan: plain, Gray: plain}
	}
	return Palette{
		Green:  NewColor(greenCode),
		Yellow: NewColor(yellowCode),
		Red:    NewColor(redCode),
		Cyan:   NewColor(cyanCode),
		Gray:   NewColor(grayCode),
	}
}
