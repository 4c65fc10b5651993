package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTTY satisfies FdWriter without being a real terminal.
type fakeTTY struct{}

func (fakeTTY) Fd() uintptr { return 1 }

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "auto", input: "auto", want: ModeAuto},
		{name: "always", input: "always", want: ModeAlways},
		{name: "never", input: "never", want: ModeNever},
		{name: "empty defaults to auto", input: "", want: ModeAuto},
		{name: "mixed case", input: "Always", want: ModeAlways},
		{name: "surrounding space", input: " never ", want: ModeNever},
		{name: "unknown", input: "rainbow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownColorMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorEnabledFixedModes(t *testing.T) {
	// NO_COLOR must not override an explicit "always", and a TTY must not
	// override an explicit "never".
	env := envFrom(map[string]string{"NO_COLOR": "", "TERM": "xterm"})
	tty := func(int) bool { return true }

	always := NewDetector(ModeAlways, WithEnvLookup(env), WithTerminalCheck(tty))
	assert.True(t, always.ColorEnabled(&bytes.Buffer{}))

	never := NewDetector(ModeNever, WithEnvLookup(env), WithTerminalCheck(tty))
	assert.False(t, never.ColorEnabled(fakeTTY{}))
}

func TestColorEnabledAuto(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		terminal bool
		writer   any
		want     bool
	}{
		{
			name:     "interactive color terminal",
			env:      map[string]string{"TERM": "xterm-256color"},
			terminal: true,
			writer:   fakeTTY{},
			want:     true,
		},
		{
			name:     "CLICOLOR_FORCE wins over pipe",
			env:      map[string]string{"CLICOLOR_FORCE": "1"},
			terminal: false,
			writer:   &bytes.Buffer{},
			want:     true,
		},
		{
			name:     "CLICOLOR_FORCE zero is ignored",
			env:      map[string]string{"CLICOLOR_FORCE": "0", "TERM": "xterm"},
			terminal: true,
			writer:   fakeTTY{},
			want:     true,
		},
		{
			name:     "NO_COLOR disables even on a TTY",
			env:      map[string]string{"NO_COLOR": "", "TERM": "xterm"},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "CLICOLOR_FORCE beats NO_COLOR",
			env:      map[string]string{"CLICOLOR_FORCE": "1", "NO_COLOR": ""},
			terminal: false,
			writer:   &bytes.Buffer{},
			want:     true,
		},
		{
			name:     "CLICOLOR=0 opts out on a TTY",
			env:      map[string]string{"CLICOLOR": "0", "TERM": "xterm"},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "CI environment suppresses color",
			env:      map[string]string{"CI": "true", "TERM": "xterm"},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "CI=false is not CI",
			env:      map[string]string{"CI": "false", "TERM": "xterm"},
			terminal: true,
			writer:   fakeTTY{},
			want:     true,
		},
		{
			name:     "GitHub Actions suppresses color",
			env:      map[string]string{"GITHUB_ACTIONS": "true", "TERM": "xterm"},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "dumb terminal",
			env:      map[string]string{"TERM": "dumb"},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "unknown terminal stays plain",
			env:      map[string]string{"TERM": "mystery-term"},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "missing TERM",
			env:      map[string]string{},
			terminal: true,
			writer:   fakeTTY{},
			want:     false,
		},
		{
			name:     "pipe without fd",
			env:      map[string]string{"TERM": "xterm"},
			terminal: true,
			writer:   &bytes.Buffer{},
			want:     false,
		},
		{
			name:     "fd that is not a tty",
			env:      map[string]string{"TERM": "xterm"},
			terminal: false,
			writer:   fakeTTY{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(ModeAuto,
				WithEnvLookup(envFrom(tt.env)),
				WithTerminalCheck(func(int) bool { return tt.terminal }),
			)
			assert.Equal(t, tt.want, d.ColorEnabled(tt.writer))
		})
	}
}
