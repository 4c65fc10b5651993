package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRunIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateRunID()
		assert.Len(t, id, 26)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate run ID %s", id)
		seen[id] = struct{}{}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "info", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "verbose", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupWritesRunIDAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	closer, err := Setup(Options{
		Level:  slog.LevelInfo,
		RunID:  "01TESTRUNID",
		Writer: &buf,
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	slog.Debug("suppressed")
	slog.Info("visible", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "run_id=01TESTRUNID")
	assert.Contains(t, out, "key=value")
}

func TestSetupMirrorsToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	var buf bytes.Buffer
	closer, err := Setup(Options{
		Level:  slog.LevelInfo,
		File:   logPath,
		Writer: &buf,
	})
	require.NoError(t, err)

	slog.Info("mirrored record")
	require.NoError(t, closer())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mirrored record")
	assert.Contains(t, buf.String(), "mirrored record")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	logger := slog.New(h)
	logger.Info("info record")
	logger.Error("error record")

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.Contains(t, a.String(), "info record")
	assert.Contains(t, a.String(), "error record")
	assert.NotContains(t, b.String(), "info record")
	assert.Contains(t, b.String(), "error record")
	assert.Equal(t, 2, strings.Count(a.String(), "\n"))
}
