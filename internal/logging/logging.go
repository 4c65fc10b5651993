// Package logging configures the process-wide slog logger: a text handler on
// stderr, an optional log file receiving the same records, and a run ID
// attached to every record so concurrent runs writing to a shared log file
// stay distinguishable.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
)

const logFilePermissions = 0o600

// Options configures Setup.
type Options struct {
	// Level is the minimum record level.
	Level slog.Level
	// File receives log records in addition to Writer when non-empty.
	File string
	// RunID is attached to every record; see GenerateRunID.
	RunID string
	// Writer is the primary destination, os.Stderr when nil.
	Writer io.Writer
}

// GenerateRunID returns a ULID identifying one execution run. ULIDs sort by
// creation time, which keeps interleaved log files greppable in order.
func GenerateRunID() string {
	return ulid.Make().String()
}

// ParseLevel maps a configuration level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup installs the default slog logger. The returned closer releases the
// log file, if one was opened, and must be called at process exit.
func Setup(opts Options) (func() error, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	handlers := []slog.Handler{slog.NewTextHandler(writer, handlerOpts)}

	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec G304 -- log path is chosen by the operator
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, handlerOpts))
		closer = f.Close
	}

	var handler slog.Handler
	if len(handlers) == 1 {
		handler = handlers[0]
	} else {
		handler = NewMultiHandler(handlers...)
	}
	if opts.RunID != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("run_id", opts.RunID)})
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}
