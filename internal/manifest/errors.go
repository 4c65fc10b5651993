package manifest

import "errors"

var (
	// ErrNoEntries indicates that no checksum entry could be extracted from a
	// manifest. The manifest is reported and skipped, never fatal to a run.
	ErrNoEntries = errors.New("no entries parsed from manifest")

	// ErrUnsupportedFormat indicates an unknown manifest write format.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
)
