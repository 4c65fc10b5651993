//go:build !linux

package hashing

import (
	"context"
	"io"
	"os"
)

// mmapStrategy is unavailable on this platform; the hasher always falls back
// to buffered reads.
type mmapStrategy struct{}

var _ readStrategy = mmapStrategy{}

func (mmapStrategy) stream(_ context.Context, _ *os.File, _ int64, _ int, _ io.Writer) error {
	return errMmapUnavailable
}
