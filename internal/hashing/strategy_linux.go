//go:build linux

package hashing

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mmapStrategy maps the whole file read-only and feeds it to the
// accumulators in chunkSize pieces. Mapping failures are reported as
// errMmapUnavailable so the hasher can fall back to buffered reads.
type mmapStrategy struct{}

var _ readStrategy = mmapStrategy{}

func (mmapStrategy) stream(ctx context.Context, f *os.File, size int64, chunkSize int, dst io.Writer) error {
	if size > math.MaxInt {
		return fmt.Errorf("%w: file too large to map", errMmapUnavailable)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("%w: %w", errMmapUnavailable, err)
	}
	defer func() {
		_ = unix.Munmap(data)
	}()

	for off := 0; off < len(data); off += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if _, err := dst.Write(data[off:end]); err != nil {
			return err
		}
	}
	return nil
}
