package hashing

import (
	"context"
	"errors"
	"io"
	"os"
)

// readStrategy streams a file's content into dst in chunkSize pieces. The
// two implementations (buffered, memory-mapped) honor the identical
// chunked-update contract, so accumulators see the same byte sequence either
// way.
type readStrategy interface {
	stream(ctx context.Context, f *os.File, size int64, chunkSize int, dst io.Writer) error
}

// bufferedStrategy reads through the file descriptor with a fixed-size
// buffer. It is the universal fallback and the only strategy for small
// files.
type bufferedStrategy struct{}

var _ readStrategy = bufferedStrategy{}

func (bufferedStrategy) stream(ctx context.Context, f *os.File, _ int64, chunkSize int, dst io.Writer) error {
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
