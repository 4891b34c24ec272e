package cborbody

import (
	"context"
	"io"
)

// DefaultChunkSize is the read size used by NewReaderSource when none is given.
const DefaultChunkSize = 32 << 10

const maxConsecutiveEmptyReads = 100

// ChunkSource yields a body as a sequence of chunks. Next returns io.EOF once
// the body is exhausted and any other error on a fault. The returned slice is
// only valid until the next call.
type ChunkSource interface {
	Next(ctx context.Context) ([]byte, error)
}

type readerSource struct {
	r   io.Reader
	buf []byte
	err error
}

// NewReaderSource returns a ChunkSource reading r in chunks of at most
// chunkSize bytes. A chunkSize <= 0 selects DefaultChunkSize.
func NewReaderSource(r io.Reader, chunkSize int) ChunkSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &readerSource{r: r, buf: make([]byte, chunkSize)}
}

func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		if err := ctx.Err(); err != nil {
			s.err = err
			return nil, err
		}

		n, err := s.r.Read(s.buf)
		if err != nil {
			// Sticky: a reader may return data and an error together.
			s.err = err
		}

		if n > 0 {
			return s.buf[:n], nil
		}

		if err != nil {
			return nil, err
		}
	}

	s.err = io.ErrNoProgress

	return nil, s.err
}
