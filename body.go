package cborbody

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
)

// checkContentType fails with ErrContentType unless the request declares a
// media type accepted by accept. It never touches the body.
func checkContentType(r *http.Request, accept func(string) bool) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return &Error{Kind: KindContentType}
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return &Error{Kind: KindContentType}
	}

	if accept == nil || !accept(mt) {
		return &Error{Kind: KindContentType}
	}

	return nil
}

type accumulator struct {
	buf   []byte
	read  int64
	limit int64
}

func (a *accumulator) add(chunk []byte) error {
	a.read += int64(len(chunk))
	if a.read > a.limit {
		a.buf = nil
		return &Error{Kind: KindOverflow}
	}

	a.buf = append(a.buf, chunk...)

	return nil
}

func (a *accumulator) result() []byte {
	if a.buf == nil {
		return []byte{}
	}

	return a.buf
}

// Accumulate drains src into a single buffer of at most limit bytes.
//
// A declared length (negative when unknown) above limit fails with
// ErrOverflow before src is read. Otherwise the running total is checked
// after every chunk and the read stops with ErrOverflow as soon as it
// exceeds limit. A zero-length chunk ends the body like io.EOF. Source
// faults are reported as an *Error of KindPayload.
func Accumulate(ctx context.Context, src ChunkSource, declared, limit int64) ([]byte, error) {
	if declared > limit {
		return nil, &Error{Kind: KindOverflow}
	}

	acc := accumulator{limit: limit}
	if declared > 0 {
		acc.buf = make([]byte, 0, declared)
	}

	for {
		chunk, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return acc.result(), nil
			}

			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, &Error{Kind: KindOverflow}
			}

			return nil, &Error{Kind: KindPayload, Err: err}
		}

		if len(chunk) == 0 {
			return acc.result(), nil
		}

		if err := acc.add(chunk); err != nil {
			return nil, err
		}
	}
}

// readBody reads the request body under cfg's limit, decompressing it first
// unless decompression is disabled.
func readBody(ctx context.Context, r *http.Request, cfg Config) ([]byte, error) {
	// The declared length is checked before a decoder is built; gzip reads
	// its header eagerly.
	if r.ContentLength > cfg.Limit {
		return nil, &Error{Kind: KindOverflow}
	}

	body := r.Body
	if body == nil {
		body = http.NoBody
	}

	if !cfg.DisableDecompression {
		rc, err := decompress(body, r.Header.Get("Content-Encoding"))
		if err != nil {
			return nil, &Error{Kind: KindPayload, Err: err}
		}
		defer rc.Close()

		body = rc
	}

	chunkSize := DefaultChunkSize
	if cfg.Limit < int64(chunkSize) {
		// One extra byte so an overflow shows up within the first read.
		chunkSize = int(cfg.Limit) + 1
	}

	return Accumulate(ctx, NewReaderSource(body, chunkSize), r.ContentLength, cfg.Limit)
}
