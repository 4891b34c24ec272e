package cborbody

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// decompress wraps body in a decoder for the given Content-Encoding. It
// supports gzip, deflate and zstd; identity and unknown encodings are passed
// through unchanged. Decoder faults, at construction or while reading, are
// reported as *DecompressionError.
func decompress(body io.Reader, encoding string) (io.ReadCloser, error) {
	switch encoding = strings.ToLower(strings.TrimSpace(encoding)); encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, &DecompressionError{Encoding: encoding, Err: err}
		}

		return &errorWrappingReadCloser{rc: zr, encoding: encoding}, nil

	case "deflate":
		zr, err := zlib.NewReader(body)
		if err != nil {
			return nil, &DecompressionError{Encoding: encoding, Err: err}
		}

		return &errorWrappingReadCloser{rc: zr, encoding: encoding}, nil

	case "zstd":
		// One decoder per request; the concurrent decoder would start
		// goroutines we have no use for on a single stream.
		dec, err := zstd.NewReader(body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, &DecompressionError{Encoding: encoding, Err: err}
		}

		return &errorWrappingReadCloser{rc: dec.IOReadCloser(), encoding: encoding}, nil
	}

	return io.NopCloser(body), nil
}
