package cborbody

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind identifies which stage of extraction or encoding failed.
type Kind int

const (
	// KindContentType means the Content-Type header was absent, malformed or rejected.
	KindContentType Kind = iota + 1
	// KindOverflow means the body was larger than the configured limit.
	KindOverflow
	// KindPayload means reading (or decompressing) the body failed.
	KindPayload
	// KindDeserialize means the body was not a valid encoding of the target type.
	KindDeserialize
	// KindSerialize means a response value could not be encoded.
	KindSerialize
)

func (k Kind) String() string {
	switch k {
	case KindContentType:
		return "content_type"
	case KindOverflow:
		return "overflow"
	case KindPayload:
		return "payload"
	case KindDeserialize:
		return "deserialize"
	case KindSerialize:
		return "serialize"
	default:
		return "unknown"
	}
}

// Error is returned by every extraction and encoding step of this package.
// Err carries the underlying stream or codec fault, if any.
type Error struct {
	Kind Kind
	Err  error
}

// ErrContentType and ErrOverflow are match targets for errors.Is. Failures
// are reported with fresh *Error values, never with these.
var (
	// ErrContentType matches errors for media types that are not accepted.
	ErrContentType = &Error{Kind: KindContentType}
	// ErrOverflow matches errors for bodies that exceed the configured limit.
	ErrOverflow = &Error{Kind: KindOverflow}
)

func (e *Error) Error() string {
	if e == nil {
		return "cbor error"
	}

	switch e.Kind {
	case KindContentType:
		return "content type error"
	case KindOverflow:
		return "cbor payload size is bigger than allowed"
	case KindPayload:
		return withCause("error reading cbor payload", e.Err)
	case KindDeserialize:
		return withCause("cbor deserialize error", e.Err)
	case KindSerialize:
		return withCause("cbor serialize error", e.Err)
	default:
		return withCause("cbor error", e.Err)
	}
}

func withCause(msg string, err error) string {
	if err == nil {
		return msg
	}

	return fmt.Sprintf("%s: %v", msg, err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Is reports whether target is an *Error of the same kind with no cause,
// so errors.Is(err, ErrOverflow) matches any overflow.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}

	return t.Err == nil && t.Kind == e.Kind
}

// StatusCode is the default HTTP status for the error kind. Extraction
// faults are all client errors.
func (e *Error) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindContentType:
		return http.StatusUnsupportedMediaType
	case KindOverflow:
		return http.StatusRequestEntityTooLarge
	case KindPayload, KindDeserialize:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ResponseError is an application error that carries the complete response
// to send. Custom error handlers return it to control status, headers and body.
type ResponseError struct {
	Err    error
	Status int
	Header http.Header
	Body   []byte
}

// NewResponseError wraps err with a response of the given status and body.
func NewResponseError(err error, status int, body []byte) *ResponseError {
	return &ResponseError{Err: err, Status: status, Body: body}
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return http.StatusText(e.Status)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status the response is written with.
func (e *ResponseError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}

	return e.Status
}

// WriteError writes err to w. A *ResponseError is written verbatim, an error
// exposing StatusCode() is written with its message as a text/plain body
// (server errors get only the status text), anything else is a bare 500.
func WriteError(w http.ResponseWriter, err error) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		for k, vs := range respErr.Header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}

		w.WriteHeader(respErr.StatusCode())

		if len(respErr.Body) > 0 {
			_, _ = w.Write(respErr.Body)
		}

		return
	}

	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		status := coded.StatusCode()
		if status >= http.StatusInternalServerError {
			http.Error(w, http.StatusText(status), status)
			return
		}

		http.Error(w, err.Error(), status)

		return
	}

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// DecompressionError is returned when a supported Content-Encoding fails to decode.
type DecompressionError struct {
	Encoding string
	Err      error
}

func decompressionErrorMessage(encoding string) string {
	return fmt.Sprintf("Content-Encoding: %s set but unable to decompress body", encoding)
}

func (e *DecompressionError) Error() string {
	if e == nil {
		return "Content-Encoding decode error"
	}

	if e.Err == nil {
		return decompressionErrorMessage(e.Encoding)
	}

	return fmt.Sprintf("%s: %v", decompressionErrorMessage(e.Encoding), e.Err)
}

func (e *DecompressionError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

type errorWrappingReadCloser struct {
	rc       io.ReadCloser
	encoding string
}

// io.ReadCloser passthrough should preserve upstream errors.
//
//nolint:wrapcheck
func (r *errorWrappingReadCloser) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		var decErr *DecompressionError
		if errors.As(err, &decErr) {
			return n, err
		}

		// Faults of the raw body pass through so an outer MaxBytesReader
		// is still recognized.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return n, err
		}

		return n, &DecompressionError{Encoding: r.encoding, Err: err}
	}

	return n, err
}

// io.Closer passthrough should preserve upstream errors.
//
//nolint:wrapcheck
func (r *errorWrappingReadCloser) Close() error {
	return r.rc.Close()
}
