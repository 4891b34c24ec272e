package cborbody

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Extract reads the body of r as CBOR into a value of type T, using the
// configuration attached to the request context (see WithConfig) or
// DefaultConfig.
//
// On failure it returns the result of the configured ErrorHandler, or the
// *Error itself when there is none.
func Extract[T any](r *http.Request) (T, error) {
	var v T
	if err := Decode(r, &v); err != nil {
		var zero T
		return zero, err
	}

	return v, nil
}

// Decode is the non-generic form of Extract; v must be a non-nil pointer.
func Decode(r *http.Request, v any) error {
	cfg := configFor(r)

	n, err := decode(r, cfg, v)
	if err == nil {
		cfg.Metrics.observeSuccess(n)
		return nil
	}

	var perr *Error
	if !errors.As(err, &perr) {
		perr = &Error{Kind: KindPayload, Err: err}
	}

	logger.WithFields(logrus.Fields{
		"path": r.URL.Path,
		"kind": perr.Kind.String(),
	}).Debug("Failed to deserialize CBOR from payload")

	cfg.Metrics.observeFailure(perr.Kind)

	if cfg.ErrorHandler != nil {
		if herr := cfg.ErrorHandler(perr, r); herr != nil {
			return herr
		}
	}

	return perr
}

func decode(r *http.Request, cfg Config, v any) (int, error) {
	if err := checkContentType(r, cfg.ContentType); err != nil {
		return 0, err
	}

	body, err := readBody(r.Context(), r, cfg)
	if err != nil {
		return 0, err
	}

	if err := unmarshal(cfg.Codec, body, v); err != nil {
		return 0, err
	}

	return len(body), nil
}
