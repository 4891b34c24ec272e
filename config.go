package cborbody

import (
	"context"
	"mime"
	"net/http"
	"strings"
)

// DefaultLimit is the maximum body size accepted when no limit is configured.
const DefaultLimit = 256 << 10

// ErrorHandler turns an extraction failure into the application error the
// caller sees. It is called exactly once per failed extraction. If it
// returns nil, the *Error it was given is returned instead. The *Error is
// owned by the failed request and may be kept or modified.
type ErrorHandler func(err *Error, r *http.Request) error

// Config controls how request bodies are extracted. Zero fields are
// inherited from the enclosing configuration, see ResolveConfig.
//
// A Config must not be modified once it has been attached to requests.
type Config struct {
	// Limit is the maximum body size in bytes after decompression.
	Limit int64
	// ContentType reports whether a media type (lowercased, without
	// parameters) is accepted.
	ContentType func(mediaType string) bool
	// ErrorHandler, when set, replaces the default error for every
	// failed extraction.
	ErrorHandler ErrorHandler
	// DisableDecompression reads bodies as-is regardless of Content-Encoding.
	DisableDecompression bool
	// Codec decodes accumulated bodies; Handle also encodes responses with it.
	Codec Codec
	// Metrics records extraction outcomes.
	Metrics *Metrics
}

// DefaultConfig returns the configuration used when a request carries none.
func DefaultConfig() Config {
	return Config{
		Limit:       DefaultLimit,
		ContentType: IsCBOR,
		Codec:       DefaultCodec,
	}
}

// WithLimit returns a copy of c with the body limit set to n bytes.
func (c Config) WithLimit(n int64) Config {
	c.Limit = n
	return c
}

// WithContentType returns a copy of c accepting the media types matched by fn.
func (c Config) WithContentType(fn func(mediaType string) bool) Config {
	c.ContentType = fn
	return c
}

// WithErrorHandler returns a copy of c using h for extraction failures.
func (c Config) WithErrorHandler(h ErrorHandler) Config {
	c.ErrorHandler = h
	return c
}

// ResolveConfig merges route over defaults field by field: every field set
// on route wins, every zero field falls back to defaults.
func ResolveConfig(route, defaults Config) Config {
	out := defaults

	if route.Limit > 0 {
		out.Limit = route.Limit
	}

	if route.ContentType != nil {
		out.ContentType = route.ContentType
	}

	if route.ErrorHandler != nil {
		out.ErrorHandler = route.ErrorHandler
	}

	if route.DisableDecompression {
		out.DisableDecompression = true
	}

	if route.Codec != nil {
		out.Codec = route.Codec
	}

	if route.Metrics != nil {
		out.Metrics = route.Metrics
	}

	return out
}

type configKey struct{}

// ContextWithConfig returns a context carrying cfg, resolved against the
// configuration already present in ctx or DefaultConfig.
func ContextWithConfig(ctx context.Context, cfg Config) context.Context {
	base, ok := ConfigFromContext(ctx)
	if !ok {
		base = DefaultConfig()
	}

	resolved := ResolveConfig(cfg, base)

	return context.WithValue(ctx, configKey{}, &resolved)
}

// ConfigFromContext returns the configuration attached to ctx, if any.
func ConfigFromContext(ctx context.Context) (Config, bool) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return Config{}, false
	}

	return *cfg, true
}

// WithConfig returns middleware attaching cfg to every request it serves.
// Nested uses override the outer configuration field by field, so the
// outermost one acts as the process-wide default.
func WithConfig(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithConfig(r.Context(), cfg)))
		})
	}
}

func configFor(r *http.Request) Config {
	if cfg, ok := ConfigFromContext(r.Context()); ok {
		// Guard against a partially filled Config stored by hand.
		return ResolveConfig(cfg, DefaultConfig())
	}

	return DefaultConfig()
}

// IsCBOR reports whether mediaType is exactly MediaType.
func IsCBOR(mediaType string) bool {
	return mediaType == MediaType
}

// AcceptMediaTypes returns a predicate accepting exactly the given media
// types. Parameters are ignored and comparison is case-insensitive;
// unparsable entries are skipped.
func AcceptMediaTypes(types ...string) func(mediaType string) bool {
	set := make(map[string]struct{}, len(types))

	for _, t := range types {
		mt, _, err := mime.ParseMediaType(t)
		if err != nil {
			continue
		}

		set[mt] = struct{}{}
	}

	return func(mediaType string) bool {
		_, ok := set[strings.ToLower(mediaType)]
		return ok
	}
}
