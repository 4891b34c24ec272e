package cborbody

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveConfigFieldByField(t *testing.T) {
	handler := func(err *Error, _ *http.Request) error { return err }
	defaults := DefaultConfig().WithErrorHandler(handler)

	got := ResolveConfig(Config{Limit: 10}, defaults)
	require.EqualValues(t, 10, got.Limit)
	require.True(t, got.ContentType(MediaType))
	require.False(t, got.ContentType("text/plain"))
	require.NotNil(t, got.ErrorHandler)
	require.Equal(t, DefaultCodec, got.Codec)
	require.False(t, got.DisableDecompression)

	got = ResolveConfig(Config{}, defaults)
	require.EqualValues(t, DefaultLimit, got.Limit)

	got = ResolveConfig(Config{DisableDecompression: true, ContentType: AcceptMediaTypes("text/plain")}, defaults)
	require.True(t, got.DisableDecompression)
	require.True(t, got.ContentType("text/plain"))
	require.False(t, got.ContentType(MediaType))
	require.EqualValues(t, DefaultLimit, got.Limit)
}

func TestConfigFromContext(t *testing.T) {
	_, ok := ConfigFromContext(context.Background())
	require.False(t, ok)

	ctx := ContextWithConfig(context.Background(), Config{Limit: 42})
	cfg, ok := ConfigFromContext(ctx)
	require.True(t, ok)
	require.EqualValues(t, 42, cfg.Limit)
	require.NotNil(t, cfg.ContentType)
	require.NotNil(t, cfg.Codec)
}

func TestWithConfigNested(t *testing.T) {
	var got Config

	inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = configFor(r)
	})

	outer := Config{Limit: 1024, ContentType: AcceptMediaTypes("application/x-cbor")}
	route := Config{Limit: 64}

	h := WithConfig(outer)(WithConfig(route)(inner))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	require.EqualValues(t, 64, got.Limit)
	require.True(t, got.ContentType("application/x-cbor"))
	require.False(t, got.ContentType(MediaType))
}

func TestConfigForWithoutContext(t *testing.T) {
	cfg := configFor(httptest.NewRequest(http.MethodPost, "/", nil))
	require.EqualValues(t, DefaultLimit, cfg.Limit)
	require.Nil(t, cfg.ErrorHandler)
	require.Nil(t, cfg.Metrics)
}

func TestAcceptMediaTypes(t *testing.T) {
	accept := AcceptMediaTypes("application/cbor", "Application/X-CBOR; foo=bar", "not a type;;")

	require.True(t, accept("application/cbor"))
	require.True(t, accept("application/x-cbor"))
	require.True(t, accept("APPLICATION/CBOR"))
	require.False(t, accept("application/json"))
	require.False(t, accept("not a type"))
}
