package cborbody

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := Config{Metrics: m}
	req := newRequest(t, MediaType, testBytes(t), &ok)
	_, err := Extract[testObject](req)
	require.NoError(t, err)

	small := Config{Metrics: m, Limit: 10}
	req = newRequest(t, MediaType, testBytes(t), &small)
	_, err = Extract[testObject](req)
	require.ErrorIs(t, err, ErrOverflow)

	req = newRequest(t, "text/plain", testBytes(t), &ok)
	_, err = Extract[testObject](req)
	require.ErrorIs(t, err, ErrContentType)

	require.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("overflow")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("content_type")))
	require.Equal(t, 1, testutil.CollectAndCount(m.bodySize))

	count, err := testutil.GatherAndCount(reg, "cbor_body_extractions_total")
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.observeSuccess(10)
	m.observeFailure(KindPayload)
}
