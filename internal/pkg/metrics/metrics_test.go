package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveLoad(t *testing.T) {
	m := New(prometheus.NewRegistry())
	require.NotNil(t, m)

	m.ObserveLoad("GZIP", 100, 400)
	m.ObserveLoad("GZIP", 50, 200)
	m.ObserveLoad("NONE", 10, 10)

	require.Equal(t, float64(2), testutil.ToFloat64(m.BucketsLoaded.WithLabelValues("GZIP")))
	require.Equal(t, float64(150), testutil.ToFloat64(m.PayloadBytes.WithLabelValues("GZIP")))
	require.Equal(t, float64(600), testutil.ToFloat64(m.DecompressedBytes.WithLabelValues("GZIP")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.BucketsLoaded.WithLabelValues("NONE")))
}

func TestMetrics_ObserveBulkSkip(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBulkSkip("LZ4", 1024, 10)
	m.ObserveSkipped(3)

	require.Equal(t, float64(1), testutil.ToFloat64(m.BucketsSkipped))
	require.Equal(t, float64(13), testutil.ToFloat64(m.RecordsSkipped))
	require.Equal(t, float64(1024), testutil.ToFloat64(m.PayloadBytes.WithLabelValues("LZ4")))
	require.Zero(t, testutil.ToFloat64(m.DecompressedBytes.WithLabelValues("LZ4")))
}

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRead()
	m.ObserveRead()
	m.ObserveNoise(17)
	m.ObserveNoise(0)
	m.ObserveMalformed()
	m.ObserveTruncated()

	require.Equal(t, float64(2), testutil.ToFloat64(m.RecordsRead))
	require.Equal(t, float64(1), testutil.ToFloat64(m.TruncatedBuckets))
	require.Equal(t, float64(17), testutil.ToFloat64(m.NoiseBytes))
	require.Equal(t, float64(1), testutil.ToFloat64(m.MalformedHeaders))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveLoad("NONE", 1, 1)
		m.ObserveBulkSkip("NONE", 1, 1)
		m.ObserveSkipped(1)
		m.ObserveRead()
		m.ObserveNoise(1)
		m.ObserveMalformed()
		m.ObserveTruncated()
	})
}

func TestMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	require.Panics(t, func() { New(reg) })
}
