package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for proio readers.
//
// A nil *Metrics is valid and records nothing.  One Metrics value may be
// shared by many readers.
type Metrics struct {
	BucketsLoaded     *prometheus.CounterVec
	BucketsSkipped    prometheus.Counter
	RecordsRead       prometheus.Counter
	RecordsSkipped    prometheus.Counter
	NoiseBytes        prometheus.Counter
	MalformedHeaders  prometheus.Counter
	TruncatedBuckets  prometheus.Counter
	PayloadBytes      *prometheus.CounterVec
	DecompressedBytes *prometheus.CounterVec
}

// New creates and registers all metrics with the provided registry.
func New(reg prometheus.Registerer) *Metrics {
	bucketsLoaded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proio_reader_buckets_loaded_total",
		Help: "Buckets decompressed for record level reads",
	}, []string{"compression"})

	bucketsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proio_reader_buckets_skipped_total",
		Help: "Buckets discarded whole without decompression",
	})

	recordsRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proio_reader_records_read_total",
		Help: "Records returned to the caller",
	})

	recordsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proio_reader_records_skipped_total",
		Help: "Records discarded by Skip, in bulk or one at a time",
	})

	noiseBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proio_reader_noise_bytes_total",
		Help: "Bytes discarded while searching for a bucket magic sequence",
	})

	malformedHeaders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proio_reader_malformed_headers_total",
		Help: "Bucket headers that failed to decode and forced a resync",
	})

	truncatedBuckets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proio_reader_truncated_buckets_total",
		Help: "Buckets that ended on a partial record frame",
	})

	payloadBytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proio_reader_payload_bytes_total",
		Help: "Bucket payload bytes read or skipped from the stream",
	}, []string{"compression"})

	decompressedBytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proio_reader_decompressed_bytes_total",
		Help: "Bytes produced by bucket decompression",
	}, []string{"compression"})

	reg.MustRegister(
		bucketsLoaded,
		bucketsSkipped,
		recordsRead,
		recordsSkipped,
		noiseBytes,
		malformedHeaders,
		truncatedBuckets,
		payloadBytes,
		decompressedBytes,
	)

	return &Metrics{
		BucketsLoaded:     bucketsLoaded,
		BucketsSkipped:    bucketsSkipped,
		RecordsRead:       recordsRead,
		RecordsSkipped:    recordsSkipped,
		NoiseBytes:        noiseBytes,
		MalformedHeaders:  malformedHeaders,
		TruncatedBuckets:  truncatedBuckets,
		PayloadBytes:      payloadBytes,
		DecompressedBytes: decompressedBytes,
	}
}

func (m *Metrics) ObserveLoad(compression string, payloadSz, decompressedSz int) {
	if m == nil {
		return
	}
	m.BucketsLoaded.WithLabelValues(compression).Inc()
	m.PayloadBytes.WithLabelValues(compression).Add(float64(payloadSz))
	m.DecompressedBytes.WithLabelValues(compression).Add(float64(decompressedSz))
}

func (m *Metrics) ObserveBulkSkip(compression string, payloadSz uint64, nEvents uint64) {
	if m == nil {
		return
	}
	m.BucketsSkipped.Inc()
	m.PayloadBytes.WithLabelValues(compression).Add(float64(payloadSz))
	m.RecordsSkipped.Add(float64(nEvents))
}

func (m *Metrics) ObserveSkipped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.RecordsSkipped.Add(float64(n))
}

func (m *Metrics) ObserveRead() {
	if m == nil {
		return
	}
	m.RecordsRead.Inc()
}

func (m *Metrics) ObserveNoise(n int64) {
	if m == nil || n == 0 {
		return
	}
	m.NoiseBytes.Add(float64(n))
}

func (m *Metrics) ObserveMalformed() {
	if m == nil {
		return
	}
	m.MalformedHeaders.Inc()
}

func (m *Metrics) ObserveTruncated() {
	if m == nil {
		return
	}
	m.TruncatedBuckets.Inc()
}
