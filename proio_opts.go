package proio

import (
	"github.com/go-kit/log"
	"github.com/prequel-dev/proio/internal/pkg/codec"
	"github.com/prequel-dev/proio/internal/pkg/metrics"
	"github.com/prequel-dev/proio/internal/pkg/opts"
	"github.com/prometheus/client_golang/prometheus"
)

// OptT is a function that sets an option on the Reader.
type OptT func(*opts.OptsT)

// Decompressor decodes a bucket payload for one compression tag.
type Decompressor = codec.Decompressor

// DecompressorFunc adapts a function to the Decompressor interface.
type DecompressorFunc = codec.DecompressorFunc

// Metrics is a set of Prometheus counters shared by any number of Readers.
type Metrics = metrics.Metrics

// Bucket callback function type.
type CbBucketT = opts.BucketCallbackT

// BucketInfo is passed to the bucket callback for each framed bucket.
type BucketInfo = opts.BucketInfoT

// Create the reader metrics and register them with 'reg'.
// Panics if the metrics are already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.New(reg)
}

// Log framing problems such as noise and malformed headers to 'logger'.
// Defaults to a no-op logger.
func WithLogger(logger log.Logger) OptT {
	return func(o *opts.OptsT) {
		o.Logger = logger
	}
}

// Record reader activity in 'm'.
func WithMetrics(m *Metrics) OptT {
	return func(o *opts.OptsT) {
		o.Metrics = m
	}
}

// Decode payloads tagged 'tag' with 'dc', replacing any built in codec.
// A nil 'dc' makes the tag unsupported.
//
// Built in: NONE, GZIP, LZ4 and ZSTD.
func WithCodec(tag Compression, dc Decompressor) OptT {
	return func(o *opts.OptsT) {
		o.Registry.Register(tag, dc)
	}
}

// Decode payloads tagged 'tag' as S2.
func WithS2Codec(tag Compression) OptT {
	return WithCodec(tag, codec.S2{})
}

// Treat a header declaring a payload larger than 'sz' bytes as malformed.
// Defaults to 1 GiB.
func WithMaxBucketSize(sz uint64) OptT {
	return func(o *opts.OptsT) {
		o.MaxBucketSize = sz
	}
}

// Size of the read buffer in front of the underlying reader.  Defaults to 64 KiB.
func WithBufferSize(sz int) OptT {
	return func(o *opts.OptsT) {
		o.BufferSize = sz
	}
}

// Invoke 'cb' for every bucket located in the stream, before its payload is
// read or skipped.
func WithBucketCallback(cb CbBucketT) OptT {
	return func(o *opts.OptsT) {
		o.BucketCallback = cb
	}
}

func parseOpts(optFuncs ...OptT) opts.OptsT {
	o := opts.OptsT{
		Logger:        log.NewNopLogger(),        // Silent by default
		Registry:      codec.NewRegistry(),       // Per reader; mutated by WithCodec
		MaxBucketSize: opts.DefaultMaxBucketSize, // 1 GiB
		BufferSize:    opts.DefaultBufferSize,    // 64 KiB
	}

	for _, oFunc := range optFuncs {
		oFunc(&o)
	}

	o.Defaults()
	return o
}
