package opts

import (
	"math"

	"github.com/go-kit/log"
	"github.com/prequel-dev/proio/internal/pkg/codec"
	"github.com/prequel-dev/proio/internal/pkg/header"
	"github.com/prequel-dev/proio/internal/pkg/metrics"
)

const (
	DefaultMaxBucketSize = 1 << 30
	DefaultBufferSize    = 64 << 10
)

// Describes a bucket as it is framed, before its payload is read or skipped.
type BucketInfoT struct {
	Offset  int64 // Stream offset of the bucket magic.
	Noise   int64 // Bytes discarded before the magic.
	Header  header.BucketHeader
	Skipped bool // True if the payload is bulk skipped.
}

// Emits each framed bucket.  Must not retain the reader.
type BucketCallbackT func(info BucketInfoT)

type OptsT struct {
	Logger         log.Logger
	Metrics        *metrics.Metrics
	Registry       *codec.Registry
	MaxBucketSize  uint64
	BufferSize     int
	BucketCallback BucketCallbackT
}

// Fill unset fields with defaults.
func (o *OptsT) Defaults() {
	if o.Logger == nil {
		o.Logger = log.NewNopLogger()
	}
	if o.Registry == nil {
		o.Registry = codec.NewRegistry()
	}
	if o.MaxBucketSize == 0 {
		o.MaxBucketSize = DefaultMaxBucketSize
	}
	if o.MaxBucketSize > math.MaxInt {
		o.MaxBucketSize = math.MaxInt
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
}

// Invoke the bucket callback if set.
func (o *OptsT) EmitBucket(info BucketInfoT) {
	if o.BucketCallback != nil {
		o.BucketCallback(info)
	}
}
