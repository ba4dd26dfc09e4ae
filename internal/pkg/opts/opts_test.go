package opts

import (
	"math"
	"testing"

	"github.com/prequel-dev/proio/internal/pkg/codec"
	"github.com/prequel-dev/proio/internal/pkg/header"
)

func TestDefaults(t *testing.T) {
	var o OptsT
	o.Defaults()

	switch {
	case o.Logger == nil:
		t.Errorf("Expected nop logger")
	case o.Registry == nil:
		t.Errorf("Expected default registry")
	case o.MaxBucketSize != DefaultMaxBucketSize:
		t.Errorf("Fail max bucket size: %v", o.MaxBucketSize)
	case o.BufferSize != DefaultBufferSize:
		t.Errorf("Fail buffer size: %v", o.BufferSize)
	case o.Metrics != nil:
		t.Errorf("Expected metrics disabled by default")
	}

	if _, err := o.Registry.Lookup(header.CompressionLZ4); err != nil {
		t.Errorf("Expected LZ4 in default registry: %v", err)
	}
}

func TestDefaultsKeepsOverrides(t *testing.T) {
	reg := codec.NewRegistry()
	o := OptsT{
		Registry:      reg,
		MaxBucketSize: 10,
		BufferSize:    -1,
	}
	o.Defaults()

	switch {
	case o.Registry != reg:
		t.Errorf("Registry replaced")
	case o.MaxBucketSize != 10:
		t.Errorf("Max bucket size replaced: %v", o.MaxBucketSize)
	case o.BufferSize != DefaultBufferSize:
		t.Errorf("Expected negative buffer size to fall back to default, got %v", o.BufferSize)
	}
}

func TestDefaultsClampsMaxBucketSize(t *testing.T) {
	o := OptsT{MaxBucketSize: math.MaxUint64}
	o.Defaults()

	if o.MaxBucketSize != math.MaxInt {
		t.Errorf("Expected max bucket size clamped to MaxInt, got %v", o.MaxBucketSize)
	}
}

func TestEmitBucket(t *testing.T) {
	var o OptsT
	o.EmitBucket(BucketInfoT{}) // nil callback is a no-op

	var got []BucketInfoT
	o.BucketCallback = func(info BucketInfoT) {
		got = append(got, info)
	}
	o.EmitBucket(BucketInfoT{Offset: 12, Skipped: true})

	if len(got) != 1 || got[0].Offset != 12 || !got[0].Skipped {
		t.Errorf("Unexpected callback capture: %+v", got)
	}
}
