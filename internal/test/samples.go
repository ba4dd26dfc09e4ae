package test

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	mrand "math/rand/v2"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/prequel-dev/proio/internal/pkg/header"
	"github.com/prequel-dev/proio/internal/test/fixture"
)

const (
	SmallMixed = iota
	Noisy
	Large
	Uncompressable
)

var codecs = []header.Compression{
	header.CompressionNone,
	header.CompressionGzip,
	header.CompressionLZ4,
	header.CompressionZstd,
}

// A generated stream and the records it holds, in order.
type Sample struct {
	Data    []byte
	Records [][]byte
	Spans   []fixture.Span
}

var (
	cacheSmallMixed     = genSample(1, 12, 8, false, false)
	cacheNoisy          = genSample(2, 12, 8, true, false)
	cacheLarge          = genSample(3, 64, 2048, false, false)
	cacheUncompressable = genSample(4, 8, 256, false, true)
)

// Various samples for testing different use cases
func LoadSample(t testing.TB, ty int) Sample {
	switch ty {
	case SmallMixed:
		return cacheSmallMixed
	case Noisy:
		return cacheNoisy
	case Large:
		return cacheLarge
	case Uncompressable:
		return cacheUncompressable
	}

	t.Fatalf("Cannot find sample")
	return Sample{}
}

// Deterministic stream of 'nBuckets' buckets cycling through every codec,
// each holding up to 'maxRecords' records.  Empty buckets occur.
func genSample(seed uint64, nBuckets, maxRecords int, noisy, random bool) Sample {
	var (
		rnd = mrand.New(mrand.NewPCG(seed, seed))
		bld = fixture.NewBuilder()
		all [][]byte
	)

	for i := 0; i < nBuckets; i++ {
		if noisy {
			bld.Noise(genNoise(rnd, rnd.IntN(64)))
		}

		records := make([][]byte, rnd.IntN(maxRecords+1))
		for j := range records {
			records[j] = genRecord(rnd, i, j, random)
		}

		bld.Bucket(codecs[i%len(codecs)], records...)
		all = append(all, records...)
	}

	return Sample{
		Data:    bld.Bytes(),
		Records: all,
		Spans:   bld.Spans(),
	}
}

func genRecord(rnd *mrand.Rand, bucket, idx int, random bool) []byte {
	if !random {
		rec := []byte(hex.EncodeToString([]byte{byte(bucket), byte(idx >> 8), byte(idx)}))
		return append(rec, bytes.Repeat([]byte("event"), rnd.IntN(16))...)
	}

	rec := make([]byte, 64+rnd.IntN(512))
	for i := range rec {
		rec[i] = byte(rnd.UintN(256))
	}
	return rec
}

// Noise never carries the first magic byte, so it cannot hide a bucket.
func genNoise(rnd *mrand.Rand, n int) []byte {
	noise := make([]byte, n)
	for i := range noise {
		b := byte(rnd.UintN(256))
		if b == header.Magic[0] {
			b = 0
		}
		noise[i] = b
	}
	return noise
}

// xxhash64 over the records in order, each length prefixed.
func Digest(records [][]byte) uint64 {
	var (
		d      = xxhash.New()
		lenBuf [4]byte
	)
	for _, r := range records {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(r)))
		d.Write(lenBuf[:])
		d.Write(r)
	}
	return d.Sum64()
}
