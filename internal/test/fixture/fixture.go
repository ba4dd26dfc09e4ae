// Package fixture builds proio streams for tests and benchmarks.
package fixture

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/prequel-dev/proio/internal/pkg/header"
)

// Position of a bucket written by a Builder.
type Span struct {
	Offset     int64 // Offset of the bucket magic.
	PayloadOff int64 // Offset of the first payload byte.
	Header     header.BucketHeader
}

// End offset of the bucket.
func (s Span) End() int64 {
	return s.PayloadOff + int64(s.Header.BucketSize)
}

type Builder struct {
	buf   bytes.Buffer
	spans []Span
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Append raw bytes that do not form a bucket.
func (b *Builder) Noise(data []byte) *Builder {
	b.buf.Write(data)
	return b
}

// Append a bucket holding 'records' compressed with 'c'.
func (b *Builder) Bucket(c header.Compression, records ...[]byte) *Builder {
	payload := Compress(c, Frames(records...))
	return b.Raw(header.BucketHeader{
		NEvents:     uint64(len(records)),
		BucketSize:  uint64(len(payload)),
		Compression: c,
	}, payload)
}

// Append a bucket with an arbitrary header and payload.
func (b *Builder) Raw(hdr header.BucketHeader, payload []byte) *Builder {
	off := int64(b.buf.Len())
	b.buf.Write(header.Magic[:])
	b.buf.Write(header.AppendFramed(nil, hdr))

	b.spans = append(b.spans, Span{
		Offset:     off,
		PayloadOff: int64(b.buf.Len()),
		Header:     hdr,
	})

	b.buf.Write(payload)
	return b
}

// Append the magic followed by a length prefix and 'hdrBytes' as is.
func (b *Builder) RawHeader(hdrBytes []byte) *Builder {
	b.buf.Write(header.Magic[:])
	var lenBuf [header.LenPrefixSz]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(hdrBytes)))
	b.buf.Write(lenBuf[:])
	b.buf.Write(hdrBytes)
	return b
}

func (b *Builder) Spans() []Span {
	return b.spans
}

func (b *Builder) Len() int {
	return b.buf.Len()
}

func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Encode 'records' as length prefixed frames.
func Frames(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(r)))
		out = append(out, r...)
	}
	return out
}

// Generate 'n' distinct records.
func Records(prefix string, n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = fmt.Appendf(nil, "%s-%04d", prefix, i)
	}
	return out
}

// Compress 'data' with codec 'c'.  Panics on an unknown codec.
func Compress(c header.Compression, data []byte) []byte {
	switch c {
	case header.CompressionNone:
		return bytes.Clone(data)
	case header.CompressionGzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		mustWrite(zw.Write(data))
		must(zw.Close())
		return buf.Bytes()
	case header.CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		mustWrite(zw.Write(data))
		must(zw.Close())
		return buf.Bytes()
	case header.CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		must(err)
		defer enc.Close()
		return enc.EncodeAll(data, nil)
	}
	panic(fmt.Sprintf("fixture: no encoder for %s", c))
}

// Compress with S2, which has no default tag.
func CompressS2(data []byte) []byte {
	return s2.Encode(nil, data)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustWrite(_ int, err error) {
	must(err)
}
