package header

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/prequel-dev/proio/internal/pkg/zerr"
	"google.golang.org/protobuf/encoding/protowire"
)

// Compression identifies the codec applied to a bucket payload.
type Compression uint64

const (
	CompressionNone Compression = 0
	CompressionGzip Compression = 1
	CompressionLZ4  Compression = 2
	CompressionZstd Compression = 3
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "NONE"
	case CompressionGzip:
		return "GZIP"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "ZSTD"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint64(c))
}

// Magic sequence that opens every bucket.
var Magic = [16]byte{0xe1, 0xc1}

const (
	// Size of the little endian length prefix in front of the header bytes.
	LenPrefixSz = 4

	// Upper bound on the encoded header; anything larger is treated as garbage.
	MaxHeaderSz = 16 << 20
)

// Wire field numbers of the BucketHeader protobuf message.
const (
	fieldNEvents     protowire.Number = 1
	fieldBucketSize  protowire.Number = 2
	fieldCompression protowire.Number = 3
)

type BucketHeader struct {
	NEvents     uint64
	BucketSize  uint64
	Compression Compression
}

// Decode a protobuf encoded BucketHeader.
//
// Unknown fields are skipped; a repeated scalar field keeps the last value.
func Decode(data []byte) (hdr BucketHeader, err error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return hdr, zerr.Wrap(zerr.ErrMalformedHeader, protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldNEvents, fieldBucketSize, fieldCompression:
			if typ != protowire.VarintType {
				return hdr, fmt.Errorf("%w: field %d has wire type %d", zerr.ErrMalformedHeader, num, typ)
			}

			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return hdr, zerr.Wrap(zerr.ErrMalformedHeader, protowire.ParseError(n))
			}
			data = data[n:]

			switch num {
			case fieldNEvents:
				hdr.NEvents = v
			case fieldBucketSize:
				hdr.BucketSize = v
			default:
				hdr.Compression = Compression(v)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return hdr, zerr.Wrap(zerr.ErrMalformedHeader, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return hdr, nil
}

// Append the protobuf encoding of 'hdr' to 'b'.  Zero fields are omitted as proto3 does.
func Append(b []byte, hdr BucketHeader) []byte {
	if hdr.NEvents != 0 {
		b = protowire.AppendTag(b, fieldNEvents, protowire.VarintType)
		b = protowire.AppendVarint(b, hdr.NEvents)
	}
	if hdr.BucketSize != 0 {
		b = protowire.AppendTag(b, fieldBucketSize, protowire.VarintType)
		b = protowire.AppendVarint(b, hdr.BucketSize)
	}
	if hdr.Compression != CompressionNone {
		b = protowire.AppendTag(b, fieldCompression, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(hdr.Compression))
	}
	return b
}

// AppendFramed appends the length prefixed encoding of 'hdr' to 'b'.
func AppendFramed(b []byte, hdr BucketHeader) []byte {
	off := len(b)
	b = append(b, 0, 0, 0, 0)
	b = Append(b, hdr)
	binary.LittleEndian.PutUint32(b[off:], uint32(len(b)-off-LenPrefixSz))
	return b
}

// Read a length prefixed header from 'rdr'.
//
// 'scratch' is reused for the header bytes when large enough; the possibly
// grown buffer is returned for reuse on the next call.
//
// Any short read is reported as io.EOF; the stream simply ended mid structure.
// A header that cannot be decoded returns ErrMalformedHeader with the
// bytes consumed so far.
func Read(rdr io.Reader, scratch []byte) (nRead int, hdr BucketHeader, buf []byte, err error) {
	buf = scratch

	var lenBuf [LenPrefixSz]byte
	if nRead, err = io.ReadFull(rdr, lenBuf[:]); err != nil {
		return nRead, hdr, buf, shortRead(err)
	}

	sz := binary.LittleEndian.Uint32(lenBuf[:])
	if sz > MaxHeaderSz {
		return nRead, hdr, buf, fmt.Errorf("%w: header length %d", zerr.ErrMalformedHeader, sz)
	}

	if cap(buf) < int(sz) {
		buf = make([]byte, sz)
	}
	data := buf[:sz]

	n, err := io.ReadFull(rdr, data)
	nRead += n
	if err != nil {
		return nRead, hdr, buf, shortRead(err)
	}

	hdr, err = Decode(data)
	return nRead, hdr, buf, err
}

func shortRead(err error) error {
	if err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}
