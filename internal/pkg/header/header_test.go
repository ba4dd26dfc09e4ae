package header

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/prequel-dev/proio/internal/pkg/zerr"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestDecodeOK(t *testing.T) {
	want := BucketHeader{NEvents: 3, BucketSize: 27, Compression: CompressionLZ4}

	hdr, err := Decode(Append(nil, want))
	switch {
	case err != nil:
		t.Errorf("Expected clean input: %v", err)
	case hdr != want:
		t.Errorf("Header mismatch: got %+v want %+v", hdr, want)
	}
}

func TestDecodeEmpty(t *testing.T) {
	hdr, err := Decode(nil)
	if err != nil {
		t.Fatalf("Expected clean decode of empty header: %v", err)
	}
	if hdr != (BucketHeader{}) {
		t.Errorf("Expected zero header, got %+v", hdr)
	}
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("metadata"))
	b = protowire.AppendTag(b, 10, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)
	b = Append(b, BucketHeader{NEvents: 7, BucketSize: 100, Compression: CompressionGzip})

	hdr, err := Decode(b)
	if err != nil {
		t.Fatalf("Expected unknown fields to be skipped: %v", err)
	}
	if hdr.NEvents != 7 || hdr.BucketSize != 100 || hdr.Compression != CompressionGzip {
		t.Errorf("Unexpected header: %+v", hdr)
	}
}

func TestDecodeLastValueWins(t *testing.T) {
	b := Append(nil, BucketHeader{NEvents: 1})
	b = Append(b, BucketHeader{NEvents: 2})

	hdr, err := Decode(b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hdr.NEvents != 2 {
		t.Errorf("Expected last value 2, got %d", hdr.NEvents)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := map[string][]byte{
		"truncated_varint": {0x08, 0x80},
		"bad_tag":          {0x80},
		"wrong_wire_type":  protowire.AppendBytes(protowire.AppendTag(nil, fieldNEvents, protowire.BytesType), []byte{1}),
		"truncated_bytes":  {0x4a, 0x05, 0x01},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			if !errors.Is(err, zerr.ErrMalformedHeader) {
				t.Errorf("Expected ErrMalformedHeader, got: %v", err)
			}
		})
	}
}

func TestRead(t *testing.T) {
	want := BucketHeader{NEvents: 5, BucketSize: 1 << 20, Compression: CompressionZstd}
	framed := AppendFramed(nil, want)

	n, hdr, buf, err := Read(bytes.NewReader(framed), nil)
	switch {
	case err != nil:
		t.Errorf("Expected clean input: %v", err)
	case n != len(framed):
		t.Errorf("Fail header length: %v", n)
	case hdr != want:
		t.Errorf("Header mismatch: got %+v want %+v", hdr, want)
	case cap(buf) < len(framed)-LenPrefixSz:
		t.Errorf("Expected scratch buffer to be returned")
	}
}

func TestReadShort(t *testing.T) {
	framed := AppendFramed(nil, BucketHeader{NEvents: 5, BucketSize: 10})

	for i := 0; i < len(framed); i++ {
		n, _, _, err := Read(bytes.NewReader(framed[:i]), nil)
		if err != io.EOF {
			t.Errorf("Expected io.EOF on %d bytes, got: %v", i, err)
		}
		if n != i {
			t.Errorf("Expected %d bytes consumed, got %d", i, n)
		}
	}
}

func TestReadOversized(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff}

	n, _, _, err := Read(bytes.NewReader(data), nil)
	if !errors.Is(err, zerr.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader, got: %v", err)
	}
	if n != LenPrefixSz {
		t.Errorf("Expected only the prefix consumed, got %d", n)
	}
}

func TestCompressionString(t *testing.T) {
	tests := map[Compression]string{
		CompressionNone: "NONE",
		CompressionGzip: "GZIP",
		CompressionLZ4:  "LZ4",
		CompressionZstd: "ZSTD",
		Compression(9):  "UNKNOWN(9)",
	}

	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
