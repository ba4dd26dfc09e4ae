package proio

import (
	"io"
	"iter"
	"os"

	"github.com/prequel-dev/proio/internal/pkg/header"
	"github.com/prequel-dev/proio/internal/pkg/rdr"
)

// Magic is the byte sequence that opens every bucket.
var Magic = header.Magic

// BucketHeader describes one bucket: its record count, payload size and codec.
type BucketHeader = header.BucketHeader

// Compression is the codec tag carried in a BucketHeader.
type Compression = header.Compression

const (
	CompressionNone = header.CompressionNone
	CompressionGzip = header.CompressionGzip
	CompressionLZ4  = header.CompressionLZ4
	CompressionZstd = header.CompressionZstd
)

// Reader is an interface for reading records from a proio stream.
type Reader[T any] interface {
	// Return the next record.  Returns io.EOF at end of stream.
	Next() (T, error)

	// Discard up to 'n' records without decoding them.  Whole buckets
	// are skipped without decompression.  Returns the number skipped,
	// which is short of 'n' only at end of stream or on error.
	Skip(n int) (int, error)

	// Rewind to the start of the stream.  Returns ErrNotSeekable
	// if the underlying reader cannot seek.
	SeekToStart() error

	// Iterate records from the current position until end of stream.
	All() iter.Seq2[T, error]

	// Header of the bucket currently being read.
	Header() (BucketHeader, bool)

	// Bytes consumed from the underlying reader.
	Offset() int64

	// Close the Reader, and the underlying reader if it is an io.Closer.
	// It is ok to Close more than once.
	Close() error
}

// Construct a Reader over the proio stream 'rd' decoding records with 'dec'.
//
// Specify optional parameters in 'opts'.
func NewReader[T any](rd io.Reader, dec Decoder[T], opts ...OptT) Reader[T] {
	o := parseOpts(opts...)
	return rdr.NewReader[T](rd, dec, &o)
}

// Construct a Reader that returns each record as a freshly allocated byte slice.
func NewRawReader(rd io.Reader, opts ...OptT) Reader[[]byte] {
	return NewReader[[]byte](rd, RawDecoder{}, opts...)
}

// Open the file 'name' and return a raw Reader over it.
// Closing the Reader closes the file.
func OpenFile(name string, opts ...OptT) (Reader[[]byte], error) {
	fh, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return NewRawReader(fh, opts...), nil
}

// Returns true if a Reader that returned 'err' may continue with the next call.
func Recoverable(err error) bool {
	return rdr.Recoverable(err)
}
