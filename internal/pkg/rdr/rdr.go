package rdr

import (
	"errors"
	"io"
	"iter"

	"github.com/prequel-dev/proio/internal/pkg/bucket"
	"github.com/prequel-dev/proio/internal/pkg/header"
	"github.com/prequel-dev/proio/internal/pkg/opts"
	"github.com/prequel-dev/proio/internal/pkg/zerr"
)

// Decoder turns the bytes of one record frame into a value.
//
// 'data' aliases the bucket buffer and is only valid until the next call
// on the Reader; implementations must copy what they keep.
type Decoder[T any] interface {
	Decode(data []byte) (T, error)
}

type Reader[T any] struct {
	ldr   *bucket.Loader
	dec   Decoder[T]
	opts  *opts.OptsT
	state error
}

// Construct a Reader over the proio stream 'rd', decoding records with 'dec'.
func NewReader[T any](rd io.Reader, dec Decoder[T], o *opts.OptsT) *Reader[T] {
	o.Defaults()
	return &Reader[T]{
		ldr:  bucket.NewLoader(rd, o),
		dec:  dec,
		opts: o,
	}
}

// Return the next record.  Returns io.EOF at end of stream.
//
// A record that fails to decode is consumed and reported as ErrMalformedRecord.
// Unsupported or corrupt bucket compression drops the bucket; the following
// call resumes at the next bucket.
func (r *Reader[T]) Next() (T, error) {
	var zero T

	if r.state != nil {
		return zero, r.state
	}

	frame, err := r.nextFrame()
	if err != nil {
		return zero, err
	}

	r.opts.Metrics.ObserveRead()

	v, err := r.dec.Decode(frame)
	if err != nil {
		if !errors.Is(err, zerr.ErrMalformedRecord) {
			err = zerr.Wrap(zerr.ErrMalformedRecord, err)
		}
		return zero, err
	}
	return v, nil
}

// Load buckets until one yields a frame.  Empty and truncated buckets are passed over.
func (r *Reader[T]) nextFrame() ([]byte, error) {
	cur := r.ldr.Cursor()
	for {
		if frame, ok := cur.Next(); ok {
			return frame, nil
		}
		if _, err := r.ldr.Load(0); err != nil {
			return nil, err
		}
	}
}

// Discard up to 'n' records without decoding them.
//
// Whole buckets that fit within the remaining count are skipped without
// decompression.  Returns the number of records skipped, which is short of
// 'n' only at end of stream or on error.  End of stream is not an error.
func (r *Reader[T]) Skip(n int) (int, error) {
	if r.state != nil {
		return 0, r.state
	}
	if n <= 0 {
		return 0, nil
	}

	var (
		want = uint64(n)
		cur  = r.ldr.Cursor()
	)

	skipped := cur.Skip(want)
	r.opts.Metrics.ObserveSkipped(int(skipped))

	for skipped < want {
		cnt, err := r.ldr.Load(want - skipped)
		switch {
		case err == io.EOF:
			return int(skipped), nil
		case err != nil:
			return int(skipped), err
		}

		skipped += cnt

		// Non-zero only if the bucket was loaded for record level reads.
		m := cur.Skip(want - skipped)
		r.opts.Metrics.ObserveSkipped(int(m))
		skipped += m
	}

	return int(skipped), nil
}

// Rewind to the start of the stream.  Returns ErrNotSeekable on a pipe.
func (r *Reader[T]) SeekToStart() error {
	if r.state != nil {
		return r.state
	}
	return r.ldr.SeekToStart()
}

// Iterate records until end of stream.
//
// Recoverable errors are yielded and iteration continues; any other error
// is yielded once and ends the sequence.  Iteration resumes from the current
// position, so it restarts after SeekToStart.
func (r *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(v, err) {
				return
			}
			if err != nil && !Recoverable(err) {
				return
			}
		}
	}
}

// Header of the current bucket; false before the first bucket or after a reset.
func (r *Reader[T]) Header() (header.BucketHeader, bool) {
	return r.ldr.Header()
}

// Bytes consumed from the source.
func (r *Reader[T]) Offset() int64 {
	return r.ldr.Offset()
}

// Close the reader and the source if it is an io.Closer.
//
// Subsequent calls on the Reader return ErrClosed; repeated Close returns nil.
func (r *Reader[T]) Close() error {
	if r.state == zerr.ErrClosed {
		return nil
	}
	r.state = zerr.ErrClosed
	return r.ldr.Close()
}

// True if a Reader that returned 'err' can continue with the next call.
func Recoverable(err error) bool {
	return errors.Is(err, zerr.ErrMalformedRecord) ||
		errors.Is(err, zerr.ErrUnsupportedCompression) ||
		errors.Is(err, zerr.ErrDecompress)
}
