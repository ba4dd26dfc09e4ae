package bucket

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-kit/log/level"
	"github.com/prequel-dev/proio/internal/pkg/cursor"
	"github.com/prequel-dev/proio/internal/pkg/header"
	"github.com/prequel-dev/proio/internal/pkg/opts"
	"github.com/prequel-dev/proio/internal/pkg/resync"
	"github.com/prequel-dev/proio/internal/pkg/zerr"
)

// State of the bucket currently being read.
type State struct {
	Offset    int64 // Stream offset of the bucket magic.
	Header    header.BucketHeader
	HasHeader bool
	Cursor    cursor.Cursor
}

// Loader frames buckets off a Source and either decompresses them for
// record level reads or skips them whole.
type Loader struct {
	src     *Source
	scanner *resync.Scanner
	opts    *opts.OptsT
	hdrBuf  []byte
	payload bytes.Buffer
	dcBuf   []byte
	state   State
}

func NewLoader(rd io.Reader, o *opts.OptsT) *Loader {
	return &Loader{
		src:     NewSource(rd, o.BufferSize),
		scanner: resync.NewScanner(header.Magic[:]),
		opts:    o,
	}
}

// Load the next bucket.
//
// A bucket declaring more than 'maxSkipEvents' records is read and
// decompressed; the cursor is then positioned on its first record and zero
// is returned.  Otherwise the payload is skipped without decompression, the
// bucket is marked consumed and its record count is returned.
//
// Returns io.EOF when the stream ends before a complete bucket.  Any current
// bucket is dropped first, including on error.
func (l *Loader) Load(maxSkipEvents uint64) (uint64, error) {
	l.Drop()

	for {
		noise, err := l.sync()
		if err != nil {
			return 0, err
		}

		var (
			offset = l.src.Offset() - int64(len(header.Magic))
			hdr    header.BucketHeader
		)

		_, hdr, l.hdrBuf, err = header.Read(l.src, l.hdrBuf)

		if err == nil && hdr.BucketSize > l.opts.MaxBucketSize {
			err = fmt.Errorf("%w: %w: %d > %d", zerr.ErrMalformedHeader, zerr.ErrBucketSize, hdr.BucketSize, l.opts.MaxBucketSize)
		}

		switch {
		case err == nil:
		case errors.Is(err, zerr.ErrMalformedHeader):
			level.Warn(l.opts.Logger).Log(
				"msg", "malformed bucket header, resynchronizing",
				"offset", offset,
				"err", err,
			)
			l.opts.Metrics.ObserveMalformed()
			continue
		default:
			return 0, err
		}

		skip := hdr.NEvents <= maxSkipEvents

		l.opts.EmitBucket(opts.BucketInfoT{
			Offset:  offset,
			Noise:   noise,
			Header:  hdr,
			Skipped: skip,
		})

		if skip {
			return l.skip(hdr, offset)
		}
		return 0, l.load(hdr, offset)
	}
}

// Consume through the next magic sequence and return the noise in front of it.
func (l *Loader) sync() (int64, error) {
	start := l.src.Offset()
	n, err := l.scanner.Sync(l.src)

	noise := n - int64(len(header.Magic))
	if err != nil {
		noise = n
	}

	if noise > 0 {
		level.Warn(l.opts.Logger).Log(
			"msg", "discarded noise before bucket magic",
			"offset", start,
			"bytes", noise,
		)
		l.opts.Metrics.ObserveNoise(noise)
	}

	return noise, err
}

func (l *Loader) skip(hdr header.BucketHeader, offset int64) (uint64, error) {
	if err := l.src.Discard(hdr.BucketSize); err != nil {
		return 0, err
	}

	l.state.Offset = offset
	l.state.Header = hdr
	l.state.HasHeader = true
	l.state.Cursor.Consume(hdr.NEvents)

	l.opts.Metrics.ObserveBulkSkip(hdr.Compression.String(), hdr.BucketSize, hdr.NEvents)
	return hdr.NEvents, nil
}

func (l *Loader) load(hdr header.BucketHeader, offset int64) error {
	// BucketSize is untrusted; grow only with the bytes that arrive.
	l.payload.Reset()
	if _, err := io.CopyN(&l.payload, l.src, int64(hdr.BucketSize)); err != nil {
		return err
	}
	payload := l.payload.Bytes()

	out, err := l.opts.Registry.Decompress(hdr.Compression, payload, l.dcBuf)
	if err != nil {
		level.Warn(l.opts.Logger).Log(
			"msg", "dropping bucket",
			"offset", offset,
			"compression", hdr.Compression,
			"err", err,
		)
		return zerr.WrapCorrupted(err)
	}

	// A passthrough codec hands back the payload itself; the
	// decompression buffer must never share its backing array.
	if !sameArray(out, payload) {
		l.dcBuf = out
	}

	l.state.Offset = offset
	l.state.Header = hdr
	l.state.HasHeader = true
	l.state.Cursor.Reset(out, hdr.NEvents)

	l.opts.Metrics.ObserveLoad(hdr.Compression.String(), len(payload), len(out))

	level.Debug(l.opts.Logger).Log(
		"msg", "bucket loaded",
		"offset", offset,
		"events", hdr.NEvents,
		"size", hdr.BucketSize,
		"compression", hdr.Compression,
	)
	return nil
}

// Drop the current bucket, reporting it if it ended on a partial frame.
func (l *Loader) Drop() {
	if c := &l.state.Cursor; c.Truncated() {
		level.Warn(l.opts.Logger).Log(
			"msg", "bucket ended on a partial record",
			"offset", l.state.Offset,
			"compression", l.state.Header.Compression,
			"events", l.state.Header.NEvents,
			"read", c.Consumed(),
			"trailing", c.Trailing(),
		)
		l.opts.Metrics.ObserveTruncated()
	}
	l.state = State{}
}

func (l *Loader) Cursor() *cursor.Cursor {
	return &l.state.Cursor
}

func (l *Loader) Header() (header.BucketHeader, bool) {
	return l.state.Header, l.state.HasHeader
}

// Bytes consumed from the source.
func (l *Loader) Offset() int64 {
	return l.src.Offset()
}

// Rewind the source to offset zero and drop the current bucket.
func (l *Loader) SeekToStart() error {
	if err := l.src.SeekStart(); err != nil {
		return err
	}
	l.Drop()
	return nil
}

func (l *Loader) Close() error {
	l.Drop()
	l.payload = bytes.Buffer{}
	l.dcBuf = nil
	l.hdrBuf = nil
	return l.src.Close()
}

func sameArray(a, b []byte) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}
	return &a[:cap(a)][0] == &b[:cap(b)][0]
}
