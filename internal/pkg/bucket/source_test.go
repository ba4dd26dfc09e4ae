package bucket

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"testing"

	"github.com/prequel-dev/proio/internal/pkg/zerr"
	"github.com/stretchr/testify/require"
)

type pipeReader struct {
	io.Reader
}

func seqBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func TestSourceDiscard(t *testing.T) {
	data := seqBytes(100)

	tests := map[string]struct {
		rd       func() io.Reader
		seekable bool
	}{
		"seekable": {
			rd:       func() io.Reader { return bytes.NewReader(data) },
			seekable: true,
		},
		"pipe": {
			rd:       func() io.Reader { return pipeReader{bytes.NewReader(data)} },
			seekable: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			src := NewSource(tc.rd(), 16)
			require.Equal(t, tc.seekable, src.seeker != nil)

			var hdr [4]byte
			_, err := io.ReadFull(src, hdr[:])
			require.NoError(t, err)
			require.Equal(t, int64(4), src.Offset())

			// Within the buffer.
			require.NoError(t, src.Discard(2))
			require.Equal(t, int64(6), src.Offset())

			// Past the buffer.
			require.NoError(t, src.Discard(48))
			require.Equal(t, int64(54), src.Offset())

			b, err := src.ReadByte()
			require.NoError(t, err)
			require.Equal(t, byte(54), b)

			// Past the end.
			err = src.Discard(1000)
			require.ErrorIs(t, err, io.EOF)
			require.Equal(t, int64(len(data)), src.Offset())
		})
	}
}

func TestSourceDiscardHuge(t *testing.T) {
	data := seqBytes(100)

	for name, rd := range map[string]io.Reader{
		"seekable": bytes.NewReader(data),
		"pipe":     pipeReader{bytes.NewReader(data)},
	} {
		src := NewSource(rd, 16)

		var hdr [20]byte
		_, err := io.ReadFull(src, hdr[:])
		require.NoError(t, err, name)

		err = src.Discard(math.MaxInt64)
		require.ErrorIs(t, err, io.EOF, name)
		require.Equal(t, int64(len(data)), src.Offset(), name)
	}
}

func TestSourceBaseOffset(t *testing.T) {
	data := seqBytes(100)
	rd := bytes.NewReader(data)
	_, err := rd.Seek(10, io.SeekStart)
	require.NoError(t, err)

	src := NewSource(rd, 16)
	require.NoError(t, src.Discard(20))
	require.Equal(t, int64(20), src.Offset())

	b, err := src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(30), b)

	require.NoError(t, src.SeekStart())
	require.Zero(t, src.Offset())

	b, err = src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0), b)
}

func TestSourceNotSeekable(t *testing.T) {
	src := NewSource(pipeReader{bytes.NewReader(nil)}, 16)
	require.ErrorIs(t, src.SeekStart(), zerr.ErrNotSeekable)

	src = NewSource(os.Stdin, 16)
	require.Nil(t, src.seeker)
}

type badSeeker struct {
	io.Reader
	fail bool
}

func (s *badSeeker) Seek(off int64, whence int) (int64, error) {
	if s.fail {
		return 0, errors.New("seek failed")
	}
	return 0, nil
}

func TestSourceSeekFail(t *testing.T) {
	// Probe fails; source degrades to read and discard.
	src := NewSource(&badSeeker{Reader: bytes.NewReader(seqBytes(64)), fail: true}, 16)
	require.Nil(t, src.seeker)
	require.NoError(t, src.Discard(40))

	// Probe succeeds but a later seek fails.
	bs := &badSeeker{Reader: bytes.NewReader(seqBytes(64))}
	src = NewSource(bs, 16)
	require.NotNil(t, src.seeker)

	bs.fail = true
	require.ErrorIs(t, src.Discard(40), zerr.ErrSeek)
}

type closeTracker struct {
	io.Reader
	closed int
}

func (c *closeTracker) Close() error {
	c.closed++
	return nil
}

func TestSourceClose(t *testing.T) {
	ct := &closeTracker{Reader: bytes.NewReader(nil)}
	require.NoError(t, NewSource(ct, 16).Close())
	require.Equal(t, 1, ct.closed)

	require.NoError(t, NewSource(bytes.NewReader(nil), 16).Close())
}
