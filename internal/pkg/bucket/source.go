package bucket

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/prequel-dev/proio/internal/pkg/zerr"
)

// Source is a buffered view of the input stream that tracks the logical
// offset and skips forward by seeking when the underlying reader allows it.
type Source struct {
	rd     io.Reader
	br     *bufio.Reader
	seeker io.Seeker
	base   int64 // Position of the underlying reader at construction.
	off    int64 // Bytes consumed relative to base.
}

func NewSource(rd io.Reader, bufSz int) *Source {
	s := &Source{
		rd: rd,
		br: bufio.NewReaderSize(rd, bufSz),
	}

	if seeker := probeSeeker(rd); seeker != nil {
		if pos, err := seeker.Seek(0, io.SeekCurrent); err == nil {
			s.seeker = seeker
			s.base = pos
		}
	}

	return s
}

// Standard streams may be backed by a regular file that was never meant
// to be seeked; treat them as pipes.
func probeSeeker(rd io.Reader) io.Seeker {
	if rd == os.Stdin || rd == os.Stdout || rd == os.Stderr {
		return nil
	}
	seeker, _ := rd.(io.Seeker)
	return seeker
}

// Bytes consumed since construction or the last SeekStart.
func (s *Source) Offset() int64 {
	return s.off
}

func (s *Source) ReadByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err == nil {
		s.off++
	}
	return b, err
}

func (s *Source) Read(p []byte) (int, error) {
	n, err := s.br.Read(p)
	s.off += int64(n)
	return n, err
}

// Advance the stream by 'n' bytes without returning them.
//
// Returns io.EOF if the stream holds fewer than 'n' bytes; the offset then
// reflects the end of the stream.
func (s *Source) Discard(n uint64) error {
	if n <= uint64(s.br.Buffered()) {
		m, err := s.br.Discard(int(n))
		s.off += int64(m)
		return err
	}

	if s.seeker == nil {
		m, err := io.CopyN(io.Discard, s.br, int64(n))
		s.off += m
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return err
	}

	// Drain what is buffered, then seek the remainder.
	m, _ := s.br.Discard(s.br.Buffered())
	s.off += int64(m)
	rem := int64(n) - int64(m)
	cur := s.base + s.off

	end, err := s.seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return zerr.Wrap(zerr.ErrSeek, err)
	}

	// Compare against the distance to the end so a huge 'n' cannot overflow.
	target := end
	if rem <= end-cur {
		target = cur + rem
	} else {
		err = io.EOF
	}

	if _, serr := s.seeker.Seek(target, io.SeekStart); serr != nil {
		return zerr.Wrap(zerr.ErrSeek, serr)
	}

	s.br.Reset(s.rd)
	s.off = target - s.base
	return err
}

// Rewind the underlying reader to absolute offset zero.
func (s *Source) SeekStart() error {
	if s.seeker == nil {
		return zerr.ErrNotSeekable
	}

	if _, err := s.seeker.Seek(0, io.SeekStart); err != nil {
		return zerr.Wrap(zerr.ErrSeek, err)
	}

	s.br.Reset(s.rd)
	s.base = 0
	s.off = 0
	return nil
}

// Close the underlying reader if it is an io.Closer.
func (s *Source) Close() error {
	if closer, ok := s.rd.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
