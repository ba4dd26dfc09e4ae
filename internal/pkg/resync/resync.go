package resync

import (
	"io"
)

// Scanner locates a fixed magic sequence in a byte stream.
//
// The scan is a single forward pass.  A failed partial match falls back to the
// longest magic prefix that is also a suffix of the bytes just matched, so no
// byte is ever re-read and a match overlapping a false start is not missed.
type Scanner struct {
	magic []byte
	fail  []int
}

func NewScanner(magic []byte) *Scanner {
	if len(magic) == 0 {
		panic("resync: empty magic")
	}

	m := append([]byte(nil), magic...)
	return &Scanner{
		magic: m,
		fail:  prefixTable(m),
	}
}

// Consume bytes from 'rdr' up to and including the next magic sequence.
//
// Returns the number of bytes consumed, which is at least len(magic) on a match.
// Returns io.EOF if the stream ends before a full match; 'nRead' then counts
// every byte consumed while searching.
func (s *Scanner) Sync(rdr io.ByteReader) (nRead int64, err error) {
	var (
		j     int
		magic = s.magic
	)

	for {
		b, err := rdr.ReadByte()
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				err = io.EOF
			}
			return nRead, err
		}
		nRead++

		for j > 0 && b != magic[j] {
			j = s.fail[j-1]
		}

		if b == magic[j] {
			j++
		}

		if j == len(magic) {
			return nRead, nil
		}
	}
}

// prefixTable[i] is the length of the longest proper prefix of magic[:i+1]
// that is also a suffix of it.
func prefixTable(magic []byte) []int {
	fail := make([]int, len(magic))

	k := 0
	for i := 1; i < len(magic); i++ {
		for k > 0 && magic[i] != magic[k] {
			k = fail[k-1]
		}
		if magic[i] == magic[k] {
			k++
		}
		fail[i] = k
	}

	return fail
}
