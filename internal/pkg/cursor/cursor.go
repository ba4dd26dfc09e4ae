package cursor

import "encoding/binary"

const lenPrefixSz = 4

// Cursor walks the length prefixed record frames of a decompressed bucket.
//
// At most nEvents frames are returned even if the buffer holds trailing bytes.
// A frame whose prefix or body runs past the end of the buffer ends the bucket.
type Cursor struct {
	buf       []byte
	off       int
	nEvents   uint64
	nRead     uint64
	truncated bool
}

// Reset the cursor onto 'buf' which declares 'nEvents' records.
func (c *Cursor) Reset(buf []byte, nEvents uint64) {
	*c = Cursor{buf: buf, nEvents: nEvents}
}

// Mark a bucket of 'nEvents' records as consumed without a buffer.
func (c *Cursor) Consume(nEvents uint64) {
	*c = Cursor{nEvents: nEvents, nRead: nEvents}
}

// Return the next record frame payload, or false at end of buffer.
//
// The returned slice aliases the bucket buffer.
func (c *Cursor) Next() ([]byte, bool) {
	if c.nRead >= c.nEvents || c.truncated {
		return nil, false
	}

	rem := c.buf[c.off:]
	if len(rem) < lenPrefixSz {
		c.truncated = true
		return nil, false
	}

	sz := uint64(binary.LittleEndian.Uint32(rem))
	if sz > uint64(len(rem)-lenPrefixSz) {
		c.truncated = true
		return nil, false
	}

	end := lenPrefixSz + int(sz)
	frame := rem[lenPrefixSz:end:end]

	c.off += end
	c.nRead++
	return frame, true
}

// Skip up to 'n' frames without handing them out.  Returns the number skipped.
func (c *Cursor) Skip(n uint64) uint64 {
	var i uint64
	for ; i < n; i++ {
		if _, ok := c.Next(); !ok {
			break
		}
	}
	return i
}

// Records declared by the bucket that have not been consumed.
// Zero once the buffer has proven to be truncated.
func (c *Cursor) Remaining() uint64 {
	if c.truncated {
		return 0
	}
	return c.nEvents - c.nRead
}

// Records consumed from the current bucket.
func (c *Cursor) Consumed() uint64 {
	return c.nRead
}

// True if the bucket ended on a partial frame before nEvents were read.
func (c *Cursor) Truncated() bool {
	return c.truncated
}

// Bytes left in the buffer past the last consumed frame.
func (c *Cursor) Trailing() int {
	return len(c.buf) - c.off
}
