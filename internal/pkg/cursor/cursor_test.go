package cursor

import (
	"encoding/binary"
	"testing"
)

func frames(payloads ...string) []byte {
	var buf []byte
	for _, p := range payloads {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p)))
		buf = append(buf, p...)
	}
	return buf
}

func TestCursorNext(t *testing.T) {
	var c Cursor
	c.Reset(frames("aaaaa", "bbbbb", "ccccc"), 3)

	for _, want := range []string{"aaaaa", "bbbbb", "ccccc"} {
		got, ok := c.Next()
		if !ok {
			t.Fatalf("Expected frame %q", want)
		}
		if string(got) != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}

	if _, ok := c.Next(); ok {
		t.Errorf("Expected end of buffer")
	}

	switch {
	case c.Consumed() != 3:
		t.Errorf("Expected 3 consumed, got %d", c.Consumed())
	case c.Remaining() != 0:
		t.Errorf("Expected 0 remaining, got %d", c.Remaining())
	case c.Truncated():
		t.Errorf("Unexpected truncation")
	case c.Trailing() != 0:
		t.Errorf("Unexpected trailing bytes: %d", c.Trailing())
	}
}

func TestCursorEmptyRecord(t *testing.T) {
	var c Cursor
	c.Reset(frames("", "x"), 2)

	got, ok := c.Next()
	if !ok || len(got) != 0 {
		t.Errorf("Expected empty record, got %q ok=%v", got, ok)
	}
	got, ok = c.Next()
	if !ok || string(got) != "x" {
		t.Errorf("Expected 'x', got %q ok=%v", got, ok)
	}
}

func TestCursorStopsAtNEvents(t *testing.T) {
	var c Cursor
	c.Reset(frames("a", "b", "c"), 2)

	if n := c.Skip(10); n != 2 {
		t.Errorf("Expected 2 skipped, got %d", n)
	}
	if c.Trailing() != 5 {
		t.Errorf("Expected 5 trailing bytes, got %d", c.Trailing())
	}
	if c.Truncated() {
		t.Errorf("Trailing bytes beyond nEvents are not truncation")
	}
}

func TestCursorTruncated(t *testing.T) {
	full := frames("aaaaa", "bbbbb")

	tests := map[string]struct {
		buf  []byte
		want int
	}{
		"short_prefix": {buf: full[:len(full)-8], want: 1},
		"short_body":   {buf: full[:len(full)-1], want: 1},
		"empty":        {buf: nil, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var c Cursor
			c.Reset(tc.buf, 2)

			n := int(c.Skip(2))
			switch {
			case n != tc.want:
				t.Errorf("Expected %d frames, got %d", tc.want, n)
			case !c.Truncated():
				t.Errorf("Expected truncation")
			case c.Remaining() != 0:
				t.Errorf("Expected no remaining records after truncation, got %d", c.Remaining())
			}

			if _, ok := c.Next(); ok {
				t.Errorf("Expected cursor to stay exhausted")
			}
		})
	}
}

func TestCursorConsume(t *testing.T) {
	var c Cursor
	c.Reset(frames("a"), 1)
	c.Consume(12)

	switch {
	case c.Consumed() != 12:
		t.Errorf("Expected 12 consumed, got %d", c.Consumed())
	case c.Remaining() != 0:
		t.Errorf("Expected 0 remaining, got %d", c.Remaining())
	}

	if _, ok := c.Next(); ok {
		t.Errorf("Expected no frames after Consume")
	}
}

func TestCursorFrameIsolated(t *testing.T) {
	var c Cursor
	c.Reset(frames("ab", "cd"), 2)

	first, _ := c.Next()
	first = append(first, 'X')

	second, _ := c.Next()
	if string(second) != "cd" {
		t.Errorf("Append on a frame must not clobber the next frame, got %q", second)
	}
	_ = first
}
