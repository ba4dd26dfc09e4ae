package codec

import "github.com/klauspost/compress/s2"

// S2 decodes S2 (and snappy) blocks.  Not registered by default; map it to a
// tag with Registry.Register when a producer uses it.
type S2 struct{}

func (S2) Decompress(src, dst []byte) ([]byte, error) {
	return s2.Decode(dst[:cap(dst)], src)
}
