package codec

import (
	"bytes"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// LZ4 decodes a complete LZ4 frame, as produced by lz4.Writer or the lz4 CLI.
type LZ4 struct{}

type lz4State struct {
	src bytes.Reader
	zr  *lz4.Reader
}

var lz4Pool = sync.Pool{New: func() any { return &lz4State{zr: lz4.NewReader(nil)} }}

func (LZ4) Decompress(src, dst []byte) ([]byte, error) {
	st := lz4Pool.Get().(*lz4State)
	defer lz4Pool.Put(st)

	st.src.Reset(src)
	st.zr.Reset(&st.src)

	return readAppend(dst, st.zr)
}
