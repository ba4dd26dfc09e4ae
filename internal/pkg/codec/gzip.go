package codec

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Concatenated gzip members are decoded as one stream.
type Gzip struct{}

type gzipState struct {
	src bytes.Reader
	zr  gzip.Reader
}

var gzipPool = sync.Pool{New: func() any { return &gzipState{} }}

func (Gzip) Decompress(src, dst []byte) ([]byte, error) {
	st := gzipPool.Get().(*gzipState)
	defer gzipPool.Put(st)

	st.src.Reset(src)
	if err := st.zr.Reset(&st.src); err != nil {
		return nil, err
	}

	out, err := readAppend(dst, &st.zr)
	if err != nil {
		return nil, err
	}

	return out, st.zr.Close()
}
