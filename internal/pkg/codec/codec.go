package codec

import (
	"fmt"
	"io"
	"maps"

	"github.com/prequel-dev/proio/internal/pkg/header"
	"github.com/prequel-dev/proio/internal/pkg/zerr"
)

type Decompressor interface {
	// Decompress 'src' into 'dst', reusing the capacity of 'dst' when possible.
	// Returns the decompressed slice, which may alias 'dst' but never 'src'
	// unless the codec is a passthrough.
	Decompress(src, dst []byte) ([]byte, error)
}

// DecompressorFunc adapts a plain function to the Decompressor interface.
type DecompressorFunc func(src, dst []byte) ([]byte, error)

func (f DecompressorFunc) Decompress(src, dst []byte) ([]byte, error) {
	return f(src, dst)
}

// Registry maps bucket compression tags to decompressors.
//
// A tag absent from the registry is unsupported; nothing falls back to NONE
// unless it is explicitly registered as such.
type Registry struct {
	codecs map[header.Compression]Decompressor
}

// Return a registry populated with the built in codecs: NONE, GZIP, LZ4 and ZSTD.
func NewRegistry() *Registry {
	return &Registry{
		codecs: map[header.Compression]Decompressor{
			header.CompressionNone: None{},
			header.CompressionGzip: Gzip{},
			header.CompressionLZ4:  LZ4{},
			header.CompressionZstd: Zstd{},
		},
	}
}

// Register 'dc' for 'tag', replacing any previous mapping.  A nil 'dc' removes the tag.
func (r *Registry) Register(tag header.Compression, dc Decompressor) {
	if dc == nil {
		delete(r.codecs, tag)
		return
	}
	r.codecs[tag] = dc
}

func (r *Registry) Lookup(tag header.Compression) (Decompressor, error) {
	dc, ok := r.codecs[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", zerr.ErrUnsupportedCompression, tag)
	}
	return dc, nil
}

// Decompress 'src' with the codec registered for 'tag'.
func (r *Registry) Decompress(tag header.Compression, src, dst []byte) ([]byte, error) {
	dc, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}

	out, err := dc.Decompress(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", zerr.ErrDecompress, tag, err)
	}
	return out, nil
}

func (r *Registry) Clone() *Registry {
	return &Registry{codecs: maps.Clone(r.codecs)}
}

// Read 'rd' to completion, appending into dst[:0].
func readAppend(dst []byte, rd io.Reader) ([]byte, error) {
	dst = dst[:0]
	for {
		if len(dst) == cap(dst) {
			// Let append pick the growth factor.
			dst = append(dst, 0)[:len(dst)]
		}

		n, err := rd.Read(dst[len(dst):cap(dst)])
		dst = dst[:len(dst)+n]

		switch err {
		case nil:
		case io.EOF:
			return dst, nil
		default:
			return dst, err
		}
	}
}
