package proio

import (
	"errors"

	"github.com/prequel-dev/proio/internal/pkg/zerr"
)

//  Forward declare internal errors

const (
	ErrClosed                 = zerr.ErrClosed
	ErrCorrupted              = zerr.ErrCorrupted
	ErrMalformedHeader        = zerr.ErrMalformedHeader
	ErrMalformedRecord        = zerr.ErrMalformedRecord
	ErrUnsupportedCompression = zerr.ErrUnsupportedCompression
	ErrDecompress             = zerr.ErrDecompress
	ErrNotSeekable            = zerr.ErrNotSeekable
	ErrBucketSize             = zerr.ErrBucketSize
	ErrSeek                   = zerr.ErrSeek
)

// Returns true if 'err' indicates that a bucket payload could not be decoded.
// The bucket was dropped; the Reader continues with the next one.
func BucketCorrupted(err error) bool {
	return errors.Is(err, ErrCorrupted)
}
