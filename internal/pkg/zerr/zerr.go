package zerr

import "fmt"

type constError string

func (err constError) Error() string {
	return string(err)
}

const (
	ErrClosed                 constError = "proio closed"
	ErrCorrupted              constError = "proio corrupted"
	ErrMalformedHeader        constError = "proio malformed bucket header"
	ErrMalformedRecord        constError = "proio malformed record"
	ErrUnsupportedCompression constError = "proio unsupported compression"
	ErrDecompress             constError = "proio fail decompress"
	ErrNotSeekable            constError = "proio stream not seekable"
	ErrBucketSize             constError = "proio bucket size exceeds limit"
	ErrSeek                   constError = "proio fail seek"
)

func WrapCorrupted(err error) error {
	return fmt.Errorf("%w: %w", ErrCorrupted, err)
}

// Wrap 'cause' with the sentinel 'err' so that errors.Is matches both.
func Wrap(err constError, cause error) error {
	if cause == nil {
		return err
	}
	return fmt.Errorf("%w: %w", err, cause)
}
