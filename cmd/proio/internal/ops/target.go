package ops

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	dstPerms = 0600
	dstFlags = os.O_CREATE | os.O_RDWR | os.O_TRUNC
)

type targetT struct {
	src   *os.File
	srcSz int64
	dst   *os.File
}

// Open 'name' for reading, or stdin if empty or '-'.  Create 'output'
// unless it is empty or '-', in which case output goes to stdout.
func newTarget(name, output string, forceOverwrite bool) (*targetT, error) {

	var (
		err   error
		srcFh *os.File
		dstFh *os.File
	)

	defer func() {
		if srcFh != nil {
			srcFh.Close()
		}
		if dstFh != nil {
			dstFh.Close()
		}
	}()

	srcSz := int64(-1)
	if name != "" && name != "-" {
		if srcFh, err = os.Open(name); err != nil {
			return nil, fmt.Errorf("cannot open source '%s': %w", name, err)
		}

		// Try to grab size of the source for the progress bar
		if fi, err := srcFh.Stat(); err == nil {
			srcSz = fi.Size()
		}
	}

	if output != "" && output != "-" {
		if fileExists(output) && !forceOverwrite {
			return nil, fmt.Errorf("output file '%s' already exists", output)
		}

		if dstFh, err = os.OpenFile(output, dstFlags, dstPerms); err != nil {
			return nil, fmt.Errorf("fail create output file '%s': %w", output, err)
		}
	}

	tt := &targetT{
		src:   srcFh,
		srcSz: srcSz,
		dst:   dstFh,
	}

	srcFh = nil
	dstFh = nil
	return tt, nil
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return (err == nil) || !errors.Is(err, os.ErrNotExist)
}

func (t *targetT) Close() error {
	var errList []error
	if t.src != nil {
		if err := t.src.Close(); err != nil {
			errList = append(errList, err)
		}
		t.src = nil
	}
	if t.dst != nil {
		if err := t.dst.Close(); err != nil {
			errList = append(errList, err)
		}
		t.dst = nil
	}
	return errors.Join(errList...)
}

func (t *targetT) Name() string {
	if t.src == nil {
		return strStdin
	}
	return t.src.Name()
}

// The target owns its files; readers handed out do not expose Close.
type srcReader struct {
	io.Reader
}

type srcReadSeeker struct {
	io.ReadSeeker
}

func (t *targetT) Reader() io.Reader {
	if t.src == nil {
		return srcReader{os.Stdin}
	}
	return srcReadSeeker{t.src}
}

func (t *targetT) Writer() io.Writer {
	if t.dst == nil {
		return os.Stdout
	}
	return t.dst
}
