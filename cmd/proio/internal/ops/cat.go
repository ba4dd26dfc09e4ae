package ops

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prequel-dev/proio"
)

func RunCat() error {
	rdwr, err := newTarget(CLI.Cat.File, CLI.Cat.Output, CLI.Cat.Force)
	if err != nil {
		return err
	}

	defer rdwr.Close()

	logger := stderrLogger()

	rd := proio.NewRawReader(
		rdwr.Reader(),
		proio.WithLogger(logger),
		proio.WithMaxBucketSize(CLI.MaxBucketSize),
	)
	defer rd.Close()

	if CLI.Cat.Skip > 0 {
		n, err := rd.Skip(CLI.Cat.Skip)
		if err != nil {
			return err
		}
		level.Debug(logger).Log("msg", "skipped records", "count", n, "offset", rd.Offset())
	}

	wr := bufio.NewWriter(rdwr.Writer())

	if err := _cat(rd, wr, logger, CLI.Cat.Count, CLI.Cat.Raw, CLI.Cat.Skip); err != nil {
		return err
	}

	return wr.Flush()
}

// Write up to 'count' records from 'rd' to 'wr'; all if 'count' is negative.
// Dropped buckets are logged and passed over.
func _cat(rd proio.Reader[[]byte], wr io.Writer, logger log.Logger, count int, raw bool, base int) error {
	for idx := 0; count < 0 || idx < count; {
		rec, err := rd.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case proio.Recoverable(err):
			level.Warn(logger).Log("msg", "skipping unreadable data", "offset", rd.Offset(), "err", err)
			continue
		default:
			return err
		}

		if raw {
			err = writeFrame(wr, rec)
		} else {
			err = writeDump(wr, base+idx, rec)
		}
		if err != nil {
			return err
		}
		idx++
	}
	return nil
}

func writeFrame(wr io.Writer, rec []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(rec)))
	if _, err := wr.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := wr.Write(rec)
	return err
}

func writeDump(wr io.Writer, idx int, rec []byte) error {
	if _, err := fmt.Fprintf(wr, "record %d (%d bytes)\n", idx, len(rec)); err != nil {
		return err
	}
	dumper := hex.Dumper(wr)
	if _, err := dumper.Write(rec); err != nil {
		return err
	}
	return dumper.Close()
}
