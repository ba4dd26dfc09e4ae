package ops

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prequel-dev/proio"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricMalformed = "proio_reader_malformed_headers_total"
	metricNoise     = "proio_reader_noise_bytes_total"
	metricTruncated = "proio_reader_truncated_buckets_total"
)

type verifyResultT struct {
	buckets    int
	records    uint64
	badRecords uint64
	dropped    uint64
	offset     int64
	digest     uint64
}

func RunVerify() error {
	rdwr, err := newTarget(CLI.Verify.File, "-", false)
	if err != nil {
		return err
	}

	defer rdwr.Close()

	var (
		reg    = prometheus.NewRegistry()
		logger = stderrLogger()
		pw     progress.Writer
		tr     *progress.Tracker
	)

	opts := []proio.OptT{
		proio.WithMetrics(proio.NewMetrics(reg)),
		proio.WithLogger(logger),
		proio.WithMaxBucketSize(CLI.MaxBucketSize),
	}

	if !CLI.Verify.Quiet {
		msg := "Verifying"
		pw = newProgressWriter(1)
		pw.SetMessageLength(len(msg))
		tr = newTracker(pw, msg, rdwr.srcSz)
		go pw.Render()
	}

	var (
		start   = time.Now()
		res, vr = _verify(rdwr.Reader(), logger, tr, opts...)
		tdiff   = time.Since(start)
	)

	if pw != nil {
		if vr != nil {
			tr.MarkAsErrored()
		} else {
			tr.MarkAsDone()
		}
		waitProgress(pw)
	}

	counters, err := gatherCounters(reg)
	if err != nil {
		return err
	}

	t := newTable("Verify results", table.Row{"Key", "Value"})
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"File name", rdwr.Name()},
		{"Size", res.offset},
		{"Buckets", res.buckets},
		{"Records", res.records},
		{"Malformed records", res.badRecords},
		{"Dropped buckets", res.dropped},
		{"Malformed headers", counters[metricMalformed]},
		{"Truncated buckets", counters[metricTruncated]},
		{"Noise bytes", counters[metricNoise]},
		{"Digest (xxhash64)", fmt.Sprintf("%016x", res.digest)},
		{"Duration", tdiff.Round(time.Microsecond)},
	})
	t.Render()

	if vr != nil {
		return vr
	}
	if res.dropped > 0 || res.badRecords > 0 {
		return fmt.Errorf("%d buckets dropped, %d malformed records", res.dropped, res.badRecords)
	}
	return nil
}

// Read every record from 'src'.  The digest covers each record length
// prefixed, in stream order.
func _verify(src io.Reader, logger log.Logger, tr *progress.Tracker, opts ...proio.OptT) (res verifyResultT, err error) {
	cb := func(info proio.BucketInfo) {
		res.buckets++
		if tr != nil {
			tr.SetValue(info.Offset)
		}
	}

	rd := proio.NewRawReader(src, append(opts, proio.WithBucketCallback(cb))...)
	defer rd.Close()

	var (
		hasher = xxhash.New()
		lenBuf [4]byte
	)

	for {
		rec, rerr := rd.Next()
		switch {
		case rerr == nil:
		case errors.Is(rerr, io.EOF):
			res.offset = rd.Offset()
			res.digest = hasher.Sum64()
			return res, nil
		case errors.Is(rerr, proio.ErrMalformedRecord):
			res.badRecords++
			continue
		case proio.BucketCorrupted(rerr):
			level.Error(logger).Log("msg", "bucket dropped", "offset", rd.Offset(), "err", rerr)
			res.dropped++
			continue
		default:
			res.offset = rd.Offset()
			return res, rerr
		}

		res.records++
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(rec)))
		hasher.Write(lenBuf[:])
		hasher.Write(rec)
	}
}
