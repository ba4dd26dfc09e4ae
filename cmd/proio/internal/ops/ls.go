package ops

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/go-kit/log"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prequel-dev/proio"
	"github.com/prometheus/client_golang/prometheus"
)

type listResultT struct {
	name     string
	size     int64
	buckets  int
	events   uint64
	payload  uint64
	noise    int64
	codecs   map[proio.Compression]int
	duration time.Duration
	err      error
}

func RunList() error {
	var (
		files  = CLI.Ls.Files
		reg    = prometheus.NewRegistry()
		m      = proio.NewMetrics(reg)
		logger = stderrLogger()
	)

	nWorkers := CLI.Cpus
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	nWorkers = min(nWorkers, len(files))

	var pw progress.Writer
	if !CLI.Ls.Quiet {
		pw = newProgressWriter(len(files))
		go pw.Render()
	}

	var (
		wp      = workerpool.New(nWorkers)
		results = make([]listResultT, len(files))
	)

	for i, name := range files {
		var tr *progress.Tracker
		if pw != nil {
			tr = newTracker(pw, filepath.Base(name), fileSize(name))
		}

		wp.Submit(func() {
			results[i] = listFile(name, tr,
				proio.WithMetrics(m),
				proio.WithLogger(log.With(logger, "file", name)),
				proio.WithMaxBucketSize(CLI.MaxBucketSize),
			)
		})
	}

	wp.StopWait()

	if pw != nil {
		waitProgress(pw)
	}

	var errList []error
	for _, res := range results {
		if res.err != nil {
			errList = append(errList, fmt.Errorf("%s: %w", res.name, res.err))
		}
	}

	t := listTable(results)
	t.SetOutputMirror(os.Stdout)
	t.Render()

	if CLI.Ls.Stats {
		counters, err := gatherCounters(reg)
		if err != nil {
			return err
		}
		st := newTable("Reader metrics", table.Row{"Metric", "Value"})
		st.SetOutputMirror(os.Stdout)
		for _, key := range slices.Sorted(maps.Keys(counters)) {
			st.AppendRow(table.Row{key, counters[key]})
		}
		st.Render()
	}

	return errors.Join(errList...)
}

// Scan 'name' by bulk skipping every bucket; nothing is decompressed.
func listFile(name string, tr *progress.Tracker, opts ...proio.OptT) listResultT {
	var (
		start = time.Now()
		res   = listResultT{
			name:   name,
			codecs: make(map[proio.Compression]int),
		}
	)

	cb := func(info proio.BucketInfo) {
		res.buckets++
		res.events += info.Header.NEvents
		res.payload += info.Header.BucketSize
		res.noise += info.Noise
		res.codecs[info.Header.Compression]++
		if tr != nil {
			tr.SetValue(info.Offset)
		}
	}

	rd, err := proio.OpenFile(name, append(opts, proio.WithBucketCallback(cb))...)
	if err != nil {
		res.err = err
		if tr != nil {
			tr.MarkAsErrored()
		}
		return res
	}

	_, res.err = rd.Skip(math.MaxInt)
	res.size = rd.Offset()
	res.duration = time.Since(start)

	if err := rd.Close(); err != nil && res.err == nil {
		res.err = err
	}

	if tr != nil {
		if res.err != nil {
			tr.MarkAsErrored()
		} else {
			tr.SetValue(res.size)
			tr.MarkAsDone()
		}
	}

	return res
}

func listTable(results []listResultT) table.Writer {
	t := newTable("Buckets", table.Row{"File", "Size", "Buckets", "Events", "Payload", "Noise", "Codecs", "Duration"})

	var total listResultT
	for _, res := range results {
		t.AppendRow(table.Row{
			res.name,
			res.size,
			res.buckets,
			res.events,
			res.payload,
			res.noise,
			codecMix(res.codecs),
			res.duration.Round(time.Microsecond),
		})

		total.size += res.size
		total.buckets += res.buckets
		total.events += res.events
		total.payload += res.payload
		total.noise += res.noise
	}

	if len(results) > 1 {
		t.AppendFooter(table.Row{"Total", total.size, total.buckets, total.events, total.payload, total.noise, "", ""})
	}
	return t
}

// Format as "GZIP:3 LZ4:1" ordered by tag.
func codecMix(codecs map[proio.Compression]int) string {
	var sb strings.Builder
	for _, c := range slices.Sorted(maps.Keys(codecs)) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s:%d", c, codecs[c])
	}
	return sb.String()
}

func fileSize(name string) int64 {
	fi, err := os.Stat(name)
	if err != nil {
		return -1
	}
	return fi.Size()
}
