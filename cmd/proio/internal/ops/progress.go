package ops

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	strStdin = "<STDIN>"
)

func newProgressWriter(nTrackers int) progress.Writer {
	pw := progress.NewWriter()
	pw.SetAutoStop(true)
	pw.SetMessageLength(24)
	pw.SetNumTrackersExpected(nTrackers)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(25)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%4.1f%%"
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true
	pw.Style().Visibility.Speed = true
	pw.Style().Visibility.Time = true
	return pw
}

func newTracker(pw progress.Writer, msg string, total int64) *progress.Tracker {
	tr := &progress.Tracker{
		Message: msg,
		Units:   progress.UnitsBytes,
	}
	if total > 0 {
		tr.Total = total
	}
	pw.AppendTracker(tr)
	return tr
}

func waitProgress(pw progress.Writer) {
	for pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond * 100)
	}
}

// Flatten the counters gathered from 'reg' into "name{label=value}" keys.
func gatherCounters(reg *prometheus.Registry) (map[string]float64, error) {
	mfs, err := reg.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			out[key] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}

func newTable(title string, hdr table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle(title)
	t.AppendHeader(hdr)
	return t
}
