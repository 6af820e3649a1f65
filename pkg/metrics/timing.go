// Package metrics times the stages a chart passes through on its way from
// the data file to the screen. Each stage keeps a running count and the
// total, fastest and slowest duration; the web host serves the snapshot at
// /api/metrics.
//
// Set TG_METRICS=0 to turn collection off.
//
//	defer metrics.Timer(metrics.ChartLayout)()
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("TG_METRICS") != "0")
}

// Enabled reports whether stages record durations.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns collection on or off for every stage.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// Stage accumulates the durations of one pipeline stage. Safe for
// concurrent use.
type Stage struct {
	name  string
	count atomic.Int64
	total atomic.Int64 // ns
	slow  atomic.Int64 // ns
	fast  atomic.Int64 // ns; 0 until the first sample
}

func newStage(name string) *Stage {
	return &Stage{name: name}
}

// Pipeline stages.
var (
	DataLoad      = newStage("data_load")
	ColumnFetch   = newStage("column_fetch")
	ChartLayout   = newStage("chart_layout")
	SVGEncode     = newStage("svg_encode")
	PNGEncode     = newStage("png_encode")
	PanelDispatch = newStage("panel_dispatch")
)

// Stages lists the pipeline stages in the order a chart passes through them.
func Stages() []*Stage {
	return []*Stage{PanelDispatch, DataLoad, ColumnFetch, ChartLayout, SVGEncode, PNGEncode}
}

// Record adds one sample.
func (s *Stage) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	s.count.Add(1)
	s.total.Add(ns)
	for {
		cur := s.slow.Load()
		if ns <= cur || s.slow.CompareAndSwap(cur, ns) {
			break
		}
	}
	for {
		cur := s.fast.Load()
		if (cur != 0 && ns >= cur) || s.fast.CompareAndSwap(cur, ns) {
			break
		}
	}
}

func (s *Stage) Name() string { return s.name }

func (s *Stage) Count() int64 { return s.count.Load() }

// Fastest is the shortest sample, or 0 before any sample.
func (s *Stage) Fastest() time.Duration { return time.Duration(s.fast.Load()) }

func (s *Stage) Slowest() time.Duration { return time.Duration(s.slow.Load()) }

// Mean is 0 before any sample.
func (s *Stage) Mean() time.Duration {
	n := s.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(s.total.Load() / n)
}

// Reset drops every sample.
func (s *Stage) Reset() {
	s.count.Store(0)
	s.total.Store(0)
	s.slow.Store(0)
	s.fast.Store(0)
}

// TimingStats is the JSON form of a stage served by the web host.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

func ms(ns int64) float64 { return float64(ns) / float64(time.Millisecond) }

// Stats snapshots the stage.
func (s *Stage) Stats() TimingStats {
	n, total := s.count.Load(), s.total.Load()
	st := TimingStats{
		Name:    s.name,
		Count:   n,
		TotalMs: ms(total),
		MaxMs:   ms(s.slow.Load()),
		MinMs:   ms(s.fast.Load()),
	}
	if n > 0 {
		st.AvgMs = ms(total / n)
	}
	return st
}

// Timer starts timing s; call the result when the stage ends. A nil stage
// or disabled collection yields a no-op.
func Timer(s *Stage) func() {
	if s == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { s.Record(time.Since(start)) }
}

// ResetAll drops the samples of every stage.
func ResetAll() {
	for _, s := range Stages() {
		s.Reset()
	}
}

// AllTimingStats snapshots the stages that have samples.
func AllTimingStats() []TimingStats {
	out := make([]TimingStats, 0, 6)
	for _, s := range Stages() {
		if s.Count() > 0 {
			out = append(out, s.Stats())
		}
	}
	return out
}
