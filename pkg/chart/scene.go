package chart

import (
	"math"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Fill colours.
const (
	ColorHigh   = "red"
	ColorNormal = "teal"
	ColorLow    = "black"
	colorAxis   = "black"
)

// Options controls canvas size and colour thresholds.
type Options struct {
	Width        int
	Height       int
	BarThreshold float64 // bars above this are ColorHigh
	ScatterHigh  float64 // points with r above this are ColorHigh
	ScatterMid   float64 // points with r above this are ColorNormal
}

// DefaultOptions returns the 400x500 canvas with the stock thresholds.
func DefaultOptions() Options {
	return Options{
		Width:        400,
		Height:       500,
		BarThreshold: 80,
		ScatterHigh:  80,
		ScatterMid:   40,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.BarThreshold == 0 {
		o.BarThreshold = d.BarThreshold
	}
	if o.ScatterHigh == 0 {
		o.ScatterHigh = d.ScatterHigh
	}
	if o.ScatterMid == 0 {
		o.ScatterMid = d.ScatterMid
	}
	return o
}

// Orient is the side of the plot an axis is drawn on.
type Orient int

const (
	OrientBottom Orient = iota
	OrientLeft
)

// Tick is one labelled axis tick, positioned along the axis.
type Tick struct {
	Pos   float64
	Label string
}

// Axis is an axis line with ticks. DX/DY translate it inside the plot group.
type Axis struct {
	Orient     Orient
	Class      string
	DX, DY     float64
	RangeStart float64
	RangeEnd   float64
	Ticks      []Tick
	Title      string
}

// BarShape is one drawn bar.
type BarShape struct {
	X, Y, W, H float64
	Fill       string
	Record     model.Record
}

// PointShape is one drawn scatter point.
type PointShape struct {
	CX, CY, R float64
	Fill      string
	Record    model.Record
}

// Scene is a fully laid out chart, independent of the output format.
type Scene struct {
	Kind    model.GraphKind
	Width   int
	Height  int
	OffsetX float64
	OffsetY float64
	XTitle  string
	YTitle  string
	Bars    []BarShape
	Points  []PointShape
	Axes    []Axis
	Records []model.Record
}

const (
	barMarginTop    = 20
	barMarginRight  = 20
	barMarginBottom = 40
	barMarginLeft   = 50
	barPadding      = 0.1
	scatterPadding  = 30
	scatterTicks    = 5
	defaultTicks    = 10
)

// BarFill returns the fill of a bar with value y.
func (o Options) BarFill(y float64) string {
	if y > o.withDefaults().BarThreshold {
		return ColorHigh
	}
	return ColorNormal
}

// ScatterFill returns the fill of a point with datum radius r.
func (o Options) ScatterFill(r float64) string {
	o = o.withDefaults()
	switch {
	case r > o.ScatterHigh:
		return ColorHigh
	case r > o.ScatterMid:
		return ColorNormal
	default:
		return ColorLow
	}
}

// LayoutBar lays out a bar chart: x labels on a band scale, y on a linear
// scale from 0 to the largest value.
func LayoutBar(records []model.Record, xTitle, yTitle string, opts Options) *Scene {
	opts = opts.withDefaults()
	width := float64(opts.Width - barMarginLeft - barMarginRight)
	height := float64(opts.Height - barMarginTop - barMarginBottom)

	labels := make([]string, len(records))
	lo, hi := 0.0, 0.0
	for i, r := range records {
		labels[i] = r.Label
		lo = math.Min(lo, r.Y)
		hi = math.Max(hi, r.Y)
	}
	x := NewRoundBands(labels, 0, width, barPadding)
	y := NewLinear(lo, hi, height, 0)

	s := &Scene{
		Kind:    model.KindBar,
		Width:   opts.Width,
		Height:  opts.Height,
		OffsetX: barMarginLeft,
		OffsetY: barMarginTop,
		XTitle:  xTitle,
		YTitle:  yTitle,
		Records: records,
	}

	zero := y.Map(0)
	for _, r := range records {
		top := y.Map(r.Y)
		s.Bars = append(s.Bars, BarShape{
			X:      x.Map(r.Label),
			Y:      math.Min(top, zero),
			W:      x.Bandwidth(),
			H:      math.Abs(zero - top),
			Fill:   opts.BarFill(r.Y),
			Record: r,
		})
	}

	xAxis := Axis{Orient: OrientBottom, Class: "x axis", DY: height, RangeStart: 0, RangeEnd: width, Title: xTitle}
	for _, label := range x.Domain() {
		xAxis.Ticks = append(xAxis.Ticks, Tick{Pos: x.Map(label) + x.Bandwidth()/2, Label: label})
	}
	yAxis := Axis{Orient: OrientLeft, Class: "y_axis", RangeStart: height, RangeEnd: 0, Title: yTitle}
	yAxis.Ticks = linearTicks(y, defaultTicks)

	s.Axes = []Axis{xAxis, yAxis}
	return s
}

// LayoutScatter lays out a scatter plot: x and y on linear scales from 0 to
// their maxima, point radius scaled from the datum radius.
func LayoutScatter(records []model.Record, xTitle, yTitle string, opts Options) *Scene {
	opts = opts.withDefaults()
	w := float64(opts.Width)
	h := float64(opts.Height)

	maxX, maxY := 0.0, 0.0
	for _, r := range records {
		maxX = math.Max(maxX, r.X)
		maxY = math.Max(maxY, r.Y)
	}
	x := NewLinear(0, maxX, scatterPadding, w-scatterPadding*2)
	y := NewLinear(0, maxY, h-scatterPadding, scatterPadding)
	// drawn radius follows the largest y value, not the largest r
	rs := NewLinear(0, maxY, 2, 5)

	s := &Scene{
		Kind:    model.KindScatter,
		Width:   opts.Width,
		Height:  opts.Height,
		XTitle:  xTitle,
		YTitle:  yTitle,
		Records: records,
	}
	for _, r := range records {
		s.Points = append(s.Points, PointShape{
			CX:     x.Map(r.X),
			CY:     y.Map(r.Y),
			R:      rs.Map(r.R),
			Fill:   opts.ScatterFill(r.R),
			Record: r,
		})
	}

	s.Axes = []Axis{
		{
			Orient: OrientBottom, Class: "axis", DY: h - scatterPadding,
			RangeStart: x.R0, RangeEnd: x.R1, Ticks: linearTicks(x, scatterTicks),
		},
		{
			Orient: OrientLeft, Class: "axis", DX: scatterPadding,
			RangeStart: y.R0, RangeEnd: y.R1, Ticks: linearTicks(y, scatterTicks),
		},
	}
	return s
}

func linearTicks(s LinearScale, count int) []Tick {
	format := s.TickFormat(count)
	var ticks []Tick
	for _, v := range s.Ticks(count) {
		ticks = append(ticks, Tick{Pos: s.Map(v), Label: format(v)})
	}
	return ticks
}
