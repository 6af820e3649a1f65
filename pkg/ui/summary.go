package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Stats describes one plotted series.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

func describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	s := Stats{
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Mean: stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

// Summary is the text companion of a drawn chart.
type Summary struct {
	Kind   model.GraphKind
	XTitle string
	YTitle string
	Count  int
	X      *Stats // nil for bar charts, whose x axis is ordinal
	Y      Stats
	R      *Stats
	Fills  map[string]int
}

// Summarize computes the statistics of a laid out chart.
func Summarize(s *chart.Scene) Summary {
	sum := Summary{
		Kind:   s.Kind,
		XTitle: s.XTitle,
		YTitle: s.YTitle,
		Count:  len(s.Records),
		Fills:  map[string]int{},
	}
	xs := make([]float64, len(s.Records))
	ys := make([]float64, len(s.Records))
	rs := make([]float64, len(s.Records))
	for i, r := range s.Records {
		xs[i], ys[i], rs[i] = r.X, r.Y, r.R
	}
	sum.Y = describe(ys)
	if s.Kind == model.KindScatter {
		x, r := describe(xs), describe(rs)
		sum.X, sum.R = &x, &r
	}
	for _, b := range s.Bars {
		sum.Fills[b.Fill]++
	}
	for _, p := range s.Points {
		sum.Fills[p.Fill]++
	}
	return sum
}

// Markdown renders the summary as a markdown table.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s: %s by %s\n\n", s.Kind, s.YTitle, s.XTitle)
	fmt.Fprintf(&b, "%d records\n\n", s.Count)

	cols := []string{s.YTitle}
	series := []Stats{s.Y}
	if s.X != nil {
		cols = append([]string{s.XTitle}, cols...)
		series = append([]Stats{*s.X}, series...)
	}
	if s.R != nil {
		cols = append(cols, "r")
		series = append(series, *s.R)
	}

	b.WriteString("| |")
	for _, c := range cols {
		fmt.Fprintf(&b, " %s |", escapeCell(c))
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---:|", len(cols)))
	b.WriteString("\n")
	rows := []struct {
		name string
		get  func(Stats) float64
	}{
		{"min", func(st Stats) float64 { return st.Min }},
		{"max", func(st Stats) float64 { return st.Max }},
		{"mean", func(st Stats) float64 { return st.Mean }},
		{"std dev", func(st Stats) float64 { return st.StdDev }},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s |", row.name)
		for _, st := range series {
			fmt.Fprintf(&b, " %.4g |", row.get(st))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, fill := range []string{chart.ColorHigh, chart.ColorNormal, chart.ColorLow} {
		if n := s.Fills[fill]; n > 0 {
			fmt.Fprintf(&b, "- **%s**: %d\n", fill, n)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	if width <= 0 {
		width = 60
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown falls back to the raw markdown when glamour is unavailable.
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
