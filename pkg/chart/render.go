// Package chart lays out bar and scatter charts from two provider columns and
// writes them as SVG or PNG.
package chart

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/debug"
	"github.com/vanderheijden86/tablegraph/pkg/metrics"
	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Request names the chart to draw: a graph kind plus the x and y column.
type Request struct {
	Kind model.GraphKind
	X    string
	Y    string
}

func (r Request) String() string {
	return fmt.Sprintf("%s(%s, %s)", r.Kind, r.X, r.Y)
}

// Renderer draws charts from the columns of a provider.
type Renderer struct {
	Provider datasource.Provider
	Options  Options
}

// NewRenderer returns a renderer over p.
func NewRenderer(p datasource.Provider, opts Options) *Renderer {
	return &Renderer{Provider: p, Options: opts.withDefaults()}
}

// Validate checks the request before any column is fetched.
func (r *Renderer) Validate(req Request) error {
	if !req.Kind.Drawable() {
		return invalid("kind", ErrUnsupportedKind, "%q", req.Kind)
	}
	if req.X == "" {
		return invalid("x", ErrNoSelection, "")
	}
	if req.Y == "" {
		return invalid("y", ErrNoSelection, "")
	}
	return nil
}

// Build fetches the request's columns and lays out the chart.
func (r *Renderer) Build(ctx context.Context, req Request) (*Scene, error) {
	if err := r.Validate(req); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { debug.LogTiming("chart build "+req.String(), time.Since(start)) }()

	var xs, ys []model.Value
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		xs, err = r.fetch(gctx, req.X)
		return err
	})
	g.Go(func() error {
		var err error
		ys, err = r.fetch(gctx, req.Y)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records, err := Records(req.Kind, xs, ys)
	if err != nil {
		return nil, err
	}
	return Layout(req.Kind, records, req.X, req.Y, r.Options)
}

func (r *Renderer) fetch(ctx context.Context, column string) ([]model.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer metrics.Timer(metrics.ColumnFetch)()
	raw, err := r.Provider.ColumnData(column)
	if err != nil {
		return nil, fmt.Errorf("fetching column %q: %w", column, err)
	}
	values, err := datasource.ParseColumnData(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding column %q: %w", column, err)
	}
	return values, ctx.Err()
}

// Render builds the chart and writes it to w as SVG.
func (r *Renderer) Render(ctx context.Context, w io.Writer, req Request) error {
	s, err := r.Build(ctx, req)
	if err != nil {
		return err
	}
	return WriteSVG(w, s)
}

// RenderPNG builds the chart and writes it to w as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, w io.Writer, req Request) error {
	s, err := r.Build(ctx, req)
	if err != nil {
		return err
	}
	return WritePNG(w, s)
}

// RenderRecords draws already-built records as SVG. labels are the x and y
// axis titles.
func RenderRecords(w io.Writer, kind model.GraphKind, records []model.Record, labels [2]string, opts Options) error {
	s, err := Layout(kind, records, labels[0], labels[1], opts)
	if err != nil {
		return err
	}
	return WriteSVG(w, s)
}

// Records zips two columns into the records a chart of the given kind plots.
func Records(kind model.GraphKind, xs, ys []model.Value) ([]model.Record, error) {
	switch kind {
	case model.KindBar:
		return BarRecords(xs, ys)
	case model.KindScatter:
		return ScatterRecords(xs, ys)
	}
	return nil, invalid("kind", ErrUnsupportedKind, "%q", kind)
}

// Layout dispatches to the layout for kind.
func Layout(kind model.GraphKind, records []model.Record, xTitle, yTitle string, opts Options) (*Scene, error) {
	defer metrics.Timer(metrics.ChartLayout)()
	switch kind {
	case model.KindBar:
		return LayoutBar(records, xTitle, yTitle, opts), nil
	case model.KindScatter:
		return LayoutScatter(records, xTitle, yTitle, opts), nil
	}
	return nil, invalid("kind", ErrUnsupportedKind, "%q", kind)
}
