package chart

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/tablegraph/pkg/metrics"
)

// WriteSVG writes the scene as a standalone SVG document.
func WriteSVG(w io.Writer, s *Scene) error {
	defer metrics.Timer(metrics.SVGEncode)()
	canvas := svg.New(w)
	canvas.Start(s.Width, s.Height, `id="svgElement"`)

	canvas.Group(fmt.Sprintf(`transform="translate(%s,%s)"`, num(s.OffsetX), num(s.OffsetY)))
	for _, a := range s.Axes {
		drawAxisSVG(canvas, a)
	}
	for _, b := range s.Bars {
		canvas.Rect(px(b.X), px(b.Y), px(b.W), px(b.H), `class="bar"`, fmt.Sprintf(`fill="%s"`, b.Fill))
	}
	for _, p := range s.Points {
		canvas.Circle(px(p.CX), px(p.CY), px(p.R), fmt.Sprintf(`fill="%s"`, p.Fill))
	}
	canvas.Gend()

	canvas.End()
	return nil
}

func drawAxisSVG(canvas *svg.SVG, a Axis) {
	canvas.Group(
		fmt.Sprintf(`class="%s"`, a.Class),
		fmt.Sprintf(`transform="translate(%s,%s)"`, num(a.DX), num(a.DY)),
	)
	stroke := fmt.Sprintf(`stroke="%s"`, colorAxis)

	for _, t := range a.Ticks {
		if a.Orient == OrientBottom {
			canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(%s,0)"`, num(t.Pos)))
			canvas.Line(0, 0, 0, 6, stroke)
			canvas.Text(0, 9, t.Label, `dy=".71em"`, `text-anchor="middle"`)
		} else {
			canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(0,%s)"`, num(t.Pos)))
			canvas.Line(0, 0, -6, 0, stroke)
			canvas.Text(-9, 0, t.Label, `dy=".32em"`, `text-anchor="end"`)
		}
		canvas.Gend()
	}

	var domain string
	if a.Orient == OrientBottom {
		domain = fmt.Sprintf("M%s,6V0H%sV6", num(a.RangeStart), num(a.RangeEnd))
	} else {
		domain = fmt.Sprintf("M-6,%sH0V%sH-6", num(a.RangeStart), num(a.RangeEnd))
	}
	canvas.Path(domain, `class="domain"`, `fill="none"`, stroke)

	if a.Title != "" {
		if a.Orient == OrientBottom {
			canvas.Text(px(a.RangeEnd/2-50), 35, a.Title,
				`class="label"`, `dx=".71em"`, `font-size="1.5em"`, `text-anchor="start"`)
		} else {
			canvas.Text(-175, -35, a.Title,
				`class="label"`, `transform="rotate(-90)"`, `font-size="1.5em"`, `text-anchor="end"`)
		}
	}
	canvas.Gend()
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func num(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}
