package chart

import (
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/tablegraph/pkg/metrics"
)

var fillColors = map[string]color.Color{
	ColorHigh:   color.RGBA{R: 0xff, A: 0xff},
	ColorNormal: color.RGBA{G: 0x80, B: 0x80, A: 0xff},
	ColorLow:    color.Black,
}

func fillColor(name string) color.Color {
	if c, ok := fillColors[name]; ok {
		return c
	}
	return color.Black
}

// WritePNG rasterises the scene onto a white canvas.
func WritePNG(w io.Writer, s *Scene) error {
	defer metrics.Timer(metrics.PNGEncode)()
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	dc.Translate(s.OffsetX, s.OffsetY)

	for _, b := range s.Bars {
		dc.SetColor(fillColor(b.Fill))
		dc.DrawRectangle(float64(px(b.X)), float64(px(b.Y)), float64(px(b.W)), float64(px(b.H)))
		dc.Fill()
	}
	for _, p := range s.Points {
		dc.SetColor(fillColor(p.Fill))
		dc.DrawCircle(p.CX, p.CY, p.R)
		dc.Fill()
	}
	for _, a := range s.Axes {
		drawAxisPNG(dc, a)
	}

	return dc.EncodePNG(w)
}

func drawAxisPNG(dc *gg.Context, a Axis) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(a.DX, a.DY)
	dc.SetColor(fillColor(colorAxis))
	dc.SetLineWidth(1)

	if a.Orient == OrientBottom {
		dc.DrawLine(a.RangeStart, 0, a.RangeEnd, 0)
		dc.Stroke()
		for _, t := range a.Ticks {
			dc.DrawLine(t.Pos, 0, t.Pos, 6)
			dc.Stroke()
			dc.DrawStringAnchored(t.Label, t.Pos, 16, 0.5, 0.5)
		}
		if a.Title != "" {
			dc.DrawStringAnchored(a.Title, (a.RangeStart+a.RangeEnd)/2, 32, 0.5, 0.5)
		}
		return
	}

	dc.DrawLine(0, a.RangeStart, 0, a.RangeEnd)
	dc.Stroke()
	for _, t := range a.Ticks {
		dc.DrawLine(-6, t.Pos, 0, t.Pos)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, -9, t.Pos, 1, 0.5)
	}
	if a.Title != "" {
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), -38, (a.RangeStart+a.RangeEnd)/2)
		dc.DrawStringAnchored(a.Title, -38, (a.RangeStart+a.RangeEnd)/2, 0.5, 0.5)
		dc.Pop()
	}
}
