package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/anchortile/pkg/coverage"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

var (
	anchorColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	circleColor = color.RGBA{R: 30, G: 60, B: 220, A: 255}
)

// circleSegments is the polyline resolution of a coverage circle.
const circleSegments = 72

func renderPlot(format string, scene Scene, o options) ([]byte, error) {
	p := plot.New()
	p.Title.Text = o.title
	p.X.Label.Text = "Length (m)"
	p.Y.Label.Text = "Width (m)"
	p.Add(plotter.NewGrid())

	if o.heatmap && scene.Grid != nil {
		hm, err := heatmap(scene.Grid)
		if err != nil {
			return nil, err
		}
		if hm != nil {
			p.Add(hm)
		}
	}

	if len(scene.Anchors) > 0 {
		if o.circles {
			if err := addCircles(p, scene.Anchors, scene.Radius); err != nil {
				return nil, err
			}
		}
		s, err := plotter.NewScatter(anchorXYs(scene.Anchors))
		if err != nil {
			return nil, fmt.Errorf("anchor scatter: %w", err)
		}
		s.GlyphStyle.Color = anchorColor
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add("Anchor Positions", s)
	}

	p.X.Min, p.X.Max = 0, scene.Region.Length
	p.Y.Min, p.Y.Max = 0, scene.Region.Width
	p.Legend.Top = true

	wt, err := p.WriterTo(o.width, o.height, format)
	if err != nil {
		return nil, fmt.Errorf("%s writer: %w", format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func anchorXYs(anchors []tiling.Anchor) plotter.XYs {
	xys := make(plotter.XYs, len(anchors))
	for i, a := range anchors {
		xys[i] = plotter.XY{X: a.X, Y: a.Y}
	}
	return xys
}

func addCircles(p *plot.Plot, anchors []tiling.Anchor, radius float64) error {
	if radius <= 0 {
		return nil
	}
	for i, a := range anchors {
		l, err := plotter.NewLine(circle(a.X, a.Y, radius))
		if err != nil {
			return fmt.Errorf("coverage circle: %w", err)
		}
		l.LineStyle.Color = circleColor
		l.LineStyle.Width = vg.Points(0.8)
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(l)
		if i == 0 {
			p.Legend.Add("Coverage Radius", l)
		}
	}
	return nil
}

func circle(cx, cy, r float64) plotter.XYs {
	xys := make(plotter.XYs, circleSegments+1)
	for i := range xys {
		theta := 2 * math.Pi * float64(i) / circleSegments
		xys[i] = plotter.XY{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
	}
	return xys
}

// gridXYZ adapts a coverage grid to plotter.GridXYZ. Cell (x, y) is drawn
// over the unit square [x, x+1] x [y, y+1].
type gridXYZ struct{ g *coverage.Grid }

func (g gridXYZ) Dims() (c, r int)   { return g.g.Dims() }
func (g gridXYZ) Z(c, r int) float64 { return float64(g.g.At(c, r)) }
func (g gridXYZ) X(c int) float64    { return float64(c) + 0.5 }
func (g gridXYZ) Y(r int) float64    { return float64(r) + 0.5 }

// heatmap returns nil when the grid is too small to draw, since the heatmap
// plotter needs two cells per axis to infer cell size.
func heatmap(g *coverage.Grid) (*plotter.HeatMap, error) {
	nx, ny := g.Dims()
	if nx < 2 || ny < 2 {
		return nil, nil
	}
	pal, err := brewer.GetPalette(brewer.TypeSequential, "YlGnBu", 9)
	if err != nil {
		return nil, fmt.Errorf("heatmap palette: %w", err)
	}
	hm := plotter.NewHeatMap(gridXYZ{g}, translucent(pal, 0x80))
	hm.Min = 0
	hm.Max = math.Max(float64(g.Max()), 1)
	return hm, nil
}

// translucent returns pal with every color's alpha set to a.
func translucent(pal palette.Palette, a uint8) palette.Palette {
	src := pal.Colors()
	out := make([]color.Color, len(src))
	for i, c := range src {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		n.A = a
		out[i] = n
	}
	return staticPalette(out)
}

type staticPalette []color.Color

func (p staticPalette) Colors() []color.Color { return p }
