package services

import (
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const GonumRendererName = "gonum"

// GonumRenderer draws scatter plots with gonum/plot
type GonumRenderer struct {
	PointRadius vg.Length
}

func NewGonumRenderer() *GonumRenderer {
	return &GonumRenderer{PointRadius: vg.Points(3.5)}
}

func (r *GonumRenderer) Name() string {
	return GonumRendererName
}

func (r *GonumRenderer) Render(req PlotRequest) (image.Image, error) {
	p := plot.New()
	p.Title.Text = req.Title
	p.X.Label.Text = req.XLabel
	p.Y.Label.Text = req.YLabel

	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Dashes = dashes
	grid.Vertical.Color = color.Gray{Y: 210}
	grid.Horizontal.Color = color.Gray{Y: 210}
	p.Add(grid)

	for _, g := range req.Groups {
		pts := make(plotter.XYs, len(g.X))
		for i := range g.X {
			pts[i].X = g.X[i]
			pts[i].Y = g.Y[i]
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = g.Color
		s.GlyphStyle.Radius = r.PointRadius
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(g.Label, s)
	}
	p.Legend.Top = true

	// vgimg rasterizes at 96 dpi.
	width := vg.Length(req.Width) * vg.Inch / 96
	height := vg.Length(req.Height) * vg.Inch / 96
	canvas := vgimg.New(width, height)
	p.Draw(draw.New(canvas))
	return canvas.Image(), nil
}
