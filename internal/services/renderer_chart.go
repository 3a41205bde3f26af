package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const ChartRendererName = "gochart"

// ChartRenderer draws scatter plots with go-chart
type ChartRenderer struct {
	DotWidth float64
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{DotWidth: 4}
}

func (r *ChartRenderer) Name() string {
	return ChartRendererName
}

// pointStyle renders points only, no connecting line
func (r *ChartRenderer) pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    r.DotWidth,
		DotColor:    col,
	}
}

func toDrawingColor(c color.Color) drawing.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

func (r *ChartRenderer) Render(req PlotRequest) (image.Image, error) {
	series := make([]chart.Series, 0, len(req.Groups))
	for _, g := range req.Groups {
		series = append(series, chart.ContinuousSeries{
			Name:    g.Label,
			XValues: g.X,
			YValues: g.Y,
			Style:   r.pointStyle(toDrawingColor(g.Color)),
		})
	}

	grid := chart.Style{
		StrokeColor:     drawing.ColorFromHex("d2d2d2"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{3, 3},
	}
	ch := chart.Chart{
		Title:      req.Title,
		Width:      req.Width,
		Height:     req.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: req.XLabel, GridMajorStyle: grid},
		YAxis:      chart.YAxis{Name: req.YLabel, GridMajorStyle: grid},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}
