package services

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"heart-visualizer/internal/logger"
	"heart-visualizer/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Plotted columns. The axes are fixed.
const (
	FeatureX = "age"
	FeatureY = "chol"

	LegendTitle = "Diagnosis Status"
)

var (
	ErrEmptyTable      = errors.New("no rows to plot")
	ErrUnknownRenderer = errors.New("unknown renderer")
)

var (
	// ColorDisease and ColorNoDisease carry the 0.85 point opacity.
	ColorDisease   = color.NRGBA{R: 255, A: 217}
	ColorNoDisease = color.NRGBA{B: 255, A: 217}
)

// PlotRequest is everything a Renderer needs to draw one scatter plot
type PlotRequest struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Groups      []Group
	Width       int
	Height      int
}

// Points returns the number of points across all groups
func (r PlotRequest) Points() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.X)
	}
	return n
}

// Group is one colored point series
type Group struct {
	Label string
	X     []float64
	Y     []float64
	Color color.Color
}

// Renderer draws a PlotRequest into a raster image
type Renderer interface {
	Name() string
	Render(req PlotRequest) (image.Image, error)
}

// NewRenderer returns the renderer registered under name
func NewRenderer(name string) (Renderer, error) {
	switch name {
	case "", GonumRendererName:
		return NewGonumRenderer(), nil
	case ChartRendererName:
		return NewChartRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
	}
}

// GroupColor maps a derived label to its point color
func GroupColor(label string) color.Color {
	if label == models.LabelDisease {
		return ColorDisease
	}
	return ColorNoDisease
}

// PlotService turns the patient table into a rendered scatter plot
type PlotService struct {
	renderer Renderer
	width    int
	height   int
	logger   logger.Logger
}

func NewPlotService(renderer Renderer, width, height int, log logger.Logger) *PlotService {
	if log == nil {
		log = logger.Nop()
	}
	return &PlotService{
		renderer: renderer,
		width:    width,
		height:   height,
		logger:   log,
	}
}

func (ps *PlotService) RendererName() string {
	return ps.renderer.Name()
}

// BuildRequest labels and partitions the table into colored groups.
func (ps *PlotService) BuildRequest(table *models.Table) (PlotRequest, error) {
	if table == nil || table.Len() == 0 {
		return PlotRequest{}, ErrEmptyTable
	}
	for _, col := range []string{FeatureX, FeatureY} {
		if !table.HasColumn(col) {
			return PlotRequest{}, fmt.Errorf("%w: %s", models.ErrMissingColumn, col)
		}
	}

	parts, err := table.Partition()
	if err != nil {
		return PlotRequest{}, err
	}

	title := cases.Title(language.English)
	req := PlotRequest{
		Title:       fmt.Sprintf("Heart Disease: %s vs %s (Grouped by Diagnosis)", title.String(FeatureX), title.String(FeatureY)),
		XLabel:      title.String(FeatureX),
		YLabel:      title.String(FeatureY),
		LegendTitle: LegendTitle,
		Width:       ps.width,
		Height:      ps.height,
	}
	for _, part := range parts {
		xs, err := part.Table.Floats(FeatureX)
		if err != nil {
			return PlotRequest{}, err
		}
		ys, err := part.Table.Floats(FeatureY)
		if err != nil {
			return PlotRequest{}, err
		}
		req.Groups = append(req.Groups, Group{
			Label: part.Label,
			X:     xs,
			Y:     ys,
			Color: GroupColor(part.Label),
		})
	}
	return req, nil
}

// Render builds the request and draws it. Renderer panics come back as errors.
func (ps *PlotService) Render(table *models.Table) (img image.Image, req PlotRequest, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%s renderer panicked: %v", ps.renderer.Name(), r)
		}
	}()

	req, err = ps.BuildRequest(table)
	if err != nil {
		return nil, req, err
	}

	ps.logger.Debug("PlotService", "rendering scatter plot", map[string]interface{}{
		"renderer": ps.renderer.Name(),
		"groups":   len(req.Groups),
		"points":   req.Points(),
	})

	img, err = ps.renderer.Render(req)
	if err != nil {
		return nil, req, fmt.Errorf("%s renderer: %w", ps.renderer.Name(), err)
	}
	return img, req, nil
}
