package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// PlotDisplay shows one rendered plot scaled to fit its window
type PlotDisplay struct {
	container *fyne.Container
	raster    *canvas.Image
	source    image.Image
}

// NewPlotDisplay wraps a rendered plot. The minimum size is the plot's own
// pixel size so the window opens at full resolution.
func NewPlotDisplay(img image.Image) *PlotDisplay {
	pd := &PlotDisplay{source: img}

	pd.raster = canvas.NewImageFromImage(img)
	pd.raster.FillMode = canvas.ImageFillContain
	pd.raster.ScaleMode = canvas.ImageScaleSmooth
	if img != nil {
		b := img.Bounds()
		pd.raster.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	}

	pd.container = container.NewStack(pd.raster)
	return pd
}

// Image returns the plot being displayed
func (pd *PlotDisplay) Image() image.Image {
	return pd.source
}

// GetContainer returns the display container
func (pd *PlotDisplay) GetContainer() *fyne.Container {
	return pd.container
}
