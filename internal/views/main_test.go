package views

import (
	"errors"
	"image"
	"testing"

	"heart-visualizer/internal/controllers"
	"heart-visualizer/internal/models"
	"heart-visualizer/internal/services"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobgu/qframe"
)

func newTestView(t *testing.T) (fyne.App, *MainView) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	w := a.NewWindow("Heart Disease Dataset Visualizer")
	return a, NewMainView(a, w, fyne.NewSize(300, 200))
}

type flatRenderer struct{ calls int }

func (r *flatRenderer) Name() string { return "flat" }

func (r *flatRenderer) Render(req services.PlotRequest) (image.Image, error) {
	r.calls++
	return image.NewRGBA(image.Rect(0, 0, req.Width, req.Height)), nil
}

func TestButtonTriggersHandler(t *testing.T) {
	_, view := newTestView(t)

	clicks := 0
	view.SetVisualizeHandler(func() { clicks++ })

	test.Tap(view.button)
	test.Tap(view.button)
	assert.Equal(t, 2, clicks)
	assert.Equal(t, VisualizeLabel, view.button.Text)
}

func TestButtonWithoutHandler(t *testing.T) {
	_, view := newTestView(t)
	assert.NotPanics(t, func() { test.Tap(view.button) })
}

func TestShowErrorOpensDialog(t *testing.T) {
	_, view := newTestView(t)

	view.ShowError("Error", errors.New("Could not plot data:\nno rows to plot"))
	assert.NotNil(t, view.GetWindow().Canvas().Overlays().Top())
}

func TestShowPlotOpensWindow(t *testing.T) {
	a, view := newTestView(t)
	before := len(a.Driver().AllWindows())

	view.ShowPlot("Heart Disease: Age vs Chol (Grouped by Diagnosis)", image.NewRGBA(image.Rect(0, 0, 50, 40)))
	view.ShowPlot("Heart Disease: Age vs Chol (Grouped by Diagnosis)", image.NewRGBA(image.Rect(0, 0, 50, 40)))

	assert.Equal(t, before+2, len(a.Driver().AllWindows()))
	assert.Equal(t, 2, view.PlotWindowCount())
}

func TestStatusAndDatasetInfo(t *testing.T) {
	_, view := newTestView(t)

	view.UpdateStatus("Plotted 297 points")
	view.SetDatasetInfo("Heart Disease: 297 rows")

	assert.Equal(t, "Plotted 297 points", view.statusBar.GetStatus())
	assert.Equal(t, "Heart Disease: 297 rows", view.statusBar.GetDatasetInfo())
}

func TestMenuHandlersInvoked(t *testing.T) {
	_, view := newTestView(t)

	var infoCalls, timingCalls int
	view.SetMenuHandlers(controllers.MenuHandlers{
		DatasetInfo:  func() { infoCalls++ },
		RenderTiming: func() { timingCalls++ },
	})

	menu := view.GetWindow().MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 3)

	for _, item := range menu.Items[1].Items {
		item.Action()
	}
	assert.Equal(t, 1, infoCalls)
	assert.Equal(t, 1, timingCalls)
}

func wire(t *testing.T, view *MainView, table *models.Table, renderer services.Renderer) *controllers.MainController {
	t.Helper()
	ctrl := controllers.NewMainController(
		table,
		controllers.DatasetInfo{Name: "Heart Disease"},
		services.NewPlotService(renderer, 60, 40, nil),
		nil,
		nil,
	)
	ctrl.SetMainView(view)
	return ctrl
}

func TestClickWithEmptyTableShowsErrorAndStaysUsable(t *testing.T) {
	a, view := newTestView(t)
	table, err := models.NewTable(qframe.New(map[string]interface{}{
		"age":  []float64{},
		"chol": []float64{},
		"num":  []float64{},
	}))
	require.NoError(t, err)
	renderer := &flatRenderer{}
	wire(t, view, table, renderer)
	before := len(a.Driver().AllWindows())

	test.Tap(view.button)

	assert.NotNil(t, view.GetWindow().Canvas().Overlays().Top())
	assert.Equal(t, "Plot failed", view.statusBar.GetStatus())
	assert.Equal(t, before, len(a.Driver().AllWindows()))
	assert.Zero(t, renderer.calls)
	assert.False(t, view.button.Disabled())
}

func TestClickTwiceRendersTwice(t *testing.T) {
	_, view := newTestView(t)
	table, err := models.NewTable(qframe.New(map[string]interface{}{
		"age":  []float64{63, 67, 37},
		"chol": []float64{233, 286, 250},
		"num":  []float64{0, 2, 0},
	}))
	require.NoError(t, err)
	renderer := &flatRenderer{}
	ctrl := wire(t, view, table, renderer)

	test.Tap(view.button)
	test.Tap(view.button)

	assert.Equal(t, 2, renderer.calls)
	assert.Equal(t, 2, ctrl.RenderCount())
	assert.Equal(t, 2, view.PlotWindowCount())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "Heart Disease: 3 rows", view.statusBar.GetDatasetInfo())
}
