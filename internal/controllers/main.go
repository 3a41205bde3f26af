package controllers

import (
	"fmt"
	"image"
	"strings"

	"heart-visualizer/internal/logger"
	"heart-visualizer/internal/models"
	"heart-visualizer/internal/services"
	"heart-visualizer/internal/timing"
)

const renderOperation = "render"

// View is the surface the controller drives
type View interface {
	SetVisualizeHandler(handler func())
	SetMenuHandlers(handlers MenuHandlers)
	ShowPlot(title string, img image.Image)
	ShowError(title string, err error)
	ShowInfo(title, message string)
	UpdateStatus(status string)
	SetDatasetInfo(info string)
}

// MenuHandlers are the actions reachable from the main menu
type MenuHandlers struct {
	DatasetInfo  func()
	RenderTiming func()
}

// DatasetInfo describes the loaded table for display
type DatasetInfo struct {
	Name     string
	Source   string
	Features []string
	Targets  []string
}

// PlotError is the single user-facing failure: a plot request that could not complete
type PlotError struct {
	Err error
}

func (e *PlotError) Error() string {
	return "Could not plot data:\n" + e.Err.Error()
}

func (e *PlotError) Unwrap() error {
	return e.Err
}

// MainController owns the patient table and answers button clicks
type MainController struct {
	table   *models.Table
	info    DatasetInfo
	plots   *services.PlotService
	timings *timing.Tracker
	logger  logger.Logger

	mainView View
	renders  int
}

func NewMainController(
	table *models.Table,
	info DatasetInfo,
	plots *services.PlotService,
	timings *timing.Tracker,
	log logger.Logger,
) *MainController {
	if log == nil {
		log = logger.Nop()
	}
	if timings == nil {
		timings = timing.NewTracker()
	}
	return &MainController{
		table:   table,
		info:    info,
		plots:   plots,
		timings: timings,
		logger:  log,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mainView = view
	mc.setupViewEventHandlers()
	view.SetDatasetInfo(mc.Summary())
}

func (mc *MainController) setupViewEventHandlers() {
	mc.mainView.SetVisualizeHandler(mc.Visualize)
	mc.mainView.SetMenuHandlers(MenuHandlers{
		DatasetInfo:  mc.ShowDatasetInfo,
		RenderTiming: mc.ShowRenderTimings,
	})
}

// Visualize renders the scatter plot. It runs to completion on the caller's
// goroutine; failures end up in an error dialog and leave the table intact.
func (mc *MainController) Visualize() {
	mc.renders++
	ctx := mc.timings.StartTiming(renderOperation)
	img, req, err := mc.plots.Render(mc.table)
	elapsed := mc.timings.EndTiming(ctx)

	if err != nil {
		mc.handleError("Error", &PlotError{Err: err})
		mc.updateStatus("Plot failed")
		return
	}

	mc.logger.Info("Controller", "plot rendered", map[string]interface{}{
		"request":  mc.renders,
		"renderer": mc.plots.RendererName(),
		"points":   req.Points(),
		"elapsed":  elapsed.String(),
	})

	if mc.mainView != nil {
		mc.mainView.ShowPlot(req.Title, img)
	}
	mc.updateStatus(fmt.Sprintf("Plotted %d points", req.Points()))
}

// RenderCount returns how many plot requests have been handled
func (mc *MainController) RenderCount() int {
	return mc.renders
}

// Summary is the one-line dataset description for the status bar
func (mc *MainController) Summary() string {
	rows := 0
	if mc.table != nil {
		rows = mc.table.Len()
	}
	name := mc.info.Name
	if name == "" {
		name = "Dataset"
	}
	return fmt.Sprintf("%s: %d rows", name, rows)
}

// Details lists the dataset source and columns
func (mc *MainController) Details() string {
	var b strings.Builder
	b.WriteString(mc.Summary())
	if mc.info.Source != "" {
		fmt.Fprintf(&b, "\nSource: %s", mc.info.Source)
	}
	if len(mc.info.Features) > 0 {
		fmt.Fprintf(&b, "\nFeatures: %s", strings.Join(mc.info.Features, ", "))
	}
	if len(mc.info.Targets) > 0 {
		fmt.Fprintf(&b, "\nTargets: %s", strings.Join(mc.info.Targets, ", "))
	}
	fmt.Fprintf(&b, "\nPlot: %s vs %s, renderer %s", services.FeatureX, services.FeatureY, mc.plots.RendererName())
	return b.String()
}

func (mc *MainController) ShowDatasetInfo() {
	if mc.mainView != nil {
		mc.mainView.ShowInfo("Dataset Info", mc.Details())
	}
}

func (mc *MainController) ShowRenderTimings() {
	if mc.mainView != nil {
		mc.mainView.ShowInfo("Render Timings", mc.timings.Report())
	}
}

func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error("Controller", err, map[string]interface{}{
		"request": mc.renders,
	})
	if mc.mainView != nil {
		mc.mainView.ShowError(title, err)
	}
}

func (mc *MainController) updateStatus(status string) {
	if mc.mainView != nil {
		mc.mainView.UpdateStatus(status)
	}
}

// Shutdown performs cleanup when the application closes
func (mc *MainController) Shutdown() {
	mc.logger.Info("Controller", "shutting down", map[string]interface{}{
		"renders": mc.renders,
	})
}
