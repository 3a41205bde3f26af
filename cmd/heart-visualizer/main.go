package main

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"

	"heart-visualizer/internal/config"
	"heart-visualizer/internal/controllers"
	"heart-visualizer/internal/dataset"
	"heart-visualizer/internal/logger"
	"heart-visualizer/internal/models"
	"heart-visualizer/internal/services"
	"heart-visualizer/internal/shutdown"
	"heart-visualizer/internal/timing"
	"heart-visualizer/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Heart Disease Dataset Visualizer"
	AppID      = "org.uci.heartvisualizer"
	AppVersion = "1.0.0"
)

// Application holds the wired components for the lifetime of the window
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	controller *controllers.MainController
	view       *views.MainView
	shutdown   *shutdown.Manager
	stopped    atomic.Bool
}

func main() {
	cfg, err := config.FromEnv()
	appLogger := logger.NewConsoleLogger(logger.LevelFromEnv(cfg.LogLevel))
	if err != nil {
		appLogger.Error("Main", err, map[string]interface{}{"stage": "config"})
		os.Exit(1)
	}

	table, info, err := loadTable(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("Main", err, map[string]interface{}{"stage": "dataset"})
		os.Exit(1)
	}

	application, err := NewApplication(cfg, table, info, appLogger)
	if err != nil {
		appLogger.Error("Main", err, map[string]interface{}{"stage": "init"})
		os.Exit(1)
	}

	application.Run()
}

// loadTable fetches the dataset, merges features and targets and drops incomplete rows.
func loadTable(ctx context.Context, cfg config.Config, log logger.Logger) (*models.Table, controllers.DatasetInfo, error) {
	tracker := timing.NewTracker()
	timingCtx := tracker.StartTiming("load")

	ds, err := dataset.Load(ctx, cfg.Dataset, log)
	if err != nil {
		return nil, controllers.DatasetInfo{}, err
	}

	raw, err := models.NewTable(ds.Frame)
	if err != nil {
		return nil, controllers.DatasetInfo{}, err
	}
	table, err := raw.DropNulls()
	if err != nil {
		return nil, controllers.DatasetInfo{}, err
	}

	log.Info("Main", "dataset loaded", map[string]interface{}{
		"name":         ds.Name,
		"rows":         raw.Len(),
		"rows_dropped": raw.Len() - table.Len(),
		"columns":      len(table.Columns()),
		"elapsed":      tracker.EndTiming(timingCtx).String(),
	})

	return table, controllers.DatasetInfo{
		Name:     ds.Name,
		Source:   ds.Source,
		Features: ds.Features,
		Targets:  ds.Targets,
	}, nil
}

// NewApplication creates the window and wires controller, view and renderer
func NewApplication(cfg config.Config, table *models.Table, info controllers.DatasetInfo, log logger.Logger) (*Application, error) {
	renderer, err := services.NewRenderer(cfg.Plot.Renderer)
	if err != nil {
		return nil, err
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.SetMaster()
	window.CenterOnScreen()

	plotSize := fyne.NewSize(float32(cfg.Plot.Width), float32(cfg.Plot.Height))
	mainView := views.NewMainView(fyneApp, window, plotSize)

	plots := services.NewPlotService(renderer, cfg.Plot.Width, cfg.Plot.Height, log)
	mainController := controllers.NewMainController(table, info, plots, timing.NewTracker(), log)
	mainController.SetMainView(mainView)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		controller: mainController,
		view:       mainView,
		shutdown:   shutdown.NewManager(log),
	}
	application.shutdown.Register(mainController)
	application.shutdown.Register(shutdown.Func(application.quit))

	log.Info("Main", "application initialized", map[string]interface{}{
		"version":    AppVersion,
		"renderer":   renderer.Name(),
		"rows":       table.Len(),
		"go_version": runtime.Version(),
	})

	return application, nil
}

// quit stops the event loop from a signal goroutine. It is a no-op once the
// loop has already returned.
func (a *Application) quit() {
	if a.stopped.Load() {
		return
	}
	fyne.Do(a.view.Close)
	fyne.Do(a.fyneApp.Quit)
}

// Run shows the window and blocks until the application exits
func (a *Application) Run() {
	a.shutdown.Listen()

	a.window.SetOnClosed(func() {
		a.logger.Info("Main", "window closed", nil)
	})

	a.window.ShowAndRun()

	a.stopped.Store(true)
	a.shutdown.Shutdown()
	a.logger.Info("Main", "application terminated", nil)
}
