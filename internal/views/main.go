package views

import (
	"fmt"
	"image"

	"heart-visualizer/internal/controllers"
	"heart-visualizer/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const VisualizeLabel = "Visualize Heart Data"

// MainView is the single application window: one centered button and a status bar
type MainView struct {
	app           fyne.App
	window        fyne.Window
	mainContainer *fyne.Container
	button        *widget.Button
	statusBar     *components.StatusBar
	plotSize      fyne.Size
	plotWindows   []fyne.Window

	visualizeHandler func()
	menuHandlers     controllers.MenuHandlers
}

// NewMainView builds the main window content. plotSize is the initial size of plot windows.
func NewMainView(app fyne.App, window fyne.Window, plotSize fyne.Size) *MainView {
	view := &MainView{
		app:      app,
		window:   window,
		plotSize: plotSize,
	}

	view.initializeComponents()
	view.buildLayout()
	view.buildMenus()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.button = widget.NewButton(VisualizeLabel, mv.onVisualize)
	mv.button.Importance = widget.HighImportance
	mv.statusBar = components.NewStatusBar()
}

// buildLayout centers the button with twice as much space below it as above
func (mv *MainView) buildLayout() {
	center := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(mv.button),
		layout.NewSpacer(),
		layout.NewSpacer(),
	)

	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		center,
	)
	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) buildMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem(VisualizeLabel, mv.onVisualize),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Dataset Info", func() {
			if mv.menuHandlers.DatasetInfo != nil {
				mv.menuHandlers.DatasetInfo()
			}
		}),
		fyne.NewMenuItem("Render Timings", func() {
			if mv.menuHandlers.RenderTiming != nil {
				mv.menuHandlers.RenderTiming()
			}
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mv.ShowAboutDialog),
	)
	mv.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

func (mv *MainView) onVisualize() {
	if mv.visualizeHandler != nil {
		mv.visualizeHandler()
	}
}

// SetVisualizeHandler sets the handler for the visualize button
func (mv *MainView) SetVisualizeHandler(handler func()) {
	mv.visualizeHandler = handler
}

// SetMenuHandlers sets the handlers behind the View menu
func (mv *MainView) SetMenuHandlers(handlers controllers.MenuHandlers) {
	mv.menuHandlers = handlers
}

// ShowPlot opens the rendered plot in its own window
func (mv *MainView) ShowPlot(title string, img image.Image) {
	display := components.NewPlotDisplay(img)

	plotWindow := mv.app.NewWindow(title)
	plotWindow.SetContent(display.GetContainer())
	plotWindow.Resize(mv.plotSize)
	plotWindow.SetOnClosed(func() {
		mv.forgetPlotWindow(plotWindow)
	})

	mv.plotWindows = append(mv.plotWindows, plotWindow)
	plotWindow.Show()
}

func (mv *MainView) forgetPlotWindow(w fyne.Window) {
	for i, open := range mv.plotWindows {
		if open == w {
			mv.plotWindows = append(mv.plotWindows[:i], mv.plotWindows[i+1:]...)
			return
		}
	}
}

// PlotWindowCount returns how many plot windows are open
func (mv *MainView) PlotWindowCount() int {
	return len(mv.plotWindows)
}

// ShowError displays a modal error dialog over the main window
func (mv *MainView) ShowError(title string, err error) {
	d := dialog.NewError(err, mv.window)
	d.Show()
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// UpdateStatus sets the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetDatasetInfo sets the dataset summary shown in the status bar
func (mv *MainView) SetDatasetInfo(info string) {
	mv.statusBar.SetDatasetInfo(info)
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// Show displays the view
func (mv *MainView) Show() {
	mv.window.Show()
}

// Close closes every plot window and then the main window
func (mv *MainView) Close() {
	for _, w := range append([]fyne.Window(nil), mv.plotWindows...) {
		w.Close()
	}
	mv.window.Close()
}

// ShowAboutDialog displays application information
func (mv *MainView) ShowAboutDialog() {
	meta := mv.app.Metadata()
	content := container.NewVBox(
		widget.NewLabel(meta.Name),
		widget.NewLabel(fmt.Sprintf("Version: %s", meta.Version)),
		widget.NewLabel(""),
		widget.NewLabel("Scatter plot of the UCI Heart Disease dataset,"),
		widget.NewLabel("age against cholesterol, grouped by diagnosis."),
	)

	dialog.ShowCustom("About", "Close", content, mv.window)
}
