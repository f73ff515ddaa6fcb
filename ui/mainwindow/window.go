// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"piper/internal/app"
	mapengine "piper/internal/mousemap"
	"piper/internal/svgdoc"
	"piper/internal/version"
	"piper/ui/mousemap"
	"piper/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle = "Piper"

	defaultWidth  = 900
	defaultHeight = 620

	// maxControls bounds the buttonN and ledN anchors looked up per device.
	maxControls = 20
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	logger *log.Logger

	tabs      *container.AppTabs
	buttons   *page
	leds      *page
	statusBar *widget.Label
}

// page is one configuration tab: a MouseMap over one layer.
type page struct {
	title    string
	layer    string
	item     *container.TabItem
	mouseMap *mousemap.MouseMap
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, logger *log.Logger) *MainWindow {
	if logger == nil {
		logger = log.Default()
	}
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		logger: logger,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	if d, ok := state.Device(); ok {
		mw.showDevice(d)
	}
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.buttons = newPage("Buttons", "Buttons")
	mw.leds = newPage("LEDs", "LEDs")
	mw.tabs = container.NewAppTabs(mw.buttons.item, mw.leds.item)

	mw.statusBar = widget.NewLabel("No device")

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.tabs,                           // center
	)
	mw.SetContent(content)

	mw.Resize(fyne.NewSize(
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)),
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)),
	))
	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.Close()
	})
}

func newPage(title, layer string) *page {
	return &page{
		title: title,
		layer: layer,
		item:  container.NewTabItem(title, widget.NewLabel("No device")),
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Illustration...", mw.onOpenIllustration),
		fyne.NewMenuItem("Reload", mw.onReload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.SavePreferences()
			mw.app.Quit()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDeviceLoaded, func(data interface{}) {
		if d, ok := data.(app.Device); ok {
			mw.showDevice(d)
		}
	})

	mw.state.On(app.EventDeviceFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Failed to load illustration: " + err.Error())
		}
	})
}

// showDevice rebuilds both pages for d.
func (mw *MainWindow) showDevice(d app.Device) {
	mw.SetTitle(appTitle + " - " + d.Name)
	if d.Model != "" {
		mw.prefs.SetString(prefs.KeyLastModel, d.Model)
	}

	spacing := mw.prefs.FloatWithFallback(prefs.KeySpacing, mapengine.DefaultSpacing)
	mw.buttons.show(d.Document, spacing, mw.logger, func(i int) mousemap.Control {
		label := fmt.Sprintf("Button %d", i)
		return mousemap.NewHoverButton(label, func() {
			mw.updateStatus(label + " selected")
		})
	})
	mw.leds.show(d.Document, spacing, mw.logger, func(i int) mousemap.Control {
		return mousemap.NewHoverBox(widget.NewLabel(fmt.Sprintf("LED %d", i)))
	})
	mw.tabs.Refresh()

	mw.updateStatus(fmt.Sprintf("%s: %d buttons, %d LEDs",
		d.Name, len(mw.buttons.controls()), len(mw.leds.controls())))
}

// show replaces the page content with a MouseMap over doc, with a control
// from newControl for every anchor of the page's layer.
func (p *page) show(doc *svgdoc.Document, spacing float64, logger *log.Logger, newControl func(int) mousemap.Control) {
	if p.mouseMap != nil {
		p.mouseMap.Close()
		p.mouseMap = nil
	}

	m, err := mousemap.New(doc, p.layer, logger, mapengine.WithSpacing(spacing))
	if err != nil {
		logger.Warn("cannot show layer", "layer", p.layer, "err", err)
		p.item.Content = widget.NewLabel(fmt.Sprintf("This device has no %s illustration", p.title))
		return
	}

	anchorFor := mapengine.ButtonAnchor
	if p.layer == "LEDs" {
		anchorFor = mapengine.LEDAnchor
	}
	for i := 0; i < maxControls; i++ {
		anchor := anchorFor(i)
		if !doc.Has(anchor.Leader()) {
			continue
		}
		m.Attach(newControl(i), anchor.ID())
	}

	p.mouseMap = m
	p.item.Content = container.NewScroll(container.NewCenter(m))
}

func (p *page) controls() []mousemap.Control {
	if p.mouseMap == nil {
		return nil
	}
	return p.mouseMap.Controls()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// SavePreferences stores the window size and writes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.logger.Warn("cannot save preferences", "path", mw.prefs.Path(), "err", err)
	}
}

func (mw *MainWindow) onOpenIllustration() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.openIllustration(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".svg"}))
	if dir := mw.prefs.String(prefs.KeyLastOpenDir); dir != "" {
		if loc, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(loc)
		}
	}
	fd.Show()
}

// openIllustration loads path and remembers its directory for the next
// dialog. The lookup directory in KeySVGDir is left alone.
func (mw *MainWindow) openIllustration(path string) error {
	if err := mw.state.LoadFile(path); err != nil {
		return err
	}
	mw.prefs.SetString(prefs.KeyLastOpenDir, filepath.Dir(path))
	return nil
}

func (mw *MainWindow) onReload() {
	if err := mw.state.Reload(); err != nil {
		mw.updateStatus("Reload failed: " + err.Error())
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Piper",
		"Piper "+version.String()+"\n\n"+
			"Configure the buttons and LEDs of gaming mice.",
		mw.Window)
}
