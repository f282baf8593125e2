// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"assessment-cam/internal/app"
	"assessment-cam/internal/asset"
	"assessment-cam/internal/capture"
	"assessment-cam/internal/export"
	"assessment-cam/internal/version"
	"assessment-cam/ui/canvas"
	"assessment-cam/ui/dialogs"
	"assessment-cam/ui/panels"
	"assessment-cam/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const (
	title          = "Assessment Camera"
	captureTimeout = 10 * time.Second
	defaultWidth   = 1280
	defaultHeight  = 800
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	ctx     context.Context
	session *app.Session
	prefs   *prefs.Prefs
	log     *zap.Logger

	canvas    *canvas.PhotoCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	exportSettings dialogs.ExportSettings
}

// New creates a new main window. ctx bounds captures started from the UI.
func New(ctx context.Context, fyneApp fyne.App, session *app.Session, p *prefs.Prefs,
	settings dialogs.ExportSettings, log *zap.Logger) *MainWindow {
	if log == nil {
		log = zap.NewNop()
	}
	mw := &MainWindow{
		Window:         fyneApp.NewWindow(title),
		app:            fyneApp,
		ctx:            ctx,
		session:        session,
		prefs:          p,
		log:            log,
		exportSettings: settings,
	}

	mw.restorePrefs()
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.SetCloseIntercept(mw.onClose)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPhotoCanvas(mw.session)
	mw.statusBar = widget.NewLabel("Take a photo to begin")

	mw.sidePanel = panels.NewSidePanel(mw.session, mw.updateStatus)
	mw.sidePanel.SetWindow(mw.Window)

	split := container.NewHSplit(mw.canvas, mw.sidePanel.Container())
	split.Offset = 0.75

	mw.SetContent(container.NewBorder(
		mw.createToolbar(), // top
		mw.statusBar,       // bottom
		nil,                // left
		nil,                // right
		split,              // center
	))
	mw.Resize(fyne.NewSize(
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)),
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)),
	))
}

// createToolbar creates the toolbar with the capture and export controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	captureBtn := widget.NewButtonWithIcon("Capture", theme.MediaPhotoIcon(), mw.onCapture)
	captureBtn.Importance = widget.HighImportance
	switchBtn := widget.NewButtonWithIcon("Switch Camera", theme.ViewRefreshIcon(), mw.onSwitchCamera)
	openBtn := widget.NewButtonWithIcon("Open Photo", theme.FolderOpenIcon(), mw.onOpenPhoto)
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), mw.onExport)

	return container.NewHBox(captureBtn, switchBtn, openBtn, widget.NewSeparator(), exportBtn)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Photo...", mw.onOpenPhoto),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Snapshot", mw.onExport),
		fyne.NewMenuItem("Export Settings...", mw.onExportSettings),
	)

	cameraMenu := fyne.NewMenu("Camera",
		fyne.NewMenuItem("Capture", mw.onCapture),
		fyne.NewMenuItem("Switch Camera", mw.onSwitchCamera),
	)

	stickersMenu := fyne.NewMenu("Stickers",
		fyne.NewMenuItem("Retry Failed Stickers", mw.onRetryStickers),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, cameraMenu, stickersMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventFrameRendered, func(data interface{}) {
		if frame, ok := data.(*image.RGBA); ok {
			mw.canvas.SetFrame(frame)
		}
	})

	mw.session.On(app.EventBaseCaptured, func(data interface{}) {
		mw.SetTitle(title)
		mw.updateStatus("Photo ready. Tap a sticker to place it")
	})

	mw.session.On(app.EventStickersChanged, func(data interface{}) {
		mw.sidePanel.Stickers.Sync()
		if ids, ok := data.([]asset.ID); ok && len(ids) > 0 {
			mw.updateStatus(fmt.Sprintf("%d sticker(s) placed", len(ids)))
		}
	})

	mw.session.On(app.EventAssetLoaded, func(data interface{}) {
		mw.sidePanel.Stickers.Sync()
	})

	mw.session.On(app.EventSideChanged, func(data interface{}) {
		side, ok := data.(asset.Side)
		if !ok {
			return
		}
		mw.sidePanel.Assessment.SyncSide(side)
		mw.sidePanel.Stickers.Rebuild()
		mw.prefs.SetString(prefs.KeySide, side.Key())
		mw.updateStatus(side.String())
	})

	mw.session.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(title + " - " + filepath.Base(path))
			mw.updateStatus("Saved " + path)
		}
	})

	mw.session.On(app.EventCameraSwitched, func(data interface{}) {
		if dev, ok := data.(string); ok {
			mw.prefs.SetString(prefs.KeyCamera, dev)
			mw.updateStatus("Camera " + dev)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// restorePrefs applies the side and assessment id from the last run.
func (mw *MainWindow) restorePrefs() {
	if s := mw.prefs.String(prefs.KeySide); s != "" {
		if side, err := asset.ParseSide(s); err == nil {
			_ = mw.session.SetSide(side)
		}
	}
	if id := mw.prefs.String(prefs.KeyAssessmentID); id != "" {
		if err := mw.session.SetAssessmentID(id); err != nil {
			mw.log.Debug("ignoring saved assessment id", zap.Error(err))
		}
	}
}

func (mw *MainWindow) savePrefs() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetString(prefs.KeySide, mw.session.Side().Key())
	mw.prefs.SetString(prefs.KeyAssessmentID, mw.session.AssessmentID())
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.log.Warn("failed to save preferences", zap.Error(err))
	}
}

func (mw *MainWindow) onClose() {
	mw.savePrefs()
	mw.Close()
}

// Action handlers

func (mw *MainWindow) onCapture() {
	mw.updateStatus("Capturing...")
	go func() {
		ctx, cancel := context.WithTimeout(mw.ctx, captureTimeout)
		defer cancel()
		if err := mw.session.Capture(ctx); err != nil {
			mw.log.Warn("capture failed", zap.Error(err))
			mw.updateStatus("Capture failed")
			dialog.ShowError(err, mw.Window)
		}
	}()
}

func (mw *MainWindow) onSwitchCamera() {
	if _, err := mw.session.SwitchCamera(); err != nil {
		mw.updateStatus(err.Error())
	}
}

// onOpenPhoto loads a photo from disk in place of a camera capture. The side
// is guessed from the filename when it names one.
func (mw *MainWindow) onOpenPhoto() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()

		img, err := capture.File{Path: path}.CaptureFrame(mw.ctx)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if side := capture.GuessSide(path); side != asset.SideUnknown {
			_ = mw.session.SetSide(side)
		}
		if err := mw.session.SetBase(img); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(asset.SupportedFormats()))
	fd.Show()
}

func (mw *MainWindow) onExport() {
	go func() {
		if _, err := mw.session.Export(); err != nil {
			mw.updateStatus("Export failed")
			dialog.ShowError(err, mw.Window)
		}
	}()
}

func (mw *MainWindow) onExportSettings() {
	dialogs.NewExportSettingsDialog(mw.exportSettings, mw.Window, func(s dialogs.ExportSettings) {
		mw.exportSettings = s
		mw.session.SetWriter(export.NewWriter(s.Dir, export.JPEGEncoder{Quality: s.Quality},
			export.WithLogger(mw.log.Named("export"))))
		mw.updateStatus("Exports go to " + s.Dir)
	}).Show()
}

func (mw *MainWindow) onRetryStickers() {
	n := mw.session.RetryFailedAssets()
	mw.updateStatus(fmt.Sprintf("Retrying %d sticker(s)", n))
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+title,
		fmt.Sprintf("%s %s\n\n"+
			"Marks up premises photos with assessment stickers\n"+
			"and exports them for the inspection report.",
			title, version.String()),
		mw.Window)
}
