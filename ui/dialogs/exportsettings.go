// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ExportSettings is where and how snapshots are written.
type ExportSettings struct {
	Dir     string
	Quality int
}

// ExportSettingsDialog provides a property sheet for the export settings.
type ExportSettingsDialog struct {
	settings ExportSettings
	window   fyne.Window

	dirEntry     *widget.Entry
	qualityEntry *widget.Entry

	onSave func(ExportSettings)
}

// NewExportSettingsDialog creates a new export settings dialog.
func NewExportSettingsDialog(settings ExportSettings, window fyne.Window, onSave func(ExportSettings)) *ExportSettingsDialog {
	return &ExportSettingsDialog{
		settings: settings,
		window:   window,
		onSave:   onSave,
	}
}

// Show displays the dialog.
func (d *ExportSettingsDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Export Settings",
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if !save {
				return
			}
			s, err := ParseExportSettings(d.dirEntry.Text, d.qualityEntry.Text)
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			d.settings = s
			if d.onSave != nil {
				d.onSave(s)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(480, 220))
	dlg.Show()
}

func (d *ExportSettingsDialog) createContent() fyne.CanvasObject {
	d.dirEntry = widget.NewEntry()
	d.dirEntry.SetText(d.settings.Dir)

	d.qualityEntry = widget.NewEntry()
	d.qualityEntry.SetText(strconv.Itoa(d.settings.Quality))

	form := widget.NewForm(
		widget.NewFormItem("Folder", d.dirEntry),
		widget.NewFormItem("JPEG quality (1-100)", d.qualityEntry),
	)
	return container.NewPadded(form)
}

// ParseExportSettings validates the text fields of the dialog.
func ParseExportSettings(dir, quality string) (ExportSettings, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ExportSettings{}, errors.New("export folder is required")
	}
	q, err := strconv.Atoi(strings.TrimSpace(quality))
	if err != nil {
		return ExportSettings{}, fmt.Errorf("invalid JPEG quality %q", quality)
	}
	if q < 1 || q > 100 {
		return ExportSettings{}, fmt.Errorf("JPEG quality %d out of range 1-100", q)
	}
	return ExportSettings{Dir: dir, Quality: q}, nil
}
