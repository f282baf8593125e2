package panels

import (
	"errors"
	"sync"

	"assessment-cam/internal/app"
	"assessment-cam/internal/asset"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// StickersPanel is the sticker palette for the selected side. Each button
// toggles its sticker on the photo; placed stickers are highlighted.
type StickersPanel struct {
	session *app.Session
	window  fyne.Window
	status  func(string)

	box *fyne.Container

	mu      sync.Mutex
	buttons map[asset.ID]*widget.Button
}

// NewStickersPanel creates the palette. status receives short messages for
// the status bar and may be nil.
func NewStickersPanel(session *app.Session, status func(string)) *StickersPanel {
	if status == nil {
		status = func(string) {}
	}
	p := &StickersPanel{
		session: session,
		status:  status,
		box:     container.NewVBox(),
		buttons: make(map[asset.ID]*widget.Button),
	}
	p.Rebuild()
	return p
}

// SetWindow sets the parent window for dialogs.
func (p *StickersPanel) SetWindow(w fyne.Window) {
	p.window = w
}

// Container returns the panel container.
func (p *StickersPanel) Container() fyne.CanvasObject {
	return container.NewVScroll(p.box)
}

// Rebuild recreates the buttons from the current side's catalog.
func (p *StickersPanel) Rebuild() {
	ids := p.session.Catalog()

	p.mu.Lock()
	p.buttons = make(map[asset.ID]*widget.Button, len(ids))
	objects := make([]fyne.CanvasObject, 0, len(ids)+1)
	for _, id := range ids {
		id := id
		btn := widget.NewButton(stickerLabel(id), func() { p.onToggle(id) })
		p.buttons[id] = btn
		objects = append(objects, btn)
	}
	p.mu.Unlock()

	if len(objects) == 0 {
		objects = append(objects, widget.NewLabel("No stickers for this side"))
	}
	p.box.Objects = objects
	p.box.Refresh()
	p.Sync()
}

// Sync updates button highlights and availability.
func (p *StickersPanel) Sync() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, btn := range p.buttons {
		label := stickerLabel(id)
		imp := widget.MediumImportance
		if p.session.IsPlaced(id) {
			imp = widget.HighImportance
		}
		switch a := p.session.Asset(id); a.State() {
		case asset.StateFailed:
			label += " (unavailable)"
			imp = widget.DangerImportance
		case asset.StatePending:
			label += " ..."
		}
		btn.SetText(label)
		btn.Importance = imp
		btn.Refresh()
	}
}

// Placed reports whether the button for id is highlighted as placed.
func (p *StickersPanel) Placed(id asset.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	btn, ok := p.buttons[id]
	return ok && btn.Importance == widget.HighImportance
}

// Len returns the number of sticker buttons.
func (p *StickersPanel) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buttons)
}

func (p *StickersPanel) onToggle(id asset.ID) {
	err := p.session.Toggle(id)
	var loadErr *asset.LoadError
	switch {
	case err == nil:
	case errors.Is(err, app.ErrNoBase):
		p.status("Take a photo before adding stickers")
	case errors.Is(err, asset.ErrNotReady):
		p.status(stickerLabel(id) + " is still loading")
	case errors.As(err, &loadErr):
		p.status(stickerLabel(id) + " could not be loaded")
		if p.window != nil {
			dialog.ShowError(err, p.window)
		}
	default:
		p.status(err.Error())
	}
}
