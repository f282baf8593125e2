// Package panels provides UI panels for the application.
package panels

import (
	"assessment-cam/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	Assessment *AssessmentPanel
	Stickers   *StickersPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(session *app.Session, status func(string)) *SidePanel {
	sp := &SidePanel{
		Assessment: NewAssessmentPanel(session, status),
		Stickers:   NewStickersPanel(session, status),
	}
	sp.container = container.NewAppTabs(
		container.NewTabItem("Stickers", sp.Stickers.Container()),
		container.NewTabItem("Assessment", sp.Assessment.Container()),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.Stickers.SetWindow(w)
}
