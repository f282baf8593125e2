package panels

import (
	"assessment-cam/internal/app"
	"assessment-cam/internal/asset"
	"assessment-cam/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// AssessmentPanel edits the premises side and the assessment id used in
// export filenames.
type AssessmentPanel struct {
	session *app.Session
	status  func(string)

	side  *widget.RadioGroup
	id    *widget.Entry
	valid *widget.Label
	box   *fyne.Container

	syncing bool
}

// NewAssessmentPanel creates the panel.
func NewAssessmentPanel(session *app.Session, status func(string)) *AssessmentPanel {
	if status == nil {
		status = func(string) {}
	}
	p := &AssessmentPanel{session: session, status: status}

	p.side = widget.NewRadioGroup(sideOptions(), p.onSide)
	p.side.Required = true
	p.side.SetSelected(sideLabel(session.Side()))

	p.id = widget.NewEntry()
	p.id.SetPlaceHolder("6-digit assessment ID")
	p.id.SetText(session.AssessmentID())
	p.id.OnChanged = p.onID
	p.valid = widget.NewLabel("")

	p.box = container.NewVBox(
		widget.NewLabelWithStyle("Location", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.side,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Assessment ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.id,
		p.valid,
	)
	return p
}

// Container returns the panel container.
func (p *AssessmentPanel) Container() fyne.CanvasObject {
	return p.box
}

// SyncSide selects side without feeding it back to the session.
func (p *AssessmentPanel) SyncSide(side asset.Side) {
	p.syncing = true
	p.side.SetSelected(sideLabel(side))
	p.syncing = false
}

// SetAssessmentID fills the id entry as if typed.
func (p *AssessmentPanel) SetAssessmentID(id string) {
	p.id.SetText(id)
}

func (p *AssessmentPanel) onSide(label string) {
	if p.syncing {
		return
	}
	side, ok := sideFromLabel(label)
	if !ok {
		return
	}
	if err := p.session.SetSide(side); err != nil {
		p.status(err.Error())
	}
}

// onID keeps the entry to at most six characters and only passes complete
// ids to the session. Anything else exports as NOID.
func (p *AssessmentPanel) onID(text string) {
	norm := export.NormalizeAssessmentID(text)
	if norm != text {
		p.id.SetText(norm)
		return
	}
	if err := export.ValidateAssessmentID(norm); err != nil {
		p.valid.SetText("Must be 6 digits")
		_ = p.session.SetAssessmentID("")
		return
	}
	p.valid.SetText("")
	if err := p.session.SetAssessmentID(norm); err != nil {
		p.status(err.Error())
	}
}
