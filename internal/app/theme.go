package app

import (
	"image/color"

	"assessment-cam/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AssessmentTheme is the application theme. Buttons are large enough to hit
// with a thumb on a tablet.
type AssessmentTheme struct{}

var _ fyne.Theme = (*AssessmentTheme)(nil)

func (t *AssessmentTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF} // inspection red
	case theme.ColorNameSelection:
		s := colorutil.Selection
		return color.NRGBA{R: s.R, G: s.G, B: s.B, A: 0x80}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *AssessmentTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *AssessmentTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *AssessmentTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInputBorder:
		return 2
	case theme.SizeNameText:
		return 16
	default:
		return theme.DefaultTheme().Size(name)
	}
}
