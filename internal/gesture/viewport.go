package gesture

import "assessment-cam/pkg/geometry"

// Viewport maps display coordinates (where the surface is shown, possibly
// scaled) into output-surface coordinates. Each axis scales independently.
type Viewport struct {
	Display geometry.Size // size of the element showing the surface
	Surface geometry.Size // native surface resolution
}

// ToSurface converts a display point into surface pixels. An unset display
// or surface size leaves the point unchanged.
func (v Viewport) ToSurface(p geometry.Point2D) geometry.Point2D {
	return p.ScaleXY(v.Display.ScaleTo(v.Surface))
}
