// Package overlay holds the ordered set of stickers placed on the base photo.
package overlay

import (
	"assessment-cam/internal/asset"
	"assessment-cam/pkg/geometry"

	"github.com/google/uuid"
)

// Instance is one placed sticker. Geometry is in output-surface pixels with a
// top-left origin.
type Instance struct {
	ID     string
	Type   asset.ID
	Asset  *asset.Asset
	X, Y   float64
	Width  float64
	Height float64
}

func newInstanceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Bounds returns the instance's bounding box.
func (in *Instance) Bounds() geometry.Rect {
	return geometry.NewRect(in.X, in.Y, in.Width, in.Height)
}

// Center returns the bounding-box center.
func (in *Instance) Center() geometry.Point2D {
	return in.Bounds().Center()
}

// Origin returns the top-left corner.
func (in *Instance) Origin() geometry.Point2D {
	return geometry.NewPoint2D(in.X, in.Y)
}

// Corner returns the bottom-right corner, where the resize handle sits.
func (in *Instance) Corner() geometry.Point2D {
	return in.Bounds().BottomRight()
}

// Aspect returns the intrinsic width/height ratio of the sticker image.
func (in *Instance) Aspect() float64 {
	if in.Asset == nil {
		return 1
	}
	return in.Asset.Aspect()
}

// IntrinsicWidth returns the sticker image width in pixels.
func (in *Instance) IntrinsicWidth() float64 {
	if in.Asset == nil {
		return in.Width
	}
	return float64(in.Asset.Width())
}

// Clone returns a copy sharing the same asset.
func (in *Instance) Clone() *Instance {
	c := *in
	return &c
}

// MoveTo sets the top-left corner.
func (in *Instance) MoveTo(p geometry.Point2D) {
	in.X, in.Y = p.X, p.Y
}

// SetWidth sets the controlling edge, clamped to minSize, and derives the
// height from the intrinsic aspect ratio. The top-left corner does not move.
func (in *Instance) SetWidth(width, minSize float64) {
	if width < minSize {
		width = minSize
	}
	in.Width = width
	in.Height = width / in.Aspect()
}
