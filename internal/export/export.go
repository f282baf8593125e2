// Package export flattens the rendered surface and writes it to disk.
package export

import (
	"errors"
	"image"
	"image/draw"
)

// ErrNoSurface is returned when there is nothing to export.
var ErrNoSurface = errors.New("no rendered surface")

// Surface exposes the last rendered frame. *render.Compositor implements it.
type Surface interface {
	Surface() *image.RGBA
}

// Flatten returns a copy of the current frame at its native resolution.
func Flatten(s Surface) (*image.RGBA, error) {
	src := s.Surface()
	if src == nil || src.Bounds().Empty() {
		return nil, ErrNoSurface
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}
