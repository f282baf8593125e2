package render

import (
	"image"
	"image/color"
	"math"
)

// drawLine draws a line of the given thickness using Bresenham's algorithm.
func drawLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := dst.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				p := image.Pt(x1+s, y1+t)
				if p.In(bounds) {
					dst.SetRGBA(p.X, p.Y, col)
				}
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillCircle paints every pixel whose center lies within r of (cx, cy).
func fillCircle(dst *image.RGBA, cx, cy, r float64, col color.RGBA) {
	ring(dst, cx, cy, r, -1, col)
}

// strokeCircle paints a ring of the given width inside radius r.
func strokeCircle(dst *image.RGBA, cx, cy, r, width float64, col color.RGBA) {
	ring(dst, cx, cy, r, r-width, col)
}

func ring(dst *image.RGBA, cx, cy, outer, inner float64, col color.RGBA) {
	area := image.Rect(
		int(math.Floor(cx-outer-1)), int(math.Floor(cy-outer-1)),
		int(math.Ceil(cx+outer+1)), int(math.Ceil(cy+outer+1)),
	).Intersect(dst.Bounds())

	outer2 := outer * outer
	inner2 := -1.0
	if inner > 0 {
		inner2 = inner * inner
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			d2 := dx*dx + dy*dy
			if d2 <= outer2 && d2 >= inner2 {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}

// strokeRect draws an outline of the given width just inside r.
func strokeRect(dst *image.RGBA, r image.Rectangle, width int, col color.RGBA) {
	if r.Empty() || width <= 0 {
		return
	}
	if 2*width >= r.Dx() || 2*width >= r.Dy() {
		fillRect(dst, r, col)
		return
	}
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), col)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), col)
}

func fillRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, y, col)
		}
	}
}
