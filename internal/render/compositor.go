// Package render composites the captured photo and placed stickers into the
// output surface.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"assessment-cam/internal/overlay"
	"assessment-cam/pkg/colorutil"
	"assessment-cam/pkg/geometry"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
)

// Style controls the selection and handle decorations.
type Style struct {
	OutlineWidth int
	OutlineColor color.RGBA
	HandleRadius float64 // radius of the drawn handle glyph, not its hit zone
	HandleFill   color.RGBA
	HandleBorder color.RGBA
}

// DefaultStyle returns the standard decoration style.
func DefaultStyle() Style {
	return Style{
		OutlineWidth: 3,
		OutlineColor: colorutil.Selection,
		HandleRadius: 10,
		HandleFill:   colorutil.Handle,
		HandleBorder: colorutil.HandleBorder,
	}
}

// Compositor owns the base surface and produces rendered frames. It is not
// safe for concurrent use.
type Compositor struct {
	style  Style
	scaler xdraw.Scaler
	log    *zap.Logger

	base    *image.RGBA
	size    image.Point // explicit output size; zero means base size
	surface *image.RGBA // last rendered frame
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithStyle overrides the decoration style.
func WithStyle(s Style) Option {
	return func(c *Compositor) { c.style = s }
}

// WithScaler sets the interpolator used for the base and stickers.
func WithScaler(s xdraw.Scaler) Option {
	return func(c *Compositor) { c.scaler = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compositor) { c.log = l }
}

// NewCompositor creates a compositor with no base surface.
func NewCompositor(opts ...Option) *Compositor {
	c := &Compositor{
		style:  DefaultStyle(),
		scaler: xdraw.BiLinear,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Style returns the decoration style in use.
func (c *Compositor) Style() Style {
	return c.style
}

// SetBase replaces the base surface. The image is converted to RGBA once,
// with its origin moved to (0, 0). A nil image clears the base.
func (c *Compositor) SetBase(img image.Image) {
	c.surface = nil
	if img == nil {
		c.base = nil
		return
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	c.base = rgba
	c.log.Debug("base surface set", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
}

// HasBase reports whether a base surface is present.
func (c *Compositor) HasBase() bool {
	return c.base != nil
}

// SetOutputSize fixes the output surface size. Zero or negative values
// return to the base size.
func (c *Compositor) SetOutputSize(w, h int) {
	if w <= 0 || h <= 0 {
		c.size = image.Point{}
		return
	}
	c.size = image.Pt(w, h)
}

// Size returns the output surface size, or an empty size without a base.
func (c *Compositor) Size() geometry.Size {
	b := c.bounds()
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

func (c *Compositor) bounds() image.Rectangle {
	if c.base == nil {
		return image.Rectangle{}
	}
	if c.size != (image.Point{}) {
		return image.Rectangle{Max: c.size}
	}
	return c.base.Bounds()
}

// Surface returns the most recently rendered frame, or nil if nothing has
// been rendered since the base was set.
func (c *Compositor) Surface() *image.RGBA {
	return c.surface
}

// Render draws the base, then each instance bottom to top. Every instance
// gets its resize handle, and active its selection outline, right after its
// own pixels, so a sticker higher in the stack covers the decorations of
// the ones below it. Without a base it draws nothing and returns nil.
// Instances whose asset is not Ready are skipped.
func (c *Compositor) Render(instances []*overlay.Instance, active *overlay.Instance) *image.RGBA {
	out := c.compose(instances, func(dst *image.RGBA, in *overlay.Instance) {
		if in == active {
			strokeRect(dst, pixelRect(in.Bounds()), c.style.OutlineWidth, c.style.OutlineColor)
		}
		c.drawHandle(dst, in.Corner())
	})
	if out == nil {
		return nil
	}
	c.surface = out
	return out
}

// Frame is a standalone rendered image.
type Frame struct {
	img *image.RGBA
}

// Surface returns the frame's pixels, or nil for an empty frame.
func (f Frame) Surface() *image.RGBA {
	return f.img
}

// Plain renders the base and stickers without selection or handle
// decorations. It leaves the last displayed frame untouched.
func (c *Compositor) Plain(instances []*overlay.Instance) Frame {
	return Frame{img: c.compose(instances, nil)}
}

// compose paints the base and the Ready instances in order, calling decorate
// after each instance when it is non-nil.
func (c *Compositor) compose(instances []*overlay.Instance, decorate func(*image.RGBA, *overlay.Instance)) *image.RGBA {
	if c.base == nil {
		return nil
	}
	out := image.NewRGBA(c.bounds())
	if out.Bounds() == c.base.Bounds() {
		draw.Draw(out, out.Bounds(), c.base, image.Point{}, draw.Src)
	} else {
		c.scaler.Scale(out, out.Bounds(), c.base, c.base.Bounds(), xdraw.Src, nil)
	}

	for _, in := range instances {
		if in.Asset == nil || !in.Asset.Ready() {
			continue
		}
		if r := pixelRect(in.Bounds()); !r.Empty() {
			src := in.Asset.Image
			c.scaler.Scale(out, r, src, src.Bounds(), xdraw.Over, nil)
		}
		if decorate != nil {
			decorate(out, in)
		}
	}
	return out
}

// drawHandle paints the resize glyph: a bordered disc with a diagonal stroke.
func (c *Compositor) drawHandle(dst *image.RGBA, p geometry.Point2D) {
	r := c.style.HandleRadius
	if r <= 0 {
		return
	}
	fillCircle(dst, p.X, p.Y, r, c.style.HandleFill)
	strokeCircle(dst, p.X, p.Y, r, 2, c.style.HandleBorder)
	d := int(math.Round(r / 2))
	x, y := int(math.Round(p.X)), int(math.Round(p.Y))
	drawLine(dst, x-d, y-d, x+d, y+d, c.style.HandleBorder, 2)
}

func pixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	)
}
