package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"assessment-cam/internal/asset"
	"assessment-cam/internal/overlay"
	"assessment-cam/pkg/colorutil"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v >= -tol && v <= tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func sticker(x, y, w, h float64, img image.Image) *overlay.Instance {
	id := asset.NewID(asset.SideFront, "test")
	return &overlay.Instance{
		ID:     "test",
		Type:   id,
		Asset:  asset.NewReady(id, img),
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
}

func TestRenderWithoutBase(t *testing.T) {
	c := NewCompositor()
	if out := c.Render(nil, nil); out != nil {
		t.Fatalf("Render without base = %v, want nil", out.Bounds())
	}
	if c.Surface() != nil {
		t.Error("Surface set without a base")
	}
	if !c.Size().Empty() {
		t.Errorf("Size = %+v, want empty", c.Size())
	}
}

func TestEmptyRenderMatchesBase(t *testing.T) {
	// Non-zero origin exercises the conversion in SetBase.
	src := image.NewRGBA(image.Rect(10, 10, 74, 58))
	for y := 10; y < 58; y++ {
		for x := 10; x < 74; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8(x ^ y), A: 255})
		}
	}
	c := NewCompositor()
	c.SetBase(src)

	out := c.Render(nil, nil)
	if out.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Fatalf("bounds = %v, want 64x48 at origin", out.Bounds())
	}
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			if got, want := out.RGBAAt(x, y), src.RGBAAt(x+10, y+10); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	again := c.Render(nil, nil)
	if !bytes.Equal(out.Pix, again.Pix) {
		t.Error("second render differs from the first")
	}
	if c.Surface() != again {
		t.Error("Surface does not return the last frame")
	}
}

func TestRenderIsIdempotentWithStickers(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(400, 400, colorutil.Black))
	in := sticker(100, 150, 200, 100, solid(20, 10, colorutil.Blue))

	first := c.Render([]*overlay.Instance{in}, in)
	second := c.Render([]*overlay.Instance{in}, in)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("repeated render differs")
	}
}

func TestSelectionOutlineOnlyOnActive(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(400, 400, colorutil.Black))
	in := sticker(100, 150, 200, 100, solid(200, 100, colorutil.Blue))
	list := []*overlay.Instance{in}
	style := c.Style()

	idle := c.Render(list, nil)
	if got := idle.RGBAAt(100, 150); !near(got, colorutil.Blue, 1) {
		t.Errorf("corner pixel without selection = %v, want blue", got)
	}

	sel := c.Render(list, in)
	for _, p := range []image.Point{{100, 150}, {100 + style.OutlineWidth - 1, 200}, {200, 249}} {
		if got := sel.RGBAAt(p.X, p.Y); got != style.OutlineColor {
			t.Errorf("outline pixel %v = %v, want %v", p, got, style.OutlineColor)
		}
	}
	if got := sel.RGBAAt(200, 200); !near(got, colorutil.Blue, 1) {
		t.Errorf("interior pixel = %v, want blue", got)
	}
	if got := sel.RGBAAt(99, 149); got != colorutil.Black {
		t.Errorf("outline leaked outside the sticker: %v", got)
	}
}

func TestDecorationsFollowPaintOrder(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(400, 400, colorutil.Black))
	lower := sticker(100, 100, 200, 100, solid(200, 100, colorutil.Blue))
	upper := sticker(50, 50, 120, 120, solid(120, 120, colorutil.Green))
	style := c.Style()

	out := c.Render([]*overlay.Instance{lower, upper}, lower)
	// Left edge of lower: covered by upper at y=150, visible below it.
	if got := out.RGBAAt(100, 150); !near(got, colorutil.Green, 1) {
		t.Errorf("outline under the upper sticker = %v, want green", got)
	}
	if got := out.RGBAAt(100, 180); got != style.OutlineColor {
		t.Errorf("uncovered outline pixel = %v, want %v", got, style.OutlineColor)
	}

	// Upper's corner at (170,170) lies inside lower: its handle sits on top.
	if got := out.RGBAAt(174, 166); got != style.HandleFill {
		t.Errorf("upper handle = %v, want %v", got, style.HandleFill)
	}
}

func TestHandleGlyphOnEveryInstance(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(400, 400, colorutil.Black))
	a := sticker(100, 150, 200, 100, solid(200, 100, colorutil.Blue))
	b := sticker(10, 10, 50, 50, solid(50, 50, colorutil.Green))
	style := c.Style()

	out := c.Render([]*overlay.Instance{a, b}, nil)
	for _, corner := range []image.Point{{300, 250}, {60, 60}} {
		if got := out.RGBAAt(corner.X+4, corner.Y-4); got != style.HandleFill {
			t.Errorf("handle fill near %v = %v, want %v", corner, got, style.HandleFill)
		}
		if got := out.RGBAAt(corner.X+9, corner.Y); got != style.HandleBorder {
			t.Errorf("handle border near %v = %v, want %v", corner, got, style.HandleBorder)
		}
	}
}

func TestUnreadyAssetsAreSkipped(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(100, 100, colorutil.Black))
	base := c.Render(nil, nil)

	id := asset.NewID(asset.SideBack, "pending")
	pending := &overlay.Instance{Type: id, Asset: &asset.Asset{ID: id}, X: 10, Y: 10, Width: 50, Height: 50}
	out := c.Render([]*overlay.Instance{pending}, pending)
	if !bytes.Equal(base.Pix, out.Pix) {
		t.Error("pending asset changed the surface")
	}
}

func TestOutputSizeScalesBase(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(40, 30, colorutil.Green))
	c.SetOutputSize(80, 60)
	if s := c.Size(); s.Width != 80 || s.Height != 60 {
		t.Fatalf("Size = %+v, want 80x60", s)
	}
	out := c.Render(nil, nil)
	if out.Bounds().Dx() != 80 || out.Bounds().Dy() != 60 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(40, 30); !near(got, colorutil.Green, 1) {
		t.Errorf("scaled pixel = %v, want green", got)
	}

	c.SetOutputSize(0, 0)
	if s := c.Size(); s.Width != 40 || s.Height != 30 {
		t.Errorf("Size after reset = %+v, want 40x30", s)
	}
}

func TestSetBaseClearsSurface(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(10, 10, colorutil.Black))
	c.Render(nil, nil)
	c.SetBase(solid(20, 20, colorutil.White))
	if c.Surface() != nil {
		t.Error("Surface survived a new base")
	}
	c.SetBase(nil)
	if c.HasBase() {
		t.Error("HasBase after clearing")
	}
}

func TestPlainHasNoDecorations(t *testing.T) {
	c := NewCompositor()
	c.SetBase(solid(400, 400, colorutil.Black))
	in := sticker(100, 150, 200, 100, solid(200, 100, colorutil.Blue))
	list := []*overlay.Instance{in}

	shown := c.Render(list, in)
	plain := c.Plain(list).Surface()
	if plain == nil {
		t.Fatal("Plain returned an empty frame")
	}
	if got := plain.RGBAAt(100, 150); !near(got, colorutil.Blue, 1) {
		t.Errorf("plain corner = %v, want blue without outline", got)
	}
	if got := plain.RGBAAt(304, 246); got != colorutil.Black {
		t.Errorf("plain handle area = %v, want base", got)
	}
	if c.Surface() != shown {
		t.Error("Plain replaced the displayed frame")
	}

	empty := NewCompositor()
	if empty.Plain(list).Surface() != nil {
		t.Error("Plain without base returned pixels")
	}
}
