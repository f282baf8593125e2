// Package colorutil provides shared color utilities for the compositor and UI.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common overlay colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.RGBA{}
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Cyan        = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta     = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue        = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green       = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow      = color.RGBA{R: 255, G: 255, B: 0, A: 255}

	// Selection is the default outline around the sticker under a gesture.
	Selection = color.RGBA{R: 0, G: 153, B: 255, A: 255}
	// Handle is the default fill of the resize handle glyph.
	Handle = White
	// HandleBorder rings the handle glyph so it stays visible on light photos.
	HandleBorder = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// ParseHex parses "#rrggbb" or "#rrggbbaa" (leading '#' optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
