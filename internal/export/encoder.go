package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 80

// Encoder serializes a flattened image.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Ext is the filename extension including the dot.
	Ext() string
}

// JPEGEncoder writes baseline JPEG.
type JPEGEncoder struct {
	Quality int // 1-100; zero means DefaultQuality
}

// Encode implements Encoder.
func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	q := e.Quality
	if q <= 0 {
		q = DefaultQuality
	}
	if q > 100 {
		q = 100
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: q}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// Ext implements Encoder.
func (JPEGEncoder) Ext() string { return ".jpg" }
