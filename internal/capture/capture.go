// Package capture acquires the base photo from a camera or a file.
package capture

import (
	"context"
	"errors"
	"image"
)

// ErrNoFrame is returned when a source produced no usable image.
var ErrNoFrame = errors.New("no frame captured")

// Capturer produces a still frame to use as the base surface.
type Capturer interface {
	CaptureFrame(ctx context.Context) (image.Image, error)
}

// Switcher is implemented by capturers with more than one device.
type Switcher interface {
	// Switch moves to the next device and returns its label.
	Switch() (string, error)
}
