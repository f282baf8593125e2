package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"assessment-cam/internal/asset"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// File captures by decoding an image file. It stands in for a camera in the
// headless tool and on machines without one.
type File struct {
	Path string
}

// CaptureFrame implements Capturer.
func (f File) CaptureFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", f.Path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w", f.Path, ErrNoFrame)
	}
	return img, nil
}

// GuessSide infers the premises side from a photo's filename.
func GuessSide(path string) asset.Side {
	base := strings.ToLower(filepath.Base(path))

	for _, kw := range []string{"foh", "front", "dining", "counter"} {
		if strings.Contains(base, kw) {
			return asset.SideFront
		}
	}
	for _, kw := range []string{"boh", "back", "kitchen", "storage"} {
		if strings.Contains(base, kw) {
			return asset.SideBack
		}
	}
	return asset.SideUnknown
}
