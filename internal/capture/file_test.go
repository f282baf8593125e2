package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"assessment-cam/internal/asset"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestFileCaptureFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kitchen.png")
	writePNG(t, path, 32, 24)

	img, err := File{Path: path}.CaptureFrame(context.Background())
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("bounds = %v, want 32x24", b)
	}
}

func TestFileCaptureErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := File{Path: filepath.Join(dir, "missing.png")}.CaptureFrame(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (File{Path: junk}).CaptureFrame(context.Background()); err == nil {
		t.Error("decoding junk succeeded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (File{Path: junk}).CaptureFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled capture = %v, want context.Canceled", err)
	}
}

func TestGuessSide(t *testing.T) {
	tests := []struct {
		path string
		want asset.Side
	}{
		{"/photos/FOH_entrance.jpg", asset.SideFront},
		{"front-door.png", asset.SideFront},
		{"kitchen_line.jpg", asset.SideBack},
		{"boh.tiff", asset.SideBack},
		{"IMG_0001.jpg", asset.SideUnknown},
	}
	for _, tt := range tests {
		if got := GuessSide(tt.path); got != tt.want {
			t.Errorf("GuessSide(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
