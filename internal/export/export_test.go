package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"assessment-cam/internal/asset"
)

type fakeSurface struct{ img *image.RGBA }

func (f fakeSurface) Surface() *image.RGBA { return f.img }

func TestFlatten(t *testing.T) {
	if _, err := Flatten(fakeSurface{}); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("Flatten(nil surface) = %v, want ErrNoSurface", err)
	}

	src := image.NewRGBA(image.Rect(0, 0, 30, 20))
	src.SetRGBA(5, 7, color.RGBA{R: 200, A: 255})
	out, err := Flatten(fakeSurface{src})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if out == src {
		t.Fatal("Flatten returned the live surface, want a copy")
	}
	if !bytes.Equal(out.Pix, src.Pix) || out.Bounds() != src.Bounds() {
		t.Error("copy differs from the surface")
	}
	src.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	if out.RGBAAt(0, 0) == src.RGBAAt(0, 0) {
		t.Error("copy shares pixels with the surface")
	}
}

func TestValidateAssessmentID(t *testing.T) {
	tests := []struct {
		id string
		ok bool
	}{
		{"", true},
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"１２３４５６", false},
		{" 12345", false},
	}
	for _, tt := range tests {
		err := ValidateAssessmentID(tt.id)
		if tt.ok && err != nil {
			t.Errorf("ValidateAssessmentID(%q) = %v, want nil", tt.id, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidAssessmentID) {
			t.Errorf("ValidateAssessmentID(%q) = %v, want ErrInvalidAssessmentID", tt.id, err)
		}
	}
}

func TestNormalizeAssessmentID(t *testing.T) {
	if got := NormalizeAssessmentID(" 12345678 "); got != "123456" {
		t.Errorf("NormalizeAssessmentID = %q, want 123456", got)
	}
	if got := NormalizeAssessmentID("42"); got != "42" {
		t.Errorf("NormalizeAssessmentID = %q, want 42", got)
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.FixedZone("CET", 3600))
	n := Naming{Now: func() time.Time { return at }}

	tests := []struct {
		id   string
		side asset.Side
		want string
	}{
		{"123456", asset.SideFront, "assessment_123456_FOH_2024-03-09T13-05-07-123Z.jpg"},
		{"", asset.SideBack, "assessment_NOID_BOH_2024-03-09T13-05-07-123Z.jpg"},
	}
	for _, tt := range tests {
		if got := n.FileName(tt.id, tt.side); got != tt.want {
			t.Errorf("FileName(%q, %v) = %q, want %q", tt.id, tt.side, got, tt.want)
		}
	}
}

func TestWriterSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir, JPEGEncoder{Quality: 90})

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	path, err := w.Save(img, "assessment_NOID_FOH_x.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "assessment_NOID_FOH_x.jpg") {
		t.Errorf("path = %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("decoded %dx%d, want 64x32", cfg.Width, cfg.Height)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("export dir has %d entries, want 1 (no temp files)", len(entries))
	}
}

func TestWriterRejectsBadInput(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	if _, err := w.Save(nil, "a.jpg"); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Save(nil) = %v, want ErrNoSurface", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for _, name := range []string{"", "../escape.jpg", "sub/dir.jpg"} {
		if _, err := w.Save(img, name); err == nil {
			t.Errorf("Save(%q) succeeded, want error", name)
		}
	}
}
