package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Writer saves encoded images into a directory.
type Writer struct {
	dir     string
	encoder Encoder
	log     *zap.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) { w.log = l }
}

// NewWriter creates a writer for dir. A nil encoder means JPEG at the
// default quality.
func NewWriter(dir string, enc Encoder, opts ...WriterOption) *Writer {
	if enc == nil {
		enc = JPEGEncoder{}
	}
	w := &Writer{dir: dir, encoder: enc, log: zap.NewNop()}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Encoder returns the encoder in use.
func (w *Writer) Encoder() Encoder {
	return w.encoder
}

// Save encodes img to dir/name and returns the full path. The file appears
// only once it is completely written.
func (w *Writer) Save(img image.Image, name string) (string, error) {
	if img == nil {
		return "", ErrNoSurface
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid export file name %q", name)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, name)

	f, err := os.CreateTemp(w.dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o644); err != nil {
		w.log.Warn("chmod export file", zap.String("path", tmp), zap.Error(err))
	}
	if err := w.encoder.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", path, err)
	}

	b := img.Bounds()
	w.log.Info("exported image",
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return path, nil
}
