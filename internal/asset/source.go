package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source loads the bitmap for a sticker identifier.
type Source interface {
	Load(ctx context.Context, id ID) (image.Image, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, id ID) (image.Image, error)

// Load calls f(ctx, id).
func (f SourceFunc) Load(ctx context.Context, id ID) (image.Image, error) {
	return f(ctx, id)
}

// FSSource reads stickers laid out as {side}/{code}.{ext} under a filesystem root.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource creates a source rooted at a directory on disk.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Load finds the file for id and decodes it. Extensions match in any case;
// when several files share the code, SupportedFormats order wins.
func (s *FSSource) Load(ctx context.Context, id ID) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := s.find(id)
	if err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open sticker: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sticker %s: %w", name, err)
	}
	return img, nil
}

func (s *FSSource) find(id ID) (string, error) {
	entries, err := fs.ReadDir(s.fsys, id.Side.Key())
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("no image for %s: %w", id, fs.ErrNotExist)
	}
	if err != nil {
		return "", fmt.Errorf("failed to list stickers: %w", err)
	}
	best, rank := "", len(SupportedFormats())
	for _, e := range entries {
		if e.IsDir() || codeOf(e.Name()) != id.Code {
			continue
		}
		if r := formatRank(e.Name()); r < rank {
			best, rank = e.Name(), r
		}
	}
	if best == "" {
		return "", fmt.Errorf("no image for %s: %w", id, fs.ErrNotExist)
	}
	return path.Join(id.Side.Key(), best), nil
}

// Catalog lists the marker codes available for one side, in directory order.
func (s *FSSource) Catalog(side Side) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, side.Key())
	if err != nil {
		return nil, err
	}
	var codes []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFormat(e.Name()) {
			continue
		}
		code := codeOf(e.Name())
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func codeOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// formatRank is the position of the file's extension in SupportedFormats,
// or len(SupportedFormats()) when unsupported.
func formatRank(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	formats := SupportedFormats()
	for i, f := range formats {
		if ext == f {
			return i
		}
	}
	return len(formats)
}

// SupportedFormats returns the list of supported image formats, in lookup order.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(p string) bool {
	return formatRank(p) < len(SupportedFormats())
}
