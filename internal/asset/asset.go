// Package asset provides sticker image loading and the shared asset cache.
package asset

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Side indicates which part of the premises a photo and its markers belong to.
type Side int

const (
	SideUnknown Side = iota
	SideFront        // Front of house
	SideBack         // Back of house
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "Front of house"
	case SideBack:
		return "Back of house"
	default:
		return "Unknown"
	}
}

// Key returns the namespace segment used in asset identifiers and paths.
func (s Side) Key() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	default:
		return "unknown"
	}
}

// Code returns the short location token used in export filenames.
func (s Side) Code() string {
	switch s {
	case SideFront:
		return "FOH"
	case SideBack:
		return "BOH"
	default:
		return "UNK"
	}
}

// ParseSide accepts "front"/"back" and the FOH/BOH codes, case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "foh":
		return SideFront, nil
	case "back", "boh":
		return SideBack, nil
	}
	return SideUnknown, fmt.Errorf("unknown side %q", s)
}

// ID is the fully qualified identifier of a sticker type. Two catalogs may
// use the same marker code; the side keeps them apart.
type ID struct {
	Side Side
	Code string
}

// NewID creates an ID.
func NewID(side Side, code string) ID {
	return ID{Side: side, Code: code}
}

// String returns "{side}/{code}".
func (id ID) String() string {
	return id.Side.Key() + "/" + id.Code
}

// ParseID parses the "{side}/{code}" form.
func ParseID(s string) (ID, error) {
	sideStr, code, ok := strings.Cut(s, "/")
	if !ok || code == "" {
		return ID{}, fmt.Errorf("invalid asset id %q", s)
	}
	side, err := ParseSide(sideStr)
	if err != nil {
		return ID{}, fmt.Errorf("invalid asset id %q: %w", s, err)
	}
	return ID{Side: side, Code: code}, nil
}

// State is the load state of an Asset.
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrNotReady is returned when an asset is requested before its decode has
// finished. The load keeps running; callers may retry once it completes.
var ErrNotReady = errors.New("asset not ready")

var errEmptyImage = errors.New("decoded image is empty")

// LoadError reports a sticker image that could not be fetched or decoded.
type LoadError struct {
	ID  ID
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load asset %s: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Asset is a decoded sticker image. Ready assets are immutable and shared by
// every instance that references them.
type Asset struct {
	ID    ID
	Image image.Image // nil unless Ready

	state State
	err   error
}

// State returns the load state.
func (a *Asset) State() State {
	return a.state
}

// Ready reports whether the bitmap is decoded and usable.
func (a *Asset) Ready() bool {
	return a.state == StateReady
}

// Err returns the load failure of a Failed asset.
func (a *Asset) Err() error {
	return a.err
}

// Width returns the intrinsic width in pixels.
func (a *Asset) Width() int {
	if a.Image == nil {
		return 0
	}
	return a.Image.Bounds().Dx()
}

// Height returns the intrinsic height in pixels.
func (a *Asset) Height() int {
	if a.Image == nil {
		return 0
	}
	return a.Image.Bounds().Dy()
}

// Aspect returns width / height, or 1 for an unready or degenerate asset.
func (a *Asset) Aspect() float64 {
	w, h := a.Width(), a.Height()
	if w == 0 || h == 0 {
		return 1
	}
	return float64(w) / float64(h)
}

// NewReady wraps an already decoded image. Used by sources that have the
// bitmap in memory and by tests.
func NewReady(id ID, img image.Image) *Asset {
	return &Asset{ID: id, Image: img, state: StateReady}
}
