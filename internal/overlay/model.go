package overlay

import (
	"math"

	"assessment-cam/internal/asset"
	"assessment-cam/pkg/geometry"
)

// Defaults used when a Config field is left zero.
const (
	DefaultPlacementFraction = 0.5
	DefaultMinSize           = 50.0
	DefaultHandleRadius      = 30.0
)

// Config holds placement and hit-test constants.
type Config struct {
	PlacementFraction float64 // default sticker width as a fraction of the surface width
	MinSize           float64 // minimum width in surface pixels
	HandleRadius      float64 // resize hit-zone radius around the bottom-right corner
}

// DefaultConfig returns the standard constants.
func DefaultConfig() Config {
	return Config{
		PlacementFraction: DefaultPlacementFraction,
		MinSize:           DefaultMinSize,
		HandleRadius:      DefaultHandleRadius,
	}
}

func (c Config) withDefaults() Config {
	if c.PlacementFraction <= 0 {
		c.PlacementFraction = DefaultPlacementFraction
	}
	if c.MinSize <= 0 {
		c.MinSize = DefaultMinSize
	}
	if c.HandleRadius <= 0 {
		c.HandleRadius = DefaultHandleRadius
	}
	return c
}

// Resolver hands out Ready assets. *asset.Cache implements it.
type Resolver interface {
	Resolve(id asset.ID) (*asset.Asset, error)
}

// Region identifies which part of an instance a hit landed on.
type Region int

const (
	RegionNone Region = iota
	RegionHandle
	RegionBody
)

func (r Region) String() string {
	switch r {
	case RegionHandle:
		return "Handle"
	case RegionBody:
		return "Body"
	default:
		return "None"
	}
}

// Hit is the result of a hit test.
type Hit struct {
	Instance *Instance
	Region   Region
}

// Model is the ordered sequence of placed stickers. Later entries paint on
// top. At most one instance exists per sticker type.
type Model struct {
	cfg       Config
	resolver  Resolver
	instances []*Instance
}

// NewModel creates an empty model.
func NewModel(resolver Resolver, cfg Config) *Model {
	return &Model{cfg: cfg.withDefaults(), resolver: resolver}
}

// Config returns the effective constants.
func (m *Model) Config() Config {
	return m.cfg
}

// Toggle removes the instance of type id if there is one and returns nil.
// Otherwise it places a new instance at the default position and returns it.
// Asset errors (asset.ErrNotReady, *asset.LoadError) leave the model as it was.
func (m *Model) Toggle(id asset.ID, surface geometry.Size) (*Instance, error) {
	if m.Remove(id) {
		return nil, nil
	}
	a, err := m.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	in := &Instance{ID: newInstanceID(), Type: id, Asset: a}
	m.place(in, surface)
	m.instances = append(m.instances, in)
	return in, nil
}

// place applies the default placement: a fraction of the surface width,
// centered, never above or left of the origin.
func (m *Model) place(in *Instance, surface geometry.Size) {
	in.SetWidth(surface.Width*m.cfg.PlacementFraction, m.cfg.MinSize)
	in.X = math.Max(0, (surface.Width-in.Width)/2)
	in.Y = math.Max(0, (surface.Height-in.Height)/2)
}

// Remove deletes the instance of type id. It reports whether one existed.
func (m *Model) Remove(id asset.ID) bool {
	for i, in := range m.instances {
		if in.Type == id {
			m.instances = append(m.instances[:i], m.instances[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the instance of type id, or nil.
func (m *Model) Find(id asset.ID) *Instance {
	for _, in := range m.instances {
		if in.Type == id {
			return in
		}
	}
	return nil
}

// Has reports whether an instance of type id is placed.
func (m *Model) Has(id asset.ID) bool {
	return m.Find(id) != nil
}

// Contains reports whether in is still part of the model.
func (m *Model) Contains(in *Instance) bool {
	for _, other := range m.instances {
		if other == in {
			return true
		}
	}
	return false
}

// Instances returns the instances in paint order. The slice is a copy; the
// instances are shared.
func (m *Model) Instances() []*Instance {
	return append([]*Instance(nil), m.instances...)
}

// Len returns the number of placed instances.
func (m *Model) Len() int {
	return len(m.instances)
}

// Clear removes every instance.
func (m *Model) Clear() {
	m.instances = nil
}

// BringToFront moves in to the top of the paint order.
func (m *Model) BringToFront(in *Instance) {
	for i, other := range m.instances {
		if other == in {
			m.instances = append(m.instances[:i], m.instances[i+1:]...)
			m.instances = append(m.instances, in)
			return
		}
	}
}

// HandleZone returns the resize hit zone of in.
func (m *Model) HandleZone(in *Instance) geometry.Circle {
	return geometry.Circle{Center: in.Corner(), Radius: m.cfg.HandleRadius}
}

// HitTest finds the topmost instance under p. The handle zone wins over the
// body of the same instance.
func (m *Model) HitTest(p geometry.Point2D) Hit {
	for i := len(m.instances) - 1; i >= 0; i-- {
		in := m.instances[i]
		if m.HandleZone(in).Contains(p) {
			return Hit{Instance: in, Region: RegionHandle}
		}
		if in.Bounds().Contains(p) {
			return Hit{Instance: in, Region: RegionBody}
		}
	}
	return Hit{}
}
