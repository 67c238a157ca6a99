package room

import (
	"math"
	"sync"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// Dimensions describe a room centred on the origin.
type Dimensions struct {
	Width  float64 `json:"width" toml:"width"`   // along X
	Depth  float64 `json:"depth" toml:"depth"`   // along Z
	Height float64 `json:"height" toml:"height"` // wall height
	// Margin keeps items clear of the wall thickness.
	Margin float64 `json:"margin" toml:"margin"`
}

// DefaultDimensions matches the stock 10 m × 10 m room with 5 m walls.
func DefaultDimensions() Dimensions {
	return Dimensions{Width: 10, Depth: 10, Height: 5, Margin: 0.3}
}

// Boundary is the placeable rectangle of a room plus its wall height.
type Boundary struct {
	MinX       float64 `json:"min_x"`
	MaxX       float64 `json:"max_x"`
	MinZ       float64 `json:"min_z"`
	MaxZ       float64 `json:"max_z"`
	WallHeight float64 `json:"wall_height"`
}

// FromDimensions derives the boundary of a room centred on the origin.
func FromDimensions(d Dimensions) Boundary {
	hw, hd := d.Width/2, d.Depth/2
	return Boundary{
		MinX:       -hw + d.Margin,
		MaxX:       hw - d.Margin,
		MinZ:       -hd + d.Margin,
		MaxZ:       hd - d.Margin,
		WallHeight: d.Height,
	}
}

// Width returns the extent along X.
func (b Boundary) Width() float64 { return b.MaxX - b.MinX }

// Depth returns the extent along Z.
func (b Boundary) Depth() float64 { return b.MaxZ - b.MinZ }

// Center returns the floor-level centre of the rectangle.
func (b Boundary) Center() geom.Vec3 {
	return geom.V3((b.MinX+b.MaxX)/2, 0, (b.MinZ+b.MaxZ)/2)
}

// Valid reports whether the boundary is a finite, non-empty rectangle.
func (b Boundary) Valid() bool {
	for _, v := range []float64{b.MinX, b.MaxX, b.MinZ, b.MaxZ, b.WallHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.MaxX > b.MinX && b.MaxZ > b.MinZ
}

// Contains reports whether the point lies inside the rectangle (inclusive).
func (b Boundary) Contains(p geom.Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// Model holds the current room boundary. It is safe for concurrent use.
type Model struct {
	mu       sync.RWMutex
	boundary *Boundary
}

// NewModel returns an unconfigured model; Boundaries returns nil until
// UpdateDimensions or SetBoundary is called.
func NewModel() *Model {
	return &Model{}
}

// NewModelWithDimensions returns a model configured from d.
func NewModelWithDimensions(d Dimensions) *Model {
	m := &Model{}
	m.UpdateDimensions(d)
	return m
}

// Boundaries returns a copy of the current boundary, or nil if the room has
// not been configured.
func (m *Model) Boundaries() *Boundary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.boundary == nil {
		return nil
	}
	b := *m.boundary
	return &b
}

// UpdateDimensions replaces the boundary wholesale. Existing items are not
// touched; re-validating them is the editor's job.
func (m *Model) UpdateDimensions(d Dimensions) {
	m.SetBoundary(FromDimensions(d))
}

// SetBoundary replaces the boundary with b.
func (m *Model) SetBoundary(b Boundary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boundary = &b
}

// Clear removes the boundary, disabling all constraints.
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boundary = nil
}

// IsInRoom reports whether the item is inside the model's current boundary.
// An unconfigured model accepts every item.
func (m *Model) IsInRoom(item scene.PlacedItem) bool {
	b := m.Boundaries()
	if b == nil {
		return true
	}
	return IsInRoom(item, *b)
}
