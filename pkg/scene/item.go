// Package scene defines the data model shared by the room editor engine:
// placed items, their footprints and placement rules, and the grid and
// snapping settings the editor applies to them.
package scene

import (
	"github.com/matzehuels/roomeditor/pkg/geom"
)

// Footprint is the axis-aligned extent of an item in its own unrotated,
// unscaled frame, in metres.
type Footprint struct {
	Width  float64 `json:"width" bson:"width" toml:"width"`
	Depth  float64 `json:"depth" bson:"depth" toml:"depth"`
	Height float64 `json:"height" bson:"height" toml:"height"`
}

// Placement holds the catalog rules that influence where an item may sit.
type Placement struct {
	// WallOnly items hang flush against the nearest wall (clocks, wall art).
	WallOnly bool `json:"wall_only,omitempty" bson:"wall_only,omitempty" toml:"wall_only"`
	// WallHeight is the Y coordinate a wall-only item is forced to.
	WallHeight float64 `json:"wall_height,omitempty" bson:"wall_height,omitempty" toml:"wall_height"`
	// FloorOffset is the minimum Y of a free-standing item's base.
	FloorOffset float64 `json:"floor_offset,omitempty" bson:"floor_offset,omitempty" toml:"floor_offset"`
}

// Metadata is display-only information carried along with an item. The
// constraint logic never reads it.
type Metadata struct {
	FurnitureID string  `json:"furniture_id,omitempty" bson:"furniture_id,omitempty"`
	Category    string  `json:"category,omitempty" bson:"category,omitempty"`
	Brand       string  `json:"brand,omitempty" bson:"brand,omitempty"`
	Price       float64 `json:"price,omitempty" bson:"price,omitempty"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

// SnapSettings is the grid and rotation snap configuration frozen onto an
// item at the moment it was locked.
type SnapSettings struct {
	GridEnabled         bool    `json:"grid_enabled" bson:"grid_enabled"`
	RotationSnapEnabled bool    `json:"rotation_snap_enabled" bson:"rotation_snap_enabled"`
	RotationSnapAngle   float64 `json:"rotation_snap_angle" bson:"rotation_snap_angle"`
	GridSize            float64 `json:"grid_size" bson:"grid_size"`
	GridDivisions       int     `json:"grid_divisions" bson:"grid_divisions"`
}

// PlacedItem is one furnishing instance in the scene.
//
// Position is the item's base pivot: the centre of its footprint at floor
// level. Rotation is in radians. Items are values; the editor replaces whole
// fields rather than mutating shared vectors.
type PlacedItem struct {
	ID           string        `json:"id" bson:"id"`
	Name         string        `json:"name" bson:"name"`
	ModelPath    string        `json:"model_path,omitempty" bson:"model_path,omitempty"`
	Position     geom.Vec3     `json:"position" bson:"position"`
	Rotation     geom.Euler    `json:"rotation" bson:"rotation"`
	Scale        geom.Vec3     `json:"scale" bson:"scale"`
	Footprint    Footprint     `json:"footprint" bson:"footprint"`
	Placement    Placement     `json:"placement" bson:"placement"`
	IsLocked     bool          `json:"is_locked,omitempty" bson:"is_locked,omitempty"`
	SnapSettings *SnapSettings `json:"snap_settings,omitempty" bson:"snap_settings,omitempty"`
	Metadata     Metadata      `json:"metadata" bson:"metadata"`
}

// Clone returns a deep copy of the item. The SnapSettings pointer is
// duplicated so the copy can be modified independently.
func (p PlacedItem) Clone() PlacedItem {
	out := p
	if p.SnapSettings != nil {
		s := *p.SnapSettings
		out.SnapSettings = &s
	}
	return out
}

// Equal reports value equality, ignoring pointer identity of SnapSettings.
func (p PlacedItem) Equal(o PlacedItem) bool {
	if (p.SnapSettings == nil) != (o.SnapSettings == nil) {
		return false
	}
	if p.SnapSettings != nil && *p.SnapSettings != *o.SnapSettings {
		return false
	}
	a, b := p, o
	a.SnapSettings, b.SnapSettings = nil, nil
	return a == b
}

// ScaledFootprint returns the footprint multiplied by the item's scale.
func (p PlacedItem) ScaledFootprint() Footprint {
	return Footprint{
		Width:  p.Footprint.Width * p.Scale.X,
		Depth:  p.Footprint.Depth * p.Scale.Z,
		Height: p.Footprint.Height * p.Scale.Y,
	}
}

// DisplayName returns the item's name, falling back to its id.
func (p PlacedItem) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
