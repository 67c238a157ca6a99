package editor

import (
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// Patch is a partial item update. Nil fields are left unchanged. The id and
// footprint of an item can never be patched.
type Patch struct {
	Name     *string         `json:"name,omitempty"`
	Position *geom.Vec3      `json:"position,omitempty"`
	Rotation *geom.Euler     `json:"rotation,omitempty"`
	Scale    *geom.Vec3      `json:"scale,omitempty"`
	IsLocked *bool           `json:"is_locked,omitempty"`
	Metadata *scene.Metadata `json:"metadata,omitempty"`
}

// MoveTo returns a patch that sets the position.
func MoveTo(p geom.Vec3) Patch { return Patch{Position: &p} }

// RotateTo returns a patch that sets the rotation.
func RotateTo(r geom.Euler) Patch { return Patch{Rotation: &r} }

// ScaleTo returns a patch that sets the scale.
func ScaleTo(s geom.Vec3) Patch { return Patch{Scale: &s} }

// Rename returns a patch that sets the display name.
func Rename(name string) Patch { return Patch{Name: &name} }

// TouchesTransform reports whether the patch sets position, rotation or
// scale.
func (p Patch) TouchesTransform() bool {
	return p.Position != nil || p.Rotation != nil || p.Scale != nil
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return !p.TouchesTransform() && p.Name == nil && p.IsLocked == nil && p.Metadata == nil
}

// apply returns a copy of it with the patch merged in.
func (p Patch) apply(it scene.PlacedItem) scene.PlacedItem {
	out := it.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Rotation != nil {
		out.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		out.Scale = *p.Scale
	}
	if p.IsLocked != nil {
		out.IsLocked = *p.IsLocked
	}
	if p.Metadata != nil {
		out.Metadata = *p.Metadata
	}
	return out
}
