// Package snap quantizes item transforms toward the placement grid and the
// rotation step.
//
// Snapping is a blend rather than a hard jump: the result is
// lerp(value, quantized, strength), with strength clamped to [0, 1]. At
// strength 1 an on-lattice value is returned unchanged, so snapping twice is
// the same as snapping once.
//
// All functions are pure.
package snap

import (
	"math"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// Quantize rounds v to the nearest multiple of step. A non-positive or
// non-finite step returns v unchanged.
func Quantize(v, step float64) float64 {
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return v
	}
	return math.Round(v/step) * step
}

// Position pulls pos toward the grid lattice. It returns pos unchanged when
// the grid or snap strength is disabled, or when the grid is degenerate.
func Position(pos geom.Vec3, grid scene.GridSettings, strength scene.SnapStrengthSettings) geom.Vec3 {
	if !grid.Enabled || !strength.Enabled {
		return pos
	}
	cell := grid.CellSize()
	if cell == 0 {
		return pos
	}
	q := geom.V3(Quantize(pos.X, cell), Quantize(pos.Y, cell), Quantize(pos.Z, cell))
	t := geom.Clamp01(strength.Translation)
	if t == 1 {
		return q
	}
	return pos.Lerp(q, t)
}

// Rotation pulls the yaw of rot toward the nearest multiple of the snap
// angle. Pitch and roll pass through unchanged.
func Rotation(rot geom.Euler, settings scene.RotationSnapSettings, strength scene.SnapStrengthSettings) geom.Euler {
	if !settings.Enabled || !strength.Enabled || settings.Angle <= 0 {
		return rot
	}
	step := geom.DegToRad(settings.Angle)
	q := Quantize(rot.Y, step)
	t := geom.Clamp01(strength.Rotation)
	if t == 1 {
		return rot.WithYaw(q)
	}
	return rot.WithYaw(geom.Lerp(rot.Y, q, t))
}

// Item snaps an item's position and yaw. A locked item with frozen snap
// settings is snapped against those instead of the global ones.
func Item(item scene.PlacedItem, grid scene.GridSettings, rot scene.RotationSnapSettings, strength scene.SnapStrengthSettings) scene.PlacedItem {
	if item.IsLocked && item.SnapSettings != nil {
		grid = item.SnapSettings.Grid()
		rot = item.SnapSettings.RotationSnap()
	}
	out := item.Clone()
	out.Position = Position(item.Position, grid, strength)
	out.Rotation = Rotation(item.Rotation, rot, strength)
	return out
}

// SettingsChanged reports whether the grid or rotation snap configuration
// differs in any field that affects quantization.
func SettingsChanged(prevGrid, curGrid scene.GridSettings, prevRot, curRot scene.RotationSnapSettings) bool {
	return prevGrid.Enabled != curGrid.Enabled ||
		prevGrid.Size != curGrid.Size ||
		prevGrid.Divisions != curGrid.Divisions ||
		prevRot != curRot
}
