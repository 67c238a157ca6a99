// Package constraint keeps placed items inside the room.
//
// [Solver.Constrain] takes a candidate item and the current room boundary and
// returns a corrected copy:
//
//   - Free-standing items have X and Z clamped so the yaw-rotated footprint
//     stays inside the boundary. Y is only raised to the item's floor offset
//     when it sits below it.
//   - Wall-only items are moved flush onto the nearest wall plane, turned to
//     face into the room, slid along the wall until they fit the segment, and
//     lifted to their wall height.
//
// When a footprint is wider than the room on some axis, that axis is centred
// and a warning is logged. The solver never fails and never mutates its
// input. Given the same item and boundary it always returns the same result,
// and constraining an already constrained item changes nothing.
package constraint

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// Solver corrects item transforms against a room boundary.
type Solver struct {
	// Logger receives oversize warnings. Nil uses log.Default().
	Logger *log.Logger
}

// New returns a solver that logs to l.
func New(l *log.Logger) *Solver {
	return &Solver{Logger: l}
}

func (s *Solver) logger() *log.Logger {
	if s == nil || s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// Constrain returns a copy of item corrected against b. A nil or invalid
// boundary leaves the transform as is.
func (s *Solver) Constrain(item scene.PlacedItem, b *room.Boundary) scene.PlacedItem {
	out := item.Clone()
	if b == nil || !b.Valid() {
		return out
	}
	if item.Placement.WallOnly {
		return s.constrainToWall(out, *b)
	}
	return s.constrainFree(out, *b)
}

func (s *Solver) constrainFree(item scene.PlacedItem, b room.Boundary) scene.PlacedItem {
	halfX, halfZ := room.HalfExtents(item)
	item.Position.X = s.fit(item, "x", item.Position.X, halfX, b.MinX, b.MaxX)
	item.Position.Z = s.fit(item, "z", item.Position.Z, halfZ, b.MinZ, b.MaxZ)
	if off := item.Placement.FloorOffset; off > 0 && item.Position.Y < off {
		item.Position.Y = off
	}
	return item
}

func (s *Solver) constrainToWall(item scene.PlacedItem, b room.Boundary) scene.PlacedItem {
	wall := room.NearestWall(b, item.Position)
	item.Rotation = item.Rotation.WithYaw(FacingYaw(wall))
	halfX, halfZ := room.HalfExtents(item)

	lo, hi := wall.Segment(b)
	if wall.Axis == room.AxisX {
		item.Position.X = wall.Coordinate(b)
		item.Position.Z = s.fit(item, "z", item.Position.Z, halfZ, lo, hi)
	} else {
		item.Position.Z = wall.Coordinate(b)
		item.Position.X = s.fit(item, "x", item.Position.X, halfX, lo, hi)
	}
	item.Position.Y = item.Placement.WallHeight
	return item
}

// fit clamps v so [v-half, v+half] lies in [lo, hi]. If the interval is too
// narrow the centre is returned. The result is nudged by whole ulps where
// rounding would otherwise leave an edge a hair outside the range.
func (s *Solver) fit(item scene.PlacedItem, axis string, v, half, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = (lo + hi) / 2
	}
	if 2*half > hi-lo {
		s.logger().Warn("item larger than room, centring",
			"id", item.ID, "axis", axis, "extent", 2*half, "room", hi-lo)
		return (lo + hi) / 2
	}
	if v-half < lo {
		v = lo + half
		for v-half < lo {
			v = math.Nextafter(v, math.Inf(1))
		}
	}
	if v+half > hi {
		v = hi - half
		for v+half > hi {
			v = math.Nextafter(v, math.Inf(-1))
		}
	}
	return v
}

// FacingYaw returns the yaw that turns an item's front (local +Z) toward the
// room interior when hung on wall w.
func FacingYaw(w room.Wall) float64 {
	switch {
	case w.Axis == room.AxisX && w.Sign < 0:
		return math.Pi / 2
	case w.Axis == room.AxisX:
		return -math.Pi / 2
	case w.Sign < 0:
		return 0
	default:
		return math.Pi
	}
}

// IsWallFlush reports whether a wall-only item sits on a wall plane of b,
// within the wall segment, at its declared wall height.
func IsWallFlush(item scene.PlacedItem, b room.Boundary) bool {
	if item.Position.Y != item.Placement.WallHeight {
		return false
	}
	halfX, halfZ := room.HalfExtents(item)
	p := item.Position
	onX := p.X == b.MinX || p.X == b.MaxX
	onZ := p.Z == b.MinZ || p.Z == b.MaxZ
	if onX && p.Z-halfZ >= b.MinZ && p.Z+halfZ <= b.MaxZ {
		return true
	}
	return onZ && p.X-halfX >= b.MinX && p.X+halfX <= b.MaxX
}

// Satisfied reports whether item already meets the solver's postcondition
// for b: in the room for free-standing items, wall-flush for wall-only ones.
func Satisfied(item scene.PlacedItem, b *room.Boundary) bool {
	if b == nil {
		return true
	}
	if item.Placement.WallOnly {
		return IsWallFlush(item, *b)
	}
	return room.IsInRoom(item, *b)
}
