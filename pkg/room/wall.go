package room

import (
	"github.com/matzehuels/roomeditor/pkg/geom"
)

// Axis names the world axis a wall's normal runs along.
type Axis string

const (
	AxisX Axis = "x"
	AxisZ Axis = "z"
)

// Wall identifies one of the four walls by its normal axis and side: Sign is
// -1 for the wall at the minimum coordinate, +1 for the maximum.
type Wall struct {
	Axis Axis `json:"axis"`
	Sign int  `json:"sign"`
}

// Coordinate returns the wall plane's position along its axis.
func (w Wall) Coordinate(b Boundary) float64 {
	switch {
	case w.Axis == AxisX && w.Sign < 0:
		return b.MinX
	case w.Axis == AxisX:
		return b.MaxX
	case w.Sign < 0:
		return b.MinZ
	default:
		return b.MaxZ
	}
}

// Segment returns the extent of the wall along its in-wall axis.
func (w Wall) Segment(b Boundary) (lo, hi float64) {
	if w.Axis == AxisX {
		return b.MinZ, b.MaxZ
	}
	return b.MinX, b.MaxX
}

// String returns a short label such as "-x" or "+z".
func (w Wall) String() string {
	if w.Sign < 0 {
		return "-" + string(w.Axis)
	}
	return "+" + string(w.Axis)
}

// NearestWall returns the wall closest to p. Distances are signed, positive
// on the room side of a wall, so a point outside the room maps to the wall
// it lies farthest beyond. Candidates are checked in the order min-X, max-X,
// min-Z, max-Z and only a strictly smaller distance replaces the current
// best, so X walls win ties.
func NearestWall(b Boundary, p geom.Vec3) Wall {
	candidates := []struct {
		wall Wall
		dist float64
	}{
		{Wall{AxisX, -1}, p.X - b.MinX},
		{Wall{AxisX, 1}, b.MaxX - p.X},
		{Wall{AxisZ, -1}, p.Z - b.MinZ},
		{Wall{AxisZ, 1}, b.MaxZ - p.Z},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	return best.wall
}
