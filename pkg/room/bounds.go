package room

import (
	"math"

	"github.com/matzehuels/roomeditor/pkg/scene"
)

// AABB is a world-space axis-aligned bounding box.
type AABB struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// HalfExtents returns the horizontal half-size of an item's footprint after
// scaling and yaw rotation.
func HalfExtents(item scene.PlacedItem) (halfX, halfZ float64) {
	hw := math.Abs(item.Footprint.Width*item.Scale.X) / 2
	hd := math.Abs(item.Footprint.Depth*item.Scale.Z) / 2
	c := math.Abs(math.Cos(item.Rotation.Y))
	s := math.Abs(math.Sin(item.Rotation.Y))
	return c*hw + s*hd, s*hw + c*hd
}

// Bounds returns the world-space extents of the item.
func Bounds(item scene.PlacedItem) AABB {
	halfX, halfZ := HalfExtents(item)
	h := math.Abs(item.Footprint.Height * item.Scale.Y)
	p := item.Position
	return AABB{
		MinX: p.X - halfX, MaxX: p.X + halfX,
		MinY: p.Y, MaxY: p.Y + h,
		MinZ: p.Z - halfZ, MaxZ: p.Z + halfZ,
	}
}

// IsInRoom reports whether the item's rotated footprint lies within the
// boundary's X/Z rectangle. There is no tolerance.
func IsInRoom(item scene.PlacedItem, b Boundary) bool {
	bb := Bounds(item)
	return bb.MinX >= b.MinX && bb.MaxX <= b.MaxX &&
		bb.MinZ >= b.MinZ && bb.MaxZ <= b.MaxZ
}

// Overlaps reports whether the two items' bounding boxes intersect. Touching
// faces do not count.
func Overlaps(a, b scene.PlacedItem) bool {
	x, y := Bounds(a), Bounds(b)
	return x.MinX < y.MaxX && x.MaxX > y.MinX &&
		x.MinY < y.MaxY && x.MaxY > y.MinY &&
		x.MinZ < y.MaxZ && x.MaxZ > y.MinZ
}

// Collisions returns the ids of items overlapping target, in input order.
// The target itself is skipped.
func Collisions(target scene.PlacedItem, items []scene.PlacedItem) []string {
	var ids []string
	for _, it := range items {
		if it.ID == target.ID {
			continue
		}
		if Overlaps(target, it) {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
