// Package room models the placeable area of a rectangular room.
//
// A [Boundary] is the horizontal rectangle items must stay inside plus the
// wall height. It is derived from [Dimensions] (a room centred on the origin,
// shrunk by a wall margin) and held by a [Model], which the editor replaces
// wholesale when the user resizes the room.
//
// The geometric queries are pure functions:
//
//   - [Bounds] computes an item's world-space axis-aligned extents, using the
//     yaw-rotated, scaled footprint.
//   - [IsInRoom] reports whether those extents lie inside the boundary.
//   - [NearestWall] picks the wall closest to a point, or for a point outside
//     the room the wall it lies farthest beyond. Ties resolve in the order
//     min-X, max-X, min-Z, max-Z.
//   - [Overlaps] and [Collisions] answer item-versus-item AABB queries.
//
// A nil *Boundary means the room has not been configured; callers treat it
// as "no constraint".
package room
