// Package geom provides the small vector and rotation value types shared by
// every part of the room editor.
//
// All types are plain values. Copying a [Vec3] or [Euler] copies its
// components, so two placed items can never alias the same vector.
package geom

import "math"

// Vec3 is a point or direction in world space, in metres.
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// One is the identity scale.
var One = Vec3{X: 1, Y: 1, Z: 1}

// Add returns v+o. Sub, Scale, Mul and Dot follow the usual component-wise
// definitions.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Mul(o Vec3) Vec3      { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Array() [3]float64    { return [3]float64{v.X, v.Y, v.Z} }
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t)}
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

// Vec3FromArray builds a vector from an [x, y, z] triple.
func Vec3FromArray(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// Euler is an XYZ Euler rotation in radians. Y is yaw, the only axis the
// editor constrains or snaps.
type Euler struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// E is shorthand for constructing an Euler.
func E(x, y, z float64) Euler { return Euler{X: x, Y: y, Z: z} }

func (e Euler) Array() [3]float64 { return [3]float64{e.X, e.Y, e.Z} }

// WithYaw returns e with its Y component replaced.
func (e Euler) WithYaw(y float64) Euler { return Euler{e.X, y, e.Z} }

// AddYaw returns e rotated by delta radians around the vertical axis.
func (e Euler) AddYaw(delta float64) Euler { return Euler{e.X, e.Y + delta, e.Z} }

// NormalizedYaw returns e with its yaw wrapped into [0, 2π).
func (e Euler) NormalizedYaw() Euler {
	y := math.Mod(e.Y, 2*math.Pi)
	if y < 0 {
		y += 2 * math.Pi
	}
	return Euler{e.X, y, e.Z}
}

// IsFinite reports whether no component is NaN or infinite.
func (e Euler) IsFinite() bool {
	return finite(e.X) && finite(e.Y) && finite(e.Z)
}

// EulerFromArray builds a rotation from an [x, y, z] triple.
func EulerFromArray(a [3]float64) Euler { return Euler{a[0], a[1], a[2]} }

// Lerp linearly interpolates from a to b by t.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// SafeNumber returns v, or def when v is NaN or infinite.
func SafeNumber(v, def float64) float64 {
	if !finite(v) {
		return def
	}
	return v
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
