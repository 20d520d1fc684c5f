package geom

import "math"

// Epsilon is the tolerance used when comparing world-space coordinates.
const Epsilon = 1e-9

// Vec3 is a world-space position or direction. Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Canonical horizontal directions. Forward is +Z, right is +X.
var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
	Back    = Vec3{Z: -1}
	Right   = Vec3{X: 1}
	Left    = Vec3{X: -1}
)

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// Len returns the Euclidean length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IsZero reports whether v has no horizontal extent.
func (v Vec3) IsZero() bool {
	return math.Abs(v.X) < Epsilon && math.Abs(v.Z) < Epsilon
}

// Unit returns the horizontal part of v scaled to length 1, or Zero when v
// has no horizontal extent.
func (v Vec3) Unit() Vec3 {
	if v.IsZero() {
		return Zero
	}
	f := v.Flat()
	return f.Scale(1 / f.Len())
}

// ApproxEqual compares two vectors component-wise within tol.
func (v Vec3) ApproxEqual(o Vec3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

// Yaw returns the heading of v on the horizontal plane in degrees, measured
// clockwise from Forward when viewed from above. Forward is 0, Right is 90.
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z) * 180 / math.Pi
}

// RotateY rotates v about the vertical axis by deg degrees (clockwise seen from
// above, so RotateY(Forward, 90) == Right).
func (v Vec3) RotateY(deg float64) Vec3 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// SignedAngle returns the angle in degrees, in (-180, 180], that rotates from
// onto to about the vertical axis. Both vectors are projected onto the
// horizontal plane first. A zero vector on either side yields 0.
func SignedAngle(from, to Vec3) float64 {
	from, to = from.Flat(), to.Flat()
	if from.IsZero() || to.IsZero() {
		return 0
	}
	return NormalizeAngle(to.Yaw() - from.Yaw())
}

// NormalizeAngle wraps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}

// NormalizeYaw wraps deg into [0, 360).
func NormalizeYaw(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod can leave -0 or values that round to 360.
	if deg >= 360-Epsilon {
		deg = 0
	}
	return deg
}
