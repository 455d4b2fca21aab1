// Package geom provides float32 vector and rotation math for the simulation.
// The coordinate system is right-handed with Y up and Z forward; angles are
// degrees unless noted. Everything is float32 to match the hot-path state,
// with float64 only inside stdlib math calls.
package geom

import "math"

// Vec3 is a three-component float32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// Common axis vectors.
var (
	Zero    = Vec3{0, 0, 0}
	UnitX   = Vec3{1, 0, 0}
	UnitY   = Vec3{0, 1, 0}
	UnitZ   = Vec3{0, 0, 1}
	WorldUp = Vec3{0, 1, 0}
)

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSq returns the squared length of v.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the length of v.
func (v Vec3) Length() float32 {
	return sqrtf(v.LengthSq())
}

// Normalized returns v scaled to unit length. The zero vector stays zero.
func (v Vec3) Normalized() Vec3 {
	lsq := v.LengthSq()
	if lsq < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / sqrtf(lsq))
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec3) DistanceTo(o Vec3) float32 {
	return v.Sub(o).Length()
}

// DistanceSqTo returns the squared distance between v and o.
func (v Vec3) DistanceSqTo(o Vec3) float32 {
	return v.Sub(o).LengthSq()
}

// IsZero reports whether v is (near) the zero vector.
func (v Vec3) IsZero() bool {
	return v.LengthSq() < 1e-12
}

// Degree/radian conversion factors.
const (
	Deg2Rad = float32(math.Pi / 180)
	Rad2Deg = float32(180 / math.Pi)
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// MoveTowards steps current toward target by at most maxDelta.
// It never overshoots: once within maxDelta the target is returned exactly.
func MoveTowards(current, target, maxDelta float32) float32 {
	delta := target - current
	if delta > maxDelta {
		return current + maxDelta
	}
	if delta < -maxDelta {
		return current - maxDelta
	}
	return target
}

// WrapDeg wraps an angle in degrees into (-180, 180].
func WrapDeg(a float32) float32 {
	for a > 180 {
		a -= 360
	}
	for a <= -180 {
		a += 360
	}
	return a
}

// float32 wrappers over stdlib math.

func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func sinf(x float32) float32  { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32  { return float32(math.Cos(float64(x))) }

func atan2f(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func asinf(x float32) float32 {
	// Guard against |x| drifting past 1 from float32 rounding.
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return float32(math.Asin(float64(x)))
}
