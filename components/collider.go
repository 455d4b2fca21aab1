package components

import "github.com/Software-Cat/MLHummingbirds/geom"

// SurfaceID identifies a registered collision surface. The flower patch keys
// its reverse lookup on these, so they are unique per collider.
type SurfaceID uint32

// ColliderTag classifies what a collider belongs to.
type ColliderTag uint8

const (
	TagNone   ColliderTag = iota
	TagPetal              // a flower's outer petal body
	TagNectar             // a flower's nectar trigger
	TagPlant              // stems and branches
)

// ColliderShape selects the collision primitive.
type ColliderShape uint8

const (
	ShapeSphere  ColliderShape = iota
	ShapeCapsule               // segment from Center to End with Radius
)

// Collider is a static collision primitive. Triggers report contact but do
// not block placement or movement. Disabled colliders are invisible to
// queries without being removed from the spatial index.
type Collider struct {
	Shape   ColliderShape
	Tag     ColliderTag
	Trigger bool
	Enabled bool
	Surface SurfaceID

	Center geom.Vec3 // sphere center, or capsule segment start
	End    geom.Vec3 // capsule segment end (unused for spheres)
	Radius float32
}

// ClosestPoint returns the point on the collider's core nearest to p.
// For spheres the core is the center; for capsules it is the axis segment.
func (c *Collider) ClosestPoint(p geom.Vec3) geom.Vec3 {
	if c.Shape == ShapeSphere {
		return c.Center
	}

	axis := c.End.Sub(c.Center)
	lsq := axis.LengthSq()
	if lsq < 1e-12 {
		return c.Center
	}
	t := geom.Clamp01(p.Sub(c.Center).Dot(axis) / lsq)
	return c.Center.Add(axis.Scale(t))
}

// OverlapsSphere reports whether a sphere at p with the given radius touches
// the collider.
func (c *Collider) OverlapsSphere(p geom.Vec3, radius float32) bool {
	reach := c.Radius + radius
	return c.ClosestPoint(p).DistanceSqTo(p) <= reach*reach
}

// Bounds returns the collider's axis-aligned bounding box.
func (c *Collider) Bounds() (lo, hi geom.Vec3) {
	lo, hi = c.Center, c.Center
	if c.Shape == ShapeCapsule {
		lo = geom.Vec3{X: min32(lo.X, c.End.X), Y: min32(lo.Y, c.End.Y), Z: min32(lo.Z, c.End.Z)}
		hi = geom.Vec3{X: max32(hi.X, c.End.X), Y: max32(hi.Y, c.End.Y), Z: max32(hi.Z, c.End.Z)}
	}
	r := geom.Vec3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	return lo.Sub(r), hi.Add(r)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
