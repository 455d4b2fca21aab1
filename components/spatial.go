package components

import "github.com/Software-Cat/MLHummingbirds/geom"

// Position represents an entity's world position.
type Position struct {
	geom.Vec3
}

// Velocity represents an entity's velocity.
type Velocity struct {
	geom.Vec3
}

// Rotation represents an entity's attitude as roll-free pitch and yaw.
// Positive pitch tips the nose down; yaw turns from +Z toward +X.
type Rotation struct {
	Pitch float32 `inspect:"angle"` // degrees
	Yaw   float32 `inspect:"angle"` // degrees
}

// Orientation returns the rotation as a quaternion.
func (r Rotation) Orientation() geom.Quat {
	return geom.QuatFromPitchYaw(r.Pitch, r.Yaw)
}

// Forward returns the world-space direction the nose points.
func (r Rotation) Forward() geom.Vec3 {
	return r.Orientation().Forward()
}
