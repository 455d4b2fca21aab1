package geom

// Quat is a rotation quaternion with components ordered X, Y, Z, W.
// The identity rotation is {0, 0, 0, 1}.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatAxisAngle returns the rotation of angleDeg degrees about axis.
// The axis must be unit length.
func QuatAxisAngle(axis Vec3, angleDeg float32) Quat {
	half := angleDeg * Deg2Rad * 0.5
	s := sinf(half)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, cosf(half)}
}

// QuatFromEuler builds a rotation from Euler angles in degrees, applied in
// roll (Z), pitch (X), yaw (Y) order.
func QuatFromEuler(pitchDeg, yawDeg, rollDeg float32) Quat {
	qy := QuatAxisAngle(UnitY, yawDeg)
	qx := QuatAxisAngle(UnitX, pitchDeg)
	qz := QuatAxisAngle(UnitZ, rollDeg)
	return qy.Mul(qx).Mul(qz)
}

// QuatFromPitchYaw builds a roll-free rotation from pitch and yaw in degrees.
// Positive pitch tips the nose down; positive yaw turns from +Z toward +X.
func QuatFromPitchYaw(pitchDeg, yawDeg float32) Quat {
	return QuatAxisAngle(UnitY, yawDeg).Mul(QuatAxisAngle(UnitX, pitchDeg))
}

// Mul returns the Hamilton product q*o. The combined rotation applies o
// first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u x v) + 2(u x (u x v)) with u = (X, Y, Z)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Normalized returns q scaled to unit length. A degenerate zero quaternion
// becomes the identity.
func (q Quat) Normalized() Quat {
	lsq := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if lsq < 1e-12 {
		return QuatIdentity()
	}
	inv := 1 / sqrtf(lsq)
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Forward returns the rotated +Z axis.
func (q Quat) Forward() Vec3 { return q.Rotate(UnitZ) }

// Up returns the rotated +Y axis.
func (q Quat) Up() Vec3 { return q.Rotate(UnitY) }

// Right returns the rotated +X axis.
func (q Quat) Right() Vec3 { return q.Rotate(UnitX) }

// LookYawPitch returns the roll-free yaw and pitch, in degrees, that point
// the forward axis along dir. The zero vector yields (0, 0).
func LookYawPitch(dir Vec3) (yawDeg, pitchDeg float32) {
	d := dir.Normalized()
	if d.IsZero() {
		return 0, 0
	}
	yawDeg = atan2f(d.X, d.Z) * Rad2Deg
	pitchDeg = -asinf(d.Y) * Rad2Deg
	return yawDeg, pitchDeg
}
