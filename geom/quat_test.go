package geom

import (
	"math"
	"testing"
)

func TestQuatIdentityRotate(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := QuatIdentity().Rotate(v); !vecAlmostEqual(got, v) {
		t.Errorf("identity rotate = %v, want %v", got, v)
	}
}

func TestPitchRotatesNoseDown(t *testing.T) {
	// Positive pitch tips the forward axis below the horizon.
	q := QuatFromPitchYaw(90, 0)
	got := q.Rotate(UnitZ)
	if !vecAlmostEqual(got, Vec3{0, -1, 0}) {
		t.Errorf("pitch 90 forward = %v, want {0 -1 0}", got)
	}
}

func TestYawRotatesForwardTowardX(t *testing.T) {
	q := QuatFromPitchYaw(0, 90)
	got := q.Rotate(UnitZ)
	if !vecAlmostEqual(got, UnitX) {
		t.Errorf("yaw 90 forward = %v, want %v", got, UnitX)
	}
}

func TestForwardFormula(t *testing.T) {
	tests := []struct {
		name       string
		pitch, yaw float32
	}{
		{"level north", 0, 0},
		{"level east", 0, 90},
		{"diving", 45, 0},
		{"climbing west", -30, -90},
		{"steep turn", 60, 135},
		{"behind", -15, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pitch * Deg2Rad
			y := tt.yaw * Deg2Rad
			want := Vec3{
				X: cosf(p) * sinf(y),
				Y: -sinf(p),
				Z: cosf(p) * cosf(y),
			}
			got := QuatFromPitchYaw(tt.pitch, tt.yaw).Forward()
			if !vecAlmostEqual(got, want) {
				t.Errorf("Forward() = %v, want %v", got, want)
			}
		})
	}
}

func TestLookYawPitchRoundtrip(t *testing.T) {
	tests := []struct {
		pitch, yaw float32
	}{
		{0, 0},
		{30, 45},
		{-60, 120},
		{75, -170},
		{-80, 10},
	}

	for _, tt := range tests {
		fwd := QuatFromPitchYaw(tt.pitch, tt.yaw).Forward()
		yaw, pitch := LookYawPitch(fwd)
		if !almostEqual(yaw, tt.yaw) || !almostEqual(pitch, tt.pitch) {
			t.Errorf("roundtrip (%v, %v) = (%v, %v)", tt.pitch, tt.yaw, pitch, yaw)
		}
	}
}

func TestLookYawPitchZero(t *testing.T) {
	yaw, pitch := LookYawPitch(Vec3{})
	if yaw != 0 || pitch != 0 {
		t.Errorf("zero dir = (%v, %v), want (0, 0)", yaw, pitch)
	}
}

func TestMulComposesRotations(t *testing.T) {
	a := QuatAxisAngle(UnitY, 37)
	b := QuatAxisAngle(UnitX, -22)
	v := Vec3{0.3, -0.8, 0.5}

	sequential := a.Rotate(b.Rotate(v))
	composed := a.Mul(b).Rotate(v)
	if !vecAlmostEqual(sequential, composed) {
		t.Errorf("composed = %v, want %v", composed, sequential)
	}
}

func TestQuatNormalized(t *testing.T) {
	q := Quat{X: 2, Y: 0, Z: 0, W: 2}
	n := q.Normalized()
	length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W))
	if math.Abs(length-1) > 1e-5 {
		t.Errorf("normalized length = %v, want 1", length)
	}

	// Degenerate quaternions fall back to identity.
	if got := (Quat{}).Normalized(); got != QuatIdentity() {
		t.Errorf("zero normalized = %v, want identity", got)
	}
}

func TestAxesOrthonormal(t *testing.T) {
	q := QuatFromEuler(33, -71, 12)
	f, u, r := q.Forward(), q.Up(), q.Right()

	if !almostEqual(f.Length(), 1) || !almostEqual(u.Length(), 1) || !almostEqual(r.Length(), 1) {
		t.Errorf("axes not unit length: %v %v %v", f.Length(), u.Length(), r.Length())
	}
	if !almostEqual(f.Dot(u), 0) || !almostEqual(f.Dot(r), 0) || !almostEqual(u.Dot(r), 0) {
		t.Errorf("axes not orthogonal: f.u=%v f.r=%v u.r=%v", f.Dot(u), f.Dot(r), u.Dot(r))
	}
	// Right-handed frame: right x up = forward.
	if got := r.Cross(u); !vecAlmostEqual(got, f) {
		t.Errorf("right x up = %v, want forward %v", got, f)
	}
}
