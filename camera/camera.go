// Package camera provides orbit and chase camera math for the 3D view.
package camera

import "github.com/Software-Cat/MLHummingbirds/geom"

// Mode selects how the camera frames the scene.
type Mode int

const (
	// ModeOrbit orbits a fixed focus under mouse control.
	ModeOrbit Mode = iota
	// ModeChase eases along behind a bird.
	ModeChase
)

// String returns a short mode name for the HUD.
func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeChase:
		return "chase"
	default:
		return "unknown"
	}
}

// Default pose for a fresh or reset camera.
const (
	defaultYaw   = 135.0 // looks back across the arena
	defaultPitch = 35.0
)

// Camera frames the 3D scene. Pure math: the render layer maps Eye and Focus
// onto the graphics API each frame.
type Camera struct {
	Mode  Mode
	Focus geom.Vec3 // look-at point

	Yaw      float32 // degrees around Y, 0 looks along +Z
	Pitch    float32 // degrees of downward tilt, positive looks down from above
	Distance float32 // meters from focus back to the eye

	// Pose constraints
	MinPitch, MaxPitch       float32
	MinDistance, MaxDistance float32

	// Chase easing rate, 1/s
	FollowRate float32

	homeFocus    geom.Vec3
	homeDistance float32
}

// New creates an orbit camera looking down at the focus from the given
// distance.
func New(focus geom.Vec3, distance float32) *Camera {
	return &Camera{
		Mode:         ModeOrbit,
		Focus:        focus,
		Yaw:          defaultYaw,
		Pitch:        defaultPitch,
		Distance:     distance,
		MinPitch:     -10,
		MaxPitch:     85,
		MinDistance:  1,
		MaxDistance:  3 * distance,
		FollowRate:   6,
		homeFocus:    focus,
		homeDistance: distance,
	}
}

// Eye returns the world-space eye position implied by the current pose.
func (c *Camera) Eye() geom.Vec3 {
	forward := geom.QuatFromPitchYaw(c.Pitch, c.Yaw).Forward()
	return c.Focus.Sub(forward.Scale(c.Distance))
}

// Orbit rotates the view around the focus. Yaw wraps, pitch clamps so the
// view never flips over the pole.
func (c *Camera) Orbit(dYawDeg, dPitchDeg float32) {
	c.Yaw = geom.WrapDeg(c.Yaw + dYawDeg)
	c.Pitch = geom.Clamp(c.Pitch+dPitchDeg, c.MinPitch, c.MaxPitch)
}

// Dolly scales the focus distance, clamped to the camera's range.
func (c *Camera) Dolly(factor float32) {
	c.Distance = geom.Clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Pan slides the focus in the view plane: along the camera's right axis and
// world up.
func (c *Camera) Pan(dx, dy float32) {
	right := geom.QuatFromPitchYaw(0, c.Yaw).Right()
	c.Focus = c.Focus.Add(right.Scale(dx)).Add(geom.UnitY.Scale(dy))
}

// Follow eases the camera toward a chase pose behind the target. Call every
// frame in chase mode; the focus and yaw converge exponentially at
// FollowRate.
func (c *Camera) Follow(target geom.Vec3, targetYawDeg, dt float32) {
	t := geom.Clamp01(c.FollowRate * dt)
	c.Focus = c.Focus.Add(target.Sub(c.Focus).Scale(t))
	c.Yaw = geom.WrapDeg(c.Yaw + geom.WrapDeg(targetYawDeg-c.Yaw)*t)
}

// Reset returns the camera to its home orbit pose.
func (c *Camera) Reset() {
	c.Mode = ModeOrbit
	c.Focus = c.homeFocus
	c.Yaw = defaultYaw
	c.Pitch = defaultPitch
	c.Distance = c.homeDistance
}
