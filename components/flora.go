package components

import "github.com/Software-Cat/MLHummingbirds/geom"

// Nectar tracks how much nectar a flower holds.
type Nectar struct {
	Amount float32 `inspect:"bar,max:1"`
}

// HasNectar reports whether the flower still has anything to give.
func (n Nectar) HasNectar() bool {
	return n.Amount > 0
}

// FlowerGeom is a flower's world-space placement: the point a beak draws
// nectar from and the direction the blossom faces. Recomputed whenever the
// owning plant re-orients.
type FlowerGeom struct {
	Center geom.Vec3
	Up     geom.Vec3
}

// Color is an RGBA color kept engine-agnostic so headless packages can carry
// visual state without a rendering dependency.
type Color struct {
	R, G, B, A uint8
}

// Blossom holds a flower's visual state. Current switches from Full to Empty
// when the nectar runs out.
type Blossom struct {
	Full    Color
	Empty   Color
	Current Color
}
