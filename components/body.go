package components

import (
	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// Flight holds per-bird flight dynamics parameters.
type Flight struct {
	MoveForce     float32 `inspect:"label,fmt:%.1f"` // thrust magnitude at full input
	PitchSpeed    float32 `inspect:"skip"`           // max pitch rate (deg/s)
	YawSpeed      float32 `inspect:"skip"`           // max yaw rate (deg/s)
	MaxPitch      float32 `inspect:"skip"`           // pitch clamp (deg)
	Smoothing     float32 `inspect:"skip"`           // rotation input smoothing per second
	Mass          float32 `inspect:"skip"`
	Drag          float32 `inspect:"skip"`           // velocity damping factor
	MaxSpeed      float32 `inspect:"bar,max:10"`     // maximum velocity magnitude
	BodyRadius    float32 `inspect:"skip"`           // collision radius
	BeakLength    float32 `inspect:"skip"`           // body center to beak tip
	BeakTipRadius float32 `inspect:"skip"`           // beak tip contact radius
}

// Steering carries the thrust requested by a bird's controller for the
// current step. Cleared by the flight system after integration.
type Steering struct {
	Force geom.Vec3
}

// Contact records what the bird touched during the last flight step.
type Contact struct {
	Boundary bool `inspect:"bool"` // pressed against terrain, wall, or ceiling
}

// FlightFromConfig returns flight parameters for the given configuration.
func FlightFromConfig(cfg *config.Config) Flight {
	f := cfg.Flight
	return Flight{
		MoveForce:     float32(f.MoveForce),
		PitchSpeed:    float32(f.PitchSpeed),
		YawSpeed:      float32(f.YawSpeed),
		MaxPitch:      float32(f.MaxPitch),
		Smoothing:     float32(f.SmoothingRate),
		Mass:          float32(f.Mass),
		Drag:          float32(f.Drag),
		MaxSpeed:      float32(f.MaxSpeed),
		BodyRadius:    float32(f.BodyRadius),
		BeakLength:    float32(f.BeakLength),
		BeakTipRadius: float32(f.BeakTipRadius),
	}
}
