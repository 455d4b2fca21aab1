package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// FlightSystem integrates bird motion: controller thrust, drag, speed
// limiting, and confinement to the arena volume. Rotation is kinematic and
// belongs to the controllers; this system only moves bodies.
type FlightSystem struct {
	filter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Flight,
		components.Steering,
		components.Contact,
	]
	colMap  *ecs.Map1[components.Collider]
	terrain *Terrain
	hash    *SpatialHash

	areaRadius float32
	ceiling    float32

	overlaps []ecs.Entity // scratch for solid contact queries
}

// NewFlightSystem creates a flight system bound to the arena's terrain and
// collider index.
func NewFlightSystem(w *ecs.World, terrain *Terrain, hash *SpatialHash, areaRadius, ceiling float32) *FlightSystem {
	return &FlightSystem{
		filter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Flight,
			components.Steering,
			components.Contact,
		](w),
		colMap:     ecs.NewMap1[components.Collider](w),
		terrain:    terrain,
		hash:       hash,
		areaRadius: areaRadius,
		ceiling:    ceiling,
		overlaps:   make([]ecs.Entity, 0, MaxQueryResults),
	}
}

// Update advances every bird by dt seconds and clears consumed steering.
func (s *FlightSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, flight, steer, contact := query.Get()

		// Thrust, then exponential damping
		vel.Vec3 = vel.Add(steer.Force.Scale(dt / flight.Mass))
		vel.Vec3 = vel.Scale(1 / (1 + flight.Drag*dt))

		// Limit velocity
		speed := vel.Length()
		if speed > flight.MaxSpeed {
			vel.Vec3 = vel.Scale(flight.MaxSpeed / speed)
		}

		pos.Vec3 = pos.Add(vel.Scale(dt))

		contact.Boundary = s.confine(pos, vel, flight.BodyRadius)
		s.resolveSolids(pos, vel, flight.BodyRadius)

		steer.Force = geom.Vec3{}
	}
}

// confine keeps a body inside the arena volume. Returns true when the body
// was pressed against terrain, wall, or ceiling this step.
func (s *FlightSystem) confine(pos *components.Position, vel *components.Velocity, radius float32) bool {
	hit := false

	ground := s.terrain.HeightAt(pos.X, pos.Z)
	if pos.Y-radius < ground {
		pos.Y = ground + radius
		if vel.Y < 0 {
			vel.Y = 0
		}
		hit = true
	}

	if pos.Y+radius > s.ceiling {
		pos.Y = s.ceiling - radius
		if vel.Y > 0 {
			vel.Y = 0
		}
		hit = true
	}

	horiz := geom.Vec3{X: pos.X, Z: pos.Z}
	dist := horiz.Length()
	if dist+radius > s.areaRadius {
		if dist > 1e-6 {
			scale := (s.areaRadius - radius) / dist
			pos.X *= scale
			pos.Z *= scale

			// Kill the outward velocity component
			n := horiz.Scale(1 / dist)
			if out := vel.Dot(n); out > 0 {
				vel.Vec3 = vel.Sub(n.Scale(out))
			}
		}
		hit = true
	}

	return hit
}

// resolveSolids pushes a body out of any solid collider it sank into.
func (s *FlightSystem) resolveSolids(pos *components.Position, vel *components.Velocity, radius float32) {
	s.overlaps = s.hash.OverlapSphereInto(s.overlaps[:0], pos.Vec3, radius)

	for _, e := range s.overlaps {
		c := s.colMap.Get(e)
		if c == nil || c.Trigger {
			continue
		}

		cp := c.ClosestPoint(pos.Vec3)
		n := pos.Sub(cp)
		dist := n.Length()
		if dist < 1e-6 {
			continue // centered inside the collider, no usable normal
		}

		push := c.Radius + radius - dist
		if push <= 0 {
			continue
		}
		n = n.Scale(1 / dist)
		pos.Vec3 = pos.Add(n.Scale(push))

		if in := vel.Dot(n); in < 0 {
			vel.Vec3 = vel.Sub(n.Scale(in))
		}
	}
}
