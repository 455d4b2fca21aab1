package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/Software-Cat/MLHummingbirds/geom"
)

// ErrNoSafePlacement means the spawn search exhausted its attempt budget
// without finding a collision-free pose. The arena is misconfigured; callers
// treat this as fatal.
var ErrNoSafePlacement = errors.New("no safe placement found")

// PlaceSafely moves the bird to a random collision-free pose. In-front
// candidates hover just off a random flower's nectar surface looking into it;
// free candidates scatter through the flight volume above the terrain. A
// candidate is safe when a small probe sphere there touches nothing solid.
func (h *Hummingbird) PlaceSafely(inFront bool) error {
	cfg := h.env.Cfg
	rng := h.env.RNG

	pos := h.posMap.Get(h.entity)
	rot := h.rotMap.Get(h.entity)
	safety := float32(cfg.Spawn.SafetyRadius)

	for attempt := 0; attempt < cfg.Spawn.Attempts; attempt++ {
		var candidate geom.Vec3
		var pitch, yaw float32

		if inFront {
			flower := h.env.Patch.Flowers()[rng.Intn(h.env.Patch.FlowerCount())]
			center := h.env.Patch.FlowerCenter(flower)
			up := h.env.Patch.FlowerUp(flower)

			dist := float32(cfg.Spawn.FrontMin + rng.Float64()*(cfg.Spawn.FrontMax-cfg.Spawn.FrontMin))
			candidate = center.Add(up.Scale(dist))
			yaw, pitch = geom.LookYawPitch(center.Sub(candidate))
		} else {
			radius := cfg.Spawn.RadiusMin + rng.Float64()*(cfg.Spawn.RadiusMax-cfg.Spawn.RadiusMin)
			azimuth := (rng.Float64()*2 - 1) * math.Pi

			x := float32(radius * math.Sin(azimuth))
			z := float32(radius * math.Cos(azimuth))
			height := float32(cfg.Spawn.HeightMin + rng.Float64()*(cfg.Spawn.HeightMax-cfg.Spawn.HeightMin))
			candidate = geom.Vec3{X: x, Y: h.env.Terrain.HeightAt(x, z) + height, Z: z}

			pitch = (rng.Float32()*2 - 1) * float32(cfg.Spawn.PitchRange)
			yaw = (rng.Float32()*2 - 1) * 180
		}

		if h.env.Hash.BlockedSphere(candidate, safety) {
			continue
		}

		pos.Vec3 = candidate
		rot.Pitch = pitch
		rot.Yaw = yaw
		h.SpawnAttempts = attempt + 1
		return nil
	}

	h.SpawnAttempts = cfg.Spawn.Attempts
	return fmt.Errorf("agent: %w after %d attempts", ErrNoSafePlacement, cfg.Spawn.Attempts)
}
