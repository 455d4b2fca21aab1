package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// Terrain is the procedural ground heightfield under the flight volume.
// Heights are sampled analytically, so there is no grid to keep in sync;
// rendering walks the same HeightAt the physics uses.
type Terrain struct {
	noise      opensimplex.Noise
	scale      float64
	octaves    int
	lacunarity float64
	gain       float64
	amplitude  float64
	rimRadius  float64
}

// NewTerrain creates a terrain from config. A zero config seed falls back to
// the session seed so runs stay reproducible.
func NewTerrain(cfg *config.Config, sessionSeed int64) *Terrain {
	seed := cfg.Terrain.Seed
	if seed == 0 {
		seed = sessionSeed
	}

	return &Terrain{
		noise:      opensimplex.NewNormalized(seed),
		scale:      cfg.Terrain.Scale,
		octaves:    cfg.Terrain.Octaves,
		lacunarity: cfg.Terrain.Lacunarity,
		gain:       cfg.Terrain.Gain,
		amplitude:  cfg.Terrain.Amplitude,
		rimRadius:  cfg.Derived.AreaRadius,
	}
}

// HeightAt returns the ground height at the given horizontal position.
// Octaves of normalized simplex noise are blended into fractal terrain,
// flattened toward the arena rim so the walls meet level ground.
func (t *Terrain) HeightAt(x, z float32) float32 {
	freq := t.scale
	amp := 1.0
	sum := 0.0
	norm := 0.0

	for o := 0; o < t.octaves; o++ {
		sum += amp * t.noise.Eval2(float64(x)*freq, float64(z)*freq)
		norm += amp
		freq *= t.lacunarity
		amp *= t.gain
	}
	if norm > 0 {
		sum /= norm
	}

	h := sum * t.amplitude

	// Fade to flat over the outer 15% of the arena.
	d := float64(geom.Vec3{X: x, Z: z}.Length())
	fadeStart := t.rimRadius * 0.85
	if d > fadeStart {
		f := 1 - (d-fadeStart)/(t.rimRadius-fadeStart)
		if f < 0 {
			f = 0
		}
		h *= f
	}

	return float32(h)
}

// MaxHeight returns the tallest possible terrain sample.
func (t *Terrain) MaxHeight() float32 {
	return float32(t.amplitude)
}
