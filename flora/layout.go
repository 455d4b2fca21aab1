package flora

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// Layout constants
const (
	defaultStemRadius = float32(0.05) // Capsule radius for generated stems
	flowerArm         = float32(0.18) // Reach from the stem top to each blossom
	flowerTiltMin     = 20.0          // Outward blossom tilt range, degrees
	flowerTiltMax     = 45.0
)

// GenerateLayout scatters plants in an annulus around the arena center. Each
// plant gets one angular slot; normalized simplex noise nudges it off the
// perfect ring so the patch reads as grown rather than planted. Stem heights
// and blossom arrangement come from the seeded RNG.
func GenerateLayout(cfg *config.Config, seed int64) []PlantDescriptor {
	rng := rand.New(rand.NewSource(seed))
	noise := opensimplex.NewNormalized(seed)

	n := cfg.Flora.Plants
	perPlant := cfg.Flora.FlowersPerPlant
	ringMin := cfg.Flora.RingMin
	ringMax := cfg.Flora.RingMax

	descs := make([]PlantDescriptor, 0, n)
	for i := 0; i < n; i++ {
		slot := 2 * math.Pi * float64(i) / float64(n)
		// Noise in [0,1]: radial spread across the ring band, angular drift
		// within the slot.
		radial := noise.Eval2(float64(i)*0.7, 0.25)
		drift := noise.Eval2(0.25, float64(i)*0.7)

		angle := slot + (drift-0.5)*2*math.Pi/float64(n)*0.6
		radius := ringMin + radial*(ringMax-ringMin)

		d := PlantDescriptor{
			X:          float32(radius * math.Sin(angle)),
			Z:          float32(radius * math.Cos(angle)),
			StemHeight: float32(cfg.Flora.StemHeightMin + rng.Float64()*(cfg.Flora.StemHeightMax-cfg.Flora.StemHeightMin)),
			StemRadius: defaultStemRadius,
			Flowers:    make([]FlowerDescriptor, 0, perPlant),
		}

		for j := 0; j < perPlant; j++ {
			az := (float64(j) + 0.4*rng.Float64()) / float64(perPlant) * 2 * math.Pi
			tilt := float64(geom.Deg2Rad) * (flowerTiltMin + rng.Float64()*(flowerTiltMax-flowerTiltMin))

			up := geom.Vec3{
				X: float32(math.Sin(az) * math.Sin(tilt)),
				Y: float32(math.Cos(tilt)),
				Z: float32(math.Cos(az) * math.Sin(tilt)),
			}
			d.Flowers = append(d.Flowers, FlowerDescriptor{
				Offset: geom.Vec3{Y: d.StemHeight}.Add(up.Scale(flowerArm)),
				Up:     up,
			})
		}
		descs = append(descs, d)
	}
	return descs
}
