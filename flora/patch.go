// Package flora builds and manages the flower patch: plant placement, the
// per-episode re-orientation of plant groupings, nectar accounting, and the
// reverse lookup from nectar trigger surfaces to their owning flowers.
package flora

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/geom"
	"github.com/Software-Cat/MLHummingbirds/systems"
)

// Blossom colors
var (
	blossomFull  = components.Color{R: 255, G: 0, B: 76, A: 255}
	blossomEmpty = components.Color{R: 128, G: 0, B: 255, A: 255}
)

type flowerColliders struct {
	petal  ecs.Entity // Solid disc the body collides with
	nectar ecs.Entity // Trigger the beak feeds through
}

type plant struct {
	origin     geom.Vec3 // Stem base on the terrain, fixed after Build
	stemHeight float32
	stem       ecs.Entity // Capsule collider
	flowers    []int      // Indexes into Patch.flowers
	locals     []FlowerDescriptor
}

// Patch owns every flower in the arena. Flowers and their colliders are
// entities; the patch holds them in build order together with the plant
// groupings they belong to and the surface lookup the feeding path uses.
// Built once per session, reset at episode boundaries, never recreated.
type Patch struct {
	world *ecs.World
	hash  *systems.SpatialHash

	flowers []ecs.Entity // Build order, never reshuffled
	cols    []flowerColliders
	index   map[ecs.Entity]int
	plants  []plant
	owners  map[components.SurfaceID]ecs.Entity

	flowerMapper *ecs.Map3[components.Nectar, components.FlowerGeom, components.Blossom]
	colMap       *ecs.Map1[components.Collider]
	nectarMap    *ecs.Map1[components.Nectar]
	geomMap      *ecs.Map1[components.FlowerGeom]
	blossomMap   *ecs.Map1[components.Blossom]

	nextSurface components.SurfaceID

	capacity     float32
	tiltDegrees  float32
	petalRadius  float32
	nectarRadius float32
	beakLength   float32
}

// NewPatch creates an empty patch bound to the world and its collider index.
// Call Build before anything else.
func NewPatch(w *ecs.World, cfg *config.Config, hash *systems.SpatialHash) *Patch {
	return &Patch{
		world:        w,
		hash:         hash,
		index:        map[ecs.Entity]int{},
		owners:       map[components.SurfaceID]ecs.Entity{},
		flowerMapper: ecs.NewMap3[components.Nectar, components.FlowerGeom, components.Blossom](w),
		colMap:       ecs.NewMap1[components.Collider](w),
		nectarMap:    ecs.NewMap1[components.Nectar](w),
		geomMap:      ecs.NewMap1[components.FlowerGeom](w),
		blossomMap:   ecs.NewMap1[components.Blossom](w),
		nextSurface:  1,
		capacity:     float32(cfg.Nectar.Capacity),
		tiltDegrees:  float32(cfg.Flora.TiltDegrees),
		petalRadius:  float32(cfg.Flora.PetalRadius),
		nectarRadius: float32(cfg.Flora.NectarRadius),
		beakLength:   float32(cfg.Flight.BeakLength),
	}
}

// Build creates the patch entities from a descriptor list. Stems root on the
// terrain; each flower gets a solid petal collider one beak length behind its
// nectar surface and a trigger collider on the surface itself. Runs once.
func (p *Patch) Build(terrain *systems.Terrain, descs []PlantDescriptor) {
	if p.flowers != nil {
		panic("flora: patch already built")
	}
	total := FlowerCount(descs)
	p.flowers = make([]ecs.Entity, 0, total)
	p.cols = make([]flowerColliders, 0, total)
	p.plants = make([]plant, 0, len(descs))

	for di := range descs {
		d := &descs[di]
		origin := geom.Vec3{X: d.X, Y: terrain.HeightAt(d.X, d.Z), Z: d.Z}

		pl := plant{
			origin:     origin,
			stemHeight: d.StemHeight,
			locals:     d.Flowers,
			flowers:    make([]int, 0, len(d.Flowers)),
		}

		stem := components.Collider{
			Shape:   components.ShapeCapsule,
			Tag:     components.TagPlant,
			Enabled: true,
			Surface: p.allocSurface(),
			Center:  origin,
			End:     origin.Add(geom.Vec3{Y: d.StemHeight}),
			Radius:  d.StemRadius,
		}
		pl.stem = p.colMap.NewEntity(&stem)

		for fi := range d.Flowers {
			f := d.Flowers[fi]
			center := origin.Add(f.Offset)
			up := f.Up.Normalized()

			n := components.Nectar{Amount: p.capacity}
			g := components.FlowerGeom{Center: center, Up: up}
			b := components.Blossom{Full: blossomFull, Empty: blossomEmpty, Current: blossomFull}
			flower := p.flowerMapper.NewEntity(&n, &g, &b)

			petal := components.Collider{
				Shape:   components.ShapeSphere,
				Tag:     components.TagPetal,
				Enabled: true,
				Surface: p.allocSurface(),
				Center:  center.Sub(up.Scale(p.beakLength)),
				Radius:  p.petalRadius,
			}
			trigger := components.Collider{
				Shape:   components.ShapeSphere,
				Tag:     components.TagNectar,
				Trigger: true,
				Enabled: true,
				Surface: p.allocSurface(),
				Center:  center,
				Radius:  p.nectarRadius,
			}
			fc := flowerColliders{
				petal:  p.colMap.NewEntity(&petal),
				nectar: p.colMap.NewEntity(&trigger),
			}

			p.registerOwner(trigger.Surface, flower)
			pl.flowers = append(pl.flowers, len(p.flowers))
			p.index[flower] = len(p.flowers)
			p.flowers = append(p.flowers, flower)
			p.cols = append(p.cols, fc)
		}
		p.plants = append(p.plants, pl)
	}
	p.hash.Rebuild()
}

func (p *Patch) allocSurface() components.SurfaceID {
	s := p.nextSurface
	p.nextSurface++
	return s
}

// registerOwner records the nectar surface to flower mapping. Surface keys
// must be unique per flower; a duplicate means the build wiring itself is
// broken, so fail loudly.
func (p *Patch) registerOwner(surface components.SurfaceID, flower ecs.Entity) {
	if prev, ok := p.owners[surface]; ok {
		panic(fmt.Sprintf("flora: nectar surface %d registered twice (entities %v, %v)", surface, prev, flower))
	}
	p.owners[surface] = flower
}

// ResetAll starts a fresh episode: every plant leans into a new orientation,
// flower geometry and colliders follow, every flower refills, and the spatial
// index is rebuilt to match the moved colliders.
func (p *Patch) ResetAll(rng *rand.Rand) {
	for i := range p.plants {
		tiltX := (rng.Float32()*2 - 1) * p.tiltDegrees
		yaw := (rng.Float32()*2 - 1) * 180
		tiltZ := (rng.Float32()*2 - 1) * p.tiltDegrees
		p.orientPlant(&p.plants[i], geom.QuatFromEuler(tiltX, yaw, tiltZ))
	}
	for _, e := range p.flowers {
		p.ResetFlower(e)
	}
	p.hash.Rebuild()
}

// orientPlant recomputes world-space flower geometry and collider placement
// from a plant rotation about its stem base.
func (p *Patch) orientPlant(pl *plant, q geom.Quat) {
	for k, idx := range pl.flowers {
		local := pl.locals[k]
		center := pl.origin.Add(q.Rotate(local.Offset))
		up := q.Rotate(local.Up).Normalized()

		g := p.geomMap.Get(p.flowers[idx])
		g.Center = center
		g.Up = up

		p.colMap.Get(p.cols[idx].petal).Center = center.Sub(up.Scale(p.beakLength))
		p.colMap.Get(p.cols[idx].nectar).Center = center
	}

	stem := p.colMap.Get(pl.stem)
	stem.End = pl.origin.Add(q.Rotate(geom.Vec3{Y: pl.stemHeight}))
}

// Withdraw takes up to amount nectar from a flower and returns how much was
// actually obtained. Requests are clamped to what the flower holds, never
// rejected. A flower that runs dry turns off both of its collision surfaces
// and shows its empty color until the next reset.
func (p *Patch) Withdraw(flower ecs.Entity, amount float32) float32 {
	n := p.nectarMap.Get(flower)
	actual := geom.Clamp(amount, 0, n.Amount)
	n.Amount -= actual
	if n.Amount > 0 {
		return actual
	}

	n.Amount = 0
	p.setFlowerEnabled(flower, false)
	b := p.blossomMap.Get(flower)
	b.Current = b.Empty
	return actual
}

// ResetFlower refills one flower and turns its collision surfaces back on.
func (p *Patch) ResetFlower(flower ecs.Entity) {
	n := p.nectarMap.Get(flower)
	n.Amount = p.capacity
	p.setFlowerEnabled(flower, true)
	b := p.blossomMap.Get(flower)
	b.Current = b.Full
}

func (p *Patch) setFlowerEnabled(flower ecs.Entity, enabled bool) {
	fc := p.cols[p.index[flower]]
	p.colMap.Get(fc.petal).Enabled = enabled
	p.colMap.Get(fc.nectar).Enabled = enabled
}

// OwnerOf resolves a nectar trigger surface to its flower. The second return
// is false for surfaces that were never registered, which indicates a caller
// bug since every flower registers at build time.
func (p *Patch) OwnerOf(surface components.SurfaceID) (ecs.Entity, bool) {
	e, ok := p.owners[surface]
	return e, ok
}

// Flowers returns the patch's flowers in build order.
func (p *Patch) Flowers() []ecs.Entity { return p.flowers }

// FlowerCount returns the number of flowers in the patch.
func (p *Patch) FlowerCount() int { return len(p.flowers) }

// HasNectar reports whether a flower still holds nectar.
func (p *Patch) HasNectar(flower ecs.Entity) bool {
	return p.nectarMap.Get(flower).HasNectar()
}

// NectarAmount returns a flower's remaining nectar.
func (p *Patch) NectarAmount(flower ecs.Entity) float32 {
	return p.nectarMap.Get(flower).Amount
}

// FlowerCenter returns the world-space center of a flower's nectar surface.
func (p *Patch) FlowerCenter(flower ecs.Entity) geom.Vec3 {
	return p.geomMap.Get(flower).Center
}

// FlowerUp returns the outward normal of a flower's nectar surface.
func (p *Patch) FlowerUp(flower ecs.Entity) geom.Vec3 {
	return p.geomMap.Get(flower).Up
}

// BlossomColor returns a flower's current display color.
func (p *Patch) BlossomColor(flower ecs.Entity) components.Color {
	return p.blossomMap.Get(flower).Current
}

// TotalNectar sums the remaining nectar across the whole patch.
func (p *Patch) TotalNectar() float32 {
	total := float32(0)
	for _, e := range p.flowers {
		total += p.nectarMap.Get(e).Amount
	}
	return total
}

// PlantCount returns the number of plant groupings.
func (p *Patch) PlantCount() int { return len(p.plants) }

// Stem returns the world-space stem segment of plant i, for rendering.
func (p *Patch) Stem(i int) (base, tip geom.Vec3, radius float32) {
	c := p.colMap.Get(p.plants[i].stem)
	return c.Center, c.End, c.Radius
}
