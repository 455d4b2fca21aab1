package agent

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/geom"
	"github.com/Software-Cat/MLHummingbirds/policy"
	"github.com/Software-Cat/MLHummingbirds/systems"
)

// Axes is raw directional input for the keyboard heuristic, each in [-1,1].
type Axes struct {
	Forward float32 // Along the bird's facing
	Right   float32 // Strafe
	Up      float32 // Vertical
	Pitch   float32 // Look up/down
	Yaw     float32 // Look left/right
}

// Hummingbird drives one bird entity. It owns the per-episode counters and
// the nearest-flower pick; position, velocity, and orientation live on the
// entity so the flight system can integrate them.
type Hummingbird struct {
	ID       uint32
	Training bool

	// Per-episode counters
	NectarObtained float32
	Reward         float32
	StepCount      int
	Withdrawals    int // sips that actually obtained nectar
	FlowersDrained int // flowers this bird emptied
	BoundaryHits   int // arena surface contacts, edge-triggered
	SpawnAttempts  int // placement attempts used by the last spawn

	env    *Env
	entity ecs.Entity
	source policy.Source

	posMap     *ecs.Map1[components.Position]
	velMap     *ecs.Map1[components.Velocity]
	rotMap     *ecs.Map1[components.Rotation]
	flightMap  *ecs.Map1[components.Flight]
	steerMap   *ecs.Map1[components.Steering]
	contactMap *ecs.Map1[components.Contact]
	colMap     *ecs.Map1[components.Collider]

	frozen bool

	// Rotation inputs smoothed toward their targets, in [-1,1]
	smoothPitch float32
	smoothYaw   float32

	nearest      ecs.Entity
	hasNearest   bool
	prevBoundary bool

	overlaps []ecs.Entity // scratch for beak trigger queries
}

// NewHummingbird binds a controller to an existing bird entity. A nil source
// is fine for player-controlled birds, which act through Heuristic instead of
// Step.
func NewHummingbird(env *Env, entity ecs.Entity, id uint32, source policy.Source, training bool) *Hummingbird {
	return &Hummingbird{
		ID:         id,
		Training:   training,
		env:        env,
		entity:     entity,
		source:     source,
		posMap:     ecs.NewMap1[components.Position](env.World),
		velMap:     ecs.NewMap1[components.Velocity](env.World),
		rotMap:     ecs.NewMap1[components.Rotation](env.World),
		flightMap:  ecs.NewMap1[components.Flight](env.World),
		steerMap:   ecs.NewMap1[components.Steering](env.World),
		contactMap: ecs.NewMap1[components.Contact](env.World),
		colMap:     ecs.NewMap1[components.Collider](env.World),
		overlaps:   make([]ecs.Entity, 0, systems.MaxQueryResults),
	}
}

// Entity returns the bird entity this controller drives.
func (h *Hummingbird) Entity() ecs.Entity { return h.entity }

// SetSource replaces the action source. The trainer swaps candidate policies
// into a running session between evaluations.
func (h *Hummingbird) SetSource(source policy.Source) { h.source = source }

// Frozen reports whether the bird is halted for match choreography.
func (h *Hummingbird) Frozen() bool { return h.frozen }

// NearestFlower returns the currently tracked flower, if any.
func (h *Hummingbird) NearestFlower() (ecs.Entity, bool) {
	return h.nearest, h.hasNearest
}

// Freeze halts the bird for match choreography. Not available in training,
// where episodes must run uninterrupted.
func (h *Hummingbird) Freeze() {
	if h.Training {
		panic("agent: Freeze is not allowed in training mode")
	}
	h.frozen = true
	h.velMap.Get(h.entity).Vec3 = geom.Vec3{}
	h.steerMap.Get(h.entity).Force = geom.Vec3{}
}

// Unfreeze lets the bird move again.
func (h *Hummingbird) Unfreeze() {
	if h.Training {
		panic("agent: Unfreeze is not allowed in training mode")
	}
	h.frozen = false
}

// OnEpisodeBegin starts a fresh episode: training resets the whole patch,
// counters and velocity zero out, and the bird respawns at a safe pose.
// Training spawns bias toward starting in front of a flower half the time;
// otherwise the bird always starts in front of one.
func (h *Hummingbird) OnEpisodeBegin() error {
	if h.Training {
		h.env.Patch.ResetAll(h.env.RNG)
	}

	h.NectarObtained = 0
	h.Reward = 0
	h.StepCount = 0
	h.Withdrawals = 0
	h.FlowersDrained = 0
	h.BoundaryHits = 0
	h.smoothPitch = 0
	h.smoothYaw = 0
	h.prevBoundary = false
	h.hasNearest = false

	h.velMap.Get(h.entity).Vec3 = geom.Vec3{}
	h.steerMap.Get(h.entity).Force = geom.Vec3{}

	inFront := true
	if h.Training {
		inFront = h.env.RNG.Float64() < h.env.Cfg.Spawn.FrontBias
	}
	if err := h.PlaceSafely(inFront); err != nil {
		return err
	}

	h.UpdateNearestFlower()
	return nil
}

// OnActionReceived applies one action vector: a world-space thrust direction
// in [0..2] and pitch/yaw rate targets in [3..4]. Rotation inputs are eased
// toward their targets before being applied, so policy jitter does not snap
// the bird's head around. No-op while frozen.
func (h *Hummingbird) OnActionReceived(action [5]float32) {
	if h.frozen {
		return
	}

	flight := h.flightMap.Get(h.entity)
	dt := h.env.Cfg.Derived.DT32

	move := geom.Vec3{X: action[0], Y: action[1], Z: action[2]}.Normalized()
	h.steerMap.Get(h.entity).Force = move.Scale(flight.MoveForce)

	h.smoothPitch = geom.MoveTowards(h.smoothPitch, action[3], flight.Smoothing*dt)
	h.smoothYaw = geom.MoveTowards(h.smoothYaw, action[4], flight.Smoothing*dt)

	rot := h.rotMap.Get(h.entity)
	pitch := geom.WrapDeg(rot.Pitch + h.smoothPitch*flight.PitchSpeed*dt)
	rot.Pitch = geom.Clamp(pitch, -flight.MaxPitch, flight.MaxPitch)
	rot.Yaw = geom.WrapDeg(rot.Yaw + h.smoothYaw*flight.YawSpeed*dt)
}

// Step asks the bird's action source for its next move and applies it.
func (h *Hummingbird) Step() {
	obs := h.CollectObservations()
	h.OnActionReceived(h.source.Act(obs[:]))
}

// CollectObservations builds the ten-float observation vector: orientation
// quaternion, normalized beak-to-flower direction, two alignment dots, and
// normalized distance. All zeros when no flower is tracked.
func (h *Hummingbird) CollectObservations() [10]float32 {
	var obs [10]float32
	if !h.hasNearest {
		return obs
	}

	q := h.rotMap.Get(h.entity).Orientation()
	beak := h.BeakTip()
	center := h.env.Patch.FlowerCenter(h.nearest)
	down := h.env.Patch.FlowerUp(h.nearest).Neg()

	to := center.Sub(beak)
	toHat := to.Normalized()

	obs[0], obs[1], obs[2], obs[3] = q.X, q.Y, q.Z, q.W
	obs[4], obs[5], obs[6] = toHat.X, toHat.Y, toHat.Z
	obs[7] = toHat.Dot(down)
	obs[8] = q.Forward().Dot(down)
	obs[9] = to.Length() / float32(h.env.Cfg.Arena.Diameter)
	return obs
}

// Heuristic converts keyboard axes into an action vector: the movement axes
// combine in the bird's frame into one world-space direction, and the look
// axes pass through with pitch inverted so pushing up looks up.
func (h *Hummingbird) Heuristic(axes Axes) [5]float32 {
	q := h.rotMap.Get(h.entity).Orientation()

	move := q.Forward().Scale(axes.Forward).
		Add(q.Right().Scale(axes.Right)).
		Add(q.Up().Scale(axes.Up)).
		Normalized()

	return [5]float32{move.X, move.Y, move.Z, -axes.Pitch, axes.Yaw}
}

// BeakTip returns the world-space beak tip position.
func (h *Hummingbird) BeakTip() geom.Vec3 {
	pos := h.posMap.Get(h.entity)
	flight := h.flightMap.Get(h.entity)
	forward := h.rotMap.Get(h.entity).Forward()
	return pos.Add(forward.Scale(flight.BeakLength))
}
