package agent

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/flora"
	"github.com/Software-Cat/MLHummingbirds/geom"
	"github.com/Software-Cat/MLHummingbirds/systems"
)

type agentFixture struct {
	cfg  *config.Config
	env  *Env
	bird *Hummingbird
}

// newAgentFixture builds a flat-ground arena with the given plants and one
// controller-driven bird.
func newAgentFixture(t *testing.T, training bool, descs []flora.PlantDescriptor) *agentFixture {
	t.Helper()

	cfg := config.MustLoad("")
	cfg.Terrain.Amplitude = 0

	world := ecs.NewWorld()
	r := float32(cfg.Derived.AreaRadius)
	hash := systems.NewSpatialHash(world,
		geom.Vec3{X: -r, Y: 0, Z: -r},
		geom.Vec3{X: r, Y: float32(cfg.Arena.CeilingHeight), Z: r},
		float32(cfg.Spatial.CellSize))
	terrain := systems.NewTerrain(cfg, 1)
	patch := flora.NewPatch(world, cfg, hash)
	patch.Build(terrain, descs)

	env := &Env{
		World:   world,
		Cfg:     cfg,
		Patch:   patch,
		Hash:    hash,
		Terrain: terrain,
		RNG:     rand.New(rand.NewSource(99)),
	}
	entity := SpawnBird(env, 1)
	return &agentFixture{cfg: cfg, env: env, bird: NewHummingbird(env, entity, 1, nil, training)}
}

// twoPlantDescs puts one flower straight ahead of the origin and another far
// behind it, both facing the origin.
func twoPlantDescs() []flora.PlantDescriptor {
	return []flora.PlantDescriptor{
		{
			X: 0, Z: 2, StemHeight: 1.5, StemRadius: 0.05,
			Flowers: []flora.FlowerDescriptor{{Offset: geom.Vec3{Y: 1.5, Z: -0.3}, Up: geom.Vec3{Z: -1}}},
		},
		{
			X: 0, Z: -3, StemHeight: 1.5, StemRadius: 0.05,
			Flowers: []flora.FlowerDescriptor{{Offset: geom.Vec3{Y: 1.5, Z: 0.3}, Up: geom.Vec3{Z: 1}}},
		},
	}
}

// place pins the bird at an exact pose, bypassing the spawn search.
func (f *agentFixture) place(pos geom.Vec3, pitch, yaw float32) {
	f.bird.posMap.Get(f.bird.entity).Vec3 = pos
	rot := f.bird.rotMap.Get(f.bird.entity)
	rot.Pitch = pitch
	rot.Yaw = yaw
}

func TestOnEpisodeBeginZeroesState(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())
	b := f.bird

	b.NectarObtained = 3
	b.Reward = 2
	b.StepCount = 77
	b.smoothPitch = 0.5
	b.velMap.Get(b.entity).Vec3 = geom.Vec3{X: 4}

	if err := b.OnEpisodeBegin(); err != nil {
		t.Fatalf("OnEpisodeBegin() error: %v", err)
	}

	if b.NectarObtained != 0 || b.Reward != 0 || b.StepCount != 0 {
		t.Errorf("counters not reset: nectar=%v reward=%v steps=%d", b.NectarObtained, b.Reward, b.StepCount)
	}
	if b.smoothPitch != 0 || b.smoothYaw != 0 {
		t.Error("rotation smoothing not reset")
	}
	if !b.velMap.Get(b.entity).IsZero() {
		t.Error("velocity not zeroed")
	}
	if _, ok := b.NearestFlower(); !ok {
		t.Error("no nearest flower tracked after episode begin")
	}
}

func TestOnEpisodeBeginTrainingRefillsPatch(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())

	f.env.Patch.Withdraw(f.env.Patch.Flowers()[0], 1)
	if err := f.bird.OnEpisodeBegin(); err != nil {
		t.Fatalf("OnEpisodeBegin() error: %v", err)
	}

	if got, want := f.env.Patch.TotalNectar(), float32(2); got != want {
		t.Errorf("TotalNectar() = %v, want %v after training reset", got, want)
	}
}

func TestOnEpisodeBeginNonTrainingKeepsPatch(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())

	f.env.Patch.Withdraw(f.env.Patch.Flowers()[0], 1)
	if err := f.bird.OnEpisodeBegin(); err != nil {
		t.Fatalf("OnEpisodeBegin() error: %v", err)
	}

	if got, want := f.env.Patch.TotalNectar(), float32(1); got != want {
		t.Errorf("TotalNectar() = %v, want %v; play-mode episodes must not refill flowers", got, want)
	}
}

func TestOnActionReceivedForce(t *testing.T) {
	tests := []struct {
		name   string
		action [5]float32
		want   geom.Vec3
	}{
		{"unit axis", [5]float32{1, 0, 0, 0, 0}, geom.Vec3{X: 2}},
		{"oversized input normalized", [5]float32{0, 3, 0, 0, 0}, geom.Vec3{Y: 2}},
		{"zero input no force", [5]float32{0, 0, 0, 0, 0}, geom.Vec3{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAgentFixture(t, false, twoPlantDescs())
			f.bird.OnActionReceived(tc.action)

			got := f.bird.steerMap.Get(f.bird.entity).Force
			if got.DistanceTo(tc.want) > 1e-4 {
				t.Errorf("steering force = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOnActionReceivedSmoothsRotation(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird

	b.OnActionReceived([5]float32{0, 0, 0, 1, 1})

	// One tick of easing: input moves 2/s * 0.02s = 0.04 toward the target,
	// rotation moves input * 100 deg/s * 0.02s.
	rot := b.rotMap.Get(b.entity)
	if want := float32(0.04 * 100 * 0.02); absDiff(rot.Pitch, want) > 1e-4 {
		t.Errorf("pitch after one action = %v, want %v", rot.Pitch, want)
	}
	if want := float32(0.04 * 100 * 0.02); absDiff(rot.Yaw, want) > 1e-4 {
		t.Errorf("yaw after one action = %v, want %v", rot.Yaw, want)
	}
}

func TestPitchNeverExceedsClamp(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird

	for i := 0; i < 3000; i++ {
		b.OnActionReceived([5]float32{0, 0, 0, 1, 0})
	}

	rot := b.rotMap.Get(b.entity)
	if rot.Pitch > 80 || rot.Pitch < -80 {
		t.Errorf("pitch = %v, want within +/-80", rot.Pitch)
	}
	if rot.Pitch < 79.9 {
		t.Errorf("pitch = %v, want saturated at the clamp after sustained input", rot.Pitch)
	}
}

func TestYawWrapsAround(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird

	for i := 0; i < 12000; i++ {
		b.OnActionReceived([5]float32{0, 0, 0, 0, 1})
	}

	rot := b.rotMap.Get(b.entity)
	if rot.Yaw <= -180 || rot.Yaw > 180 {
		t.Errorf("yaw = %v, want wrapped into (-180, 180]", rot.Yaw)
	}
}

func TestFreezeGatesActions(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird
	f.place(geom.Vec3{Y: 2}, 10, 20)

	b.Freeze()
	if !b.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}

	b.OnActionReceived([5]float32{1, 1, 1, 1, 1})

	if !b.steerMap.Get(b.entity).Force.IsZero() {
		t.Error("frozen bird accepted steering force")
	}
	rot := b.rotMap.Get(b.entity)
	if rot.Pitch != 10 || rot.Yaw != 20 {
		t.Errorf("frozen bird rotated to pitch=%v yaw=%v", rot.Pitch, rot.Yaw)
	}

	b.Unfreeze()
	b.OnActionReceived([5]float32{1, 0, 0, 0, 0})
	if b.steerMap.Get(b.entity).Force.IsZero() {
		t.Error("unfrozen bird ignored steering force")
	}
}

func TestFreezePanicsInTraining(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())

	defer func() {
		if recover() == nil {
			t.Error("Freeze in training mode did not panic")
		}
	}()
	f.bird.Freeze()
}

func TestUnfreezePanicsInTraining(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())

	defer func() {
		if recover() == nil {
			t.Error("Unfreeze in training mode did not panic")
		}
	}()
	f.bird.Unfreeze()
}

func TestObservationsZeroWithoutFlower(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())

	if got := f.bird.CollectObservations(); got != ([10]float32{}) {
		t.Errorf("observations = %v, want all zeros before any flower is tracked", got)
	}
}

func TestObservationsFacingFlower(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird

	// Beak tip exactly one beak length short of the first flower's center,
	// facing it head on. The flower faces -Z, the bird flies +Z.
	center := f.env.Patch.FlowerCenter(f.env.Patch.Flowers()[0])
	f.place(center.Sub(geom.Vec3{Z: 0.24}), 0, 0)
	b.UpdateNearestFlower()

	obs := b.CollectObservations()

	// Identity orientation quaternion.
	if obs[0] != 0 || obs[1] != 0 || obs[2] != 0 || absDiff(obs[3], 1) > 1e-4 {
		t.Errorf("rotation quat = %v, want identity", obs[:4])
	}
	// To-flower direction is +Z.
	if absDiff(obs[4], 0) > 1e-4 || absDiff(obs[5], 0) > 1e-4 || absDiff(obs[6], 1) > 1e-4 {
		t.Errorf("to-flower = %v, want +Z", obs[4:7])
	}
	// Both alignment dots saturate when approaching dead on.
	if absDiff(obs[7], 1) > 1e-3 || absDiff(obs[8], 1) > 1e-3 {
		t.Errorf("alignment dots = %v %v, want 1 1", obs[7], obs[8])
	}
	// Distance from the beak tip, normalized by the arena diameter.
	if want := float32(0.12 / 20.0); absDiff(obs[9], want) > 1e-4 {
		t.Errorf("normalized distance = %v, want %v", obs[9], want)
	}
}

func TestHeuristicBuildsActions(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird
	f.place(geom.Vec3{Y: 2}, 0, 0)

	// Facing +Z: forward key alone moves +Z.
	got := b.Heuristic(Axes{Forward: 1})
	if absDiff(got[0], 0) > 1e-4 || absDiff(got[1], 0) > 1e-4 || absDiff(got[2], 1) > 1e-4 {
		t.Errorf("forward move = %v, want +Z", got[:3])
	}

	// Diagonal input still yields a unit direction.
	got = b.Heuristic(Axes{Forward: 1, Right: 1, Up: 1})
	move := geom.Vec3{X: got[0], Y: got[1], Z: got[2]}
	if l := move.Length(); absDiff(l, 1) > 1e-4 {
		t.Errorf("move length = %v, want 1", l)
	}

	// No movement input: zero vector, not NaN.
	got = b.Heuristic(Axes{Pitch: 1, Yaw: -1})
	if got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Errorf("idle move = %v, want zeros", got[:3])
	}
	if got[3] != -1 {
		t.Errorf("pitch action = %v, want inverted input -1", got[3])
	}
	if got[4] != -1 {
		t.Errorf("yaw action = %v, want passthrough -1", got[4])
	}
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}
