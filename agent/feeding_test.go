package agent

import (
	"testing"

	"github.com/Software-Cat/MLHummingbirds/flora"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// feedingPose pins the bird so its beak tip sits exactly on the first
// flower's nectar surface, facing straight into it.
func feedingPose(f *agentFixture) {
	center := f.env.Patch.FlowerCenter(f.env.Patch.Flowers()[0])
	f.place(center.Sub(geom.Vec3{Z: 0.12}), 0, 0)
	f.bird.UpdateNearestFlower()
}

func TestTickFeedsThroughTrigger(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	feedingPose(f)

	f.bird.Tick()

	perTick := float32(f.cfg.Nectar.PerTick)
	if got := f.bird.NectarObtained; absDiff(got, perTick) > 1e-6 {
		t.Errorf("NectarObtained = %v, want %v", got, perTick)
	}
	if got := f.bird.Reward; got != 0 {
		t.Errorf("Reward = %v, play mode must not grant rewards", got)
	}

	flower := f.env.Patch.Flowers()[0]
	want := float32(f.cfg.Nectar.Capacity) - perTick
	if got := f.env.Patch.NectarAmount(flower); absDiff(got, want) > 1e-6 {
		t.Errorf("flower nectar = %v, want %v", got, want)
	}
}

func TestTickRewardsAlignedFeeding(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())
	feedingPose(f)

	f.bird.Tick()

	// Dead-on approach: base reward plus the full alignment bonus.
	want := float32(f.cfg.Rewards.NectarBase + f.cfg.Rewards.AlignmentBonus)
	if got := f.bird.Reward; absDiff(got, want) > 1e-5 {
		t.Errorf("Reward = %v, want %v", got, want)
	}
}

func TestTickOutOfReachFeedsNothing(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	center := f.env.Patch.FlowerCenter(f.env.Patch.Flowers()[0])
	f.place(center.Sub(geom.Vec3{Z: 1}), 0, 0)
	f.bird.UpdateNearestFlower()

	f.bird.Tick()

	if f.bird.NectarObtained != 0 {
		t.Errorf("NectarObtained = %v, beak a meter away must not feed", f.bird.NectarObtained)
	}
}

func TestEmptyingFlowerRetargets(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	flowers := f.env.Patch.Flowers()

	// Leave less than one sip in the first flower.
	f.env.Patch.Withdraw(flowers[0], float32(f.cfg.Nectar.Capacity)-0.004)
	feedingPose(f)

	if got, _ := f.bird.NearestFlower(); got != flowers[0] {
		t.Fatal("bird should start tracking the first flower")
	}

	f.bird.Tick()

	if got := f.bird.NectarObtained; absDiff(got, 0.004) > 1e-6 {
		t.Errorf("NectarObtained = %v, want the 0.004 that was left", got)
	}
	if f.env.Patch.HasNectar(flowers[0]) {
		t.Error("first flower should be drained")
	}
	if got, ok := f.bird.NearestFlower(); !ok || got != flowers[1] {
		t.Error("bird did not retarget the remaining full flower")
	}
}

func TestDrainedTrackedFlowerRecomputedOnTick(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	flowers := f.env.Patch.Flowers()

	center := f.env.Patch.FlowerCenter(flowers[0])
	f.place(center.Sub(geom.Vec3{Z: 1}), 0, 0)
	f.bird.UpdateNearestFlower()

	// Someone else empties the tracked flower between ticks.
	f.env.Patch.Withdraw(flowers[0], 1)
	f.bird.Tick()

	if got, ok := f.bird.NearestFlower(); !ok || got != flowers[1] {
		t.Error("tick did not retarget after the tracked flower went dry")
	}
}

func TestNearestFlowerPrefersCloserAndTiesByOrder(t *testing.T) {
	descs := []flora.PlantDescriptor{
		{X: 0, Z: 2, StemHeight: 1.5, StemRadius: 0.05,
			Flowers: []flora.FlowerDescriptor{{Offset: geom.Vec3{Y: 1.5}, Up: geom.Vec3{Z: -1}}}},
		{X: 0, Z: -2, StemHeight: 1.5, StemRadius: 0.05,
			Flowers: []flora.FlowerDescriptor{{Offset: geom.Vec3{Y: 1.5}, Up: geom.Vec3{Z: 1}}}},
	}
	f := newAgentFixture(t, false, descs)
	flowers := f.env.Patch.Flowers()

	// Beak tip at the exact midpoint: a tie, resolved by patch order.
	f.place(geom.Vec3{Y: 1.5, Z: -0.12}, 0, 0)
	f.bird.UpdateNearestFlower()
	if got, _ := f.bird.NearestFlower(); got != flowers[0] {
		t.Error("distance tie did not resolve to patch order")
	}

	// Nudge toward the second flower: strictly closer, so it wins.
	f.place(geom.Vec3{Y: 1.5, Z: -1.12}, 0, 0)
	f.bird.UpdateNearestFlower()
	if got, _ := f.bird.NearestFlower(); got != flowers[1] {
		t.Error("strictly closer flower not selected")
	}

	// An empty flower is never picked over a full one, regardless of distance.
	f.env.Patch.Withdraw(flowers[1], 1)
	f.bird.UpdateNearestFlower()
	if got, _ := f.bird.NearestFlower(); got != flowers[0] {
		t.Error("empty flower retained while a full one exists")
	}
}

func TestBoundaryPenaltyOnEntry(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())
	b := f.bird
	f.place(geom.Vec3{Y: 5}, 0, 0)
	penalty := float32(f.cfg.Rewards.BoundaryPenalty)

	contact := b.contactMap.Get(b.entity)

	contact.Boundary = true
	b.Tick()
	if got := b.Reward; absDiff(got, penalty) > 1e-5 {
		t.Fatalf("Reward = %v after boundary entry, want %v", got, penalty)
	}

	// Still pressed against the boundary: no additional penalty.
	contact.Boundary = true
	b.Tick()
	if got := b.Reward; absDiff(got, penalty) > 1e-5 {
		t.Errorf("Reward = %v while staying on boundary, want %v", got, penalty)
	}

	// Leaving and hitting again penalizes again.
	contact.Boundary = false
	b.Tick()
	contact.Boundary = true
	b.Tick()
	if got := b.Reward; absDiff(got, 2*penalty) > 1e-5 {
		t.Errorf("Reward = %v after second entry, want %v", got, 2*penalty)
	}
}

func TestBoundaryPenaltyOnlyWhileTraining(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	b := f.bird
	f.place(geom.Vec3{Y: 5}, 0, 0)

	b.contactMap.Get(b.entity).Boundary = true
	b.Tick()

	if b.Reward != 0 {
		t.Errorf("Reward = %v, play mode must not penalize boundaries", b.Reward)
	}
}

func TestTrainingEpisodeEndsAtMaxSteps(t *testing.T) {
	f := newAgentFixture(t, true, twoPlantDescs())
	f.cfg.Episode.MaxSteps = 3
	f.place(geom.Vec3{Y: 5}, 0, 0)

	if f.bird.Tick() || f.bird.Tick() {
		t.Fatal("episode ended before the step limit")
	}
	if !f.bird.Tick() {
		t.Error("episode did not end at the step limit")
	}
}

func TestPlayModeNeverEndsEpisodes(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	f.cfg.Episode.MaxSteps = 2
	f.place(geom.Vec3{Y: 5}, 0, 0)

	for i := 0; i < 10; i++ {
		if f.bird.Tick() {
			t.Fatal("play-mode tick reported an episode end")
		}
	}
	if f.bird.StepCount != 0 {
		t.Error("play mode should not count training steps")
	}
}

func TestFrozenBirdDoesNotFeed(t *testing.T) {
	f := newAgentFixture(t, false, twoPlantDescs())
	feedingPose(f)

	f.bird.Freeze()
	f.bird.Tick()

	if f.bird.NectarObtained != 0 {
		t.Errorf("NectarObtained = %v, frozen birds must not feed", f.bird.NectarObtained)
	}
}
