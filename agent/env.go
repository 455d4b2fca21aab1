// Package agent implements the hummingbird controller: episode lifecycle,
// action handling, observation building, safe placement, and feeding.
// Controllers live outside the ECS and drive bird entities through it.
package agent

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/flora"
	"github.com/Software-Cat/MLHummingbirds/systems"
)

// Env bundles the shared world services every controller operates on. The
// session builds one and hands it to each bird.
type Env struct {
	World   *ecs.World
	Cfg     *config.Config
	Patch   *flora.Patch
	Hash    *systems.SpatialHash
	Terrain *systems.Terrain
	RNG     *rand.Rand
}

// SpawnBird creates a bird entity with the full flight component set. The
// entity starts at the origin; OnEpisodeBegin places it properly.
func SpawnBird(env *Env, id uint32) ecs.Entity {
	mapper := ecs.NewMap7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Flight,
		components.Steering,
		components.Contact,
		components.Bird,
	](env.World)

	pos := components.Position{}
	vel := components.Velocity{}
	rot := components.Rotation{}
	flight := components.FlightFromConfig(env.Cfg)
	steer := components.Steering{}
	contact := components.Contact{}
	bird := components.Bird{ID: id}

	return mapper.NewEntity(&pos, &vel, &rot, &flight, &steer, &contact, &bird)
}
