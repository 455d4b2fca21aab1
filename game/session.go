// Package game drives hummingbird sessions: world construction, the fixed
// simulation step, match choreography, and the raylib front end.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/agent"
	"github.com/Software-Cat/MLHummingbirds/camera"
	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/flora"
	"github.com/Software-Cat/MLHummingbirds/geom"
	"github.com/Software-Cat/MLHummingbirds/inspector"
	"github.com/Software-Cat/MLHummingbirds/policy"
	"github.com/Software-Cat/MLHummingbirds/systems"
	"github.com/Software-Cat/MLHummingbirds/telemetry"
	"github.com/Software-Cat/MLHummingbirds/ui"
)

// Bird roles in play mode.
const (
	BirdPlayer   = 0 // keyboard heuristic
	BirdOpponent = 1 // policy network or scripted
)

// Options configures a new session.
type Options struct {
	Config      *config.Config // nil = embedded defaults
	Seed        int64
	Training    bool   // one policy bird, endless auto-resetting episodes
	Headless    bool   // no window; input and drawing are skipped
	WeightsPath string // policy weights file; overrides match.opponent_weights
	OutputDir   string // "" disables CSV output
}

// Session owns the world and everything living in it.
type Session struct {
	opts Options
	cfg  *config.Config
	rng  *rand.Rand

	world   *ecs.World
	terrain *systems.Terrain
	hash    *systems.SpatialHash
	flight  *systems.FlightSystem
	patch   *flora.Patch
	env     *agent.Env

	birds []*agent.Hummingbird

	// Component access for rendering and tuning
	posMap     *ecs.Map1[components.Position]
	velMap     *ecs.Map1[components.Velocity]
	rotMap     *ecs.Map1[components.Rotation]
	flightMap  *ecs.Map1[components.Flight]
	contactMap *ecs.Map1[components.Contact]

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector

	// Match flow (play mode only)
	state         State
	countdownLeft int
	matchLeft     int
	matchIndex    int
	winner        int

	tick           int
	episode        int
	paused         bool
	stepsPerUpdate int

	// Front end
	cam        *camera.Camera
	hud        *ui.HUD
	inspect    *inspector.Inspector
	bindings   Bindings
	playerAxes agent.Axes
	showPanel  bool
	showLines  bool
	tuning     ui.TuningValues
	heights    []float32 // cached terrain grid for drawing
	gridN      int
	gridStep   float32
}

// NewSession builds a world from options: terrain, spatial index, flower
// patch, birds, telemetry. The first episode or match starts on the first
// Step call.
func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.MustLoad("")
	}

	s := &Session{
		opts:           opts,
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		world:          ecs.NewWorld(),
		state:          StatePreparing,
		winner:         NoWinner,
		stepsPerUpdate: 1,
	}

	s.posMap = ecs.NewMap1[components.Position](s.world)
	s.velMap = ecs.NewMap1[components.Velocity](s.world)
	s.rotMap = ecs.NewMap1[components.Rotation](s.world)
	s.flightMap = ecs.NewMap1[components.Flight](s.world)
	s.contactMap = ecs.NewMap1[components.Contact](s.world)

	radius := cfg.Derived.AreaRadius32
	ceiling := float32(cfg.Arena.CeilingHeight)

	s.terrain = systems.NewTerrain(cfg, opts.Seed)
	s.hash = systems.NewSpatialHash(s.world,
		geom.Vec3{X: -radius, Y: 0, Z: -radius},
		geom.Vec3{X: radius, Y: ceiling, Z: radius},
		float32(cfg.Spatial.CellSize))

	s.patch = flora.NewPatch(s.world, cfg, s.hash)
	s.patch.Build(s.terrain, flora.GenerateLayout(cfg, opts.Seed))

	s.flight = systems.NewFlightSystem(s.world, s.terrain, s.hash, radius, ceiling)

	s.env = &agent.Env{
		World:   s.world,
		Cfg:     cfg,
		Patch:   s.patch,
		Hash:    s.hash,
		Terrain: s.terrain,
		RNG:     s.rng,
	}

	if err := s.spawnBirds(); err != nil {
		return nil, err
	}

	s.collector = telemetry.NewCollector(cfg.Telemetry.WindowEpisodes)
	s.perf = telemetry.NewPerfCollector(cfg.Derived.StepsPerSecond)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := s.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	s.cam = camera.New(geom.Vec3{Y: 1.5}, radius*1.3)
	s.hud = ui.NewHUD()
	s.inspect = inspector.NewInspector()
	s.bindings, err = NewBindings(cfg.Input)
	if err != nil {
		return nil, err
	}
	s.tuning = ui.TuningValues{
		MoveForce:  float32(cfg.Flight.MoveForce),
		PitchSpeed: float32(cfg.Flight.PitchSpeed),
		YawSpeed:   float32(cfg.Flight.YawSpeed),
	}
	s.cacheTerrainGrid()

	return s, nil
}

// spawnBirds creates the session's birds and their controllers.
func (s *Session) spawnBirds() error {
	if s.opts.Training {
		source, err := s.trainingSource()
		if err != nil {
			return err
		}
		e := agent.SpawnBird(s.env, BirdPlayer)
		s.birds = []*agent.Hummingbird{
			agent.NewHummingbird(s.env, e, BirdPlayer, source, true),
		}
		return nil
	}

	source, err := s.opponentSource()
	if err != nil {
		return err
	}
	player := agent.SpawnBird(s.env, BirdPlayer)
	opponent := agent.SpawnBird(s.env, BirdOpponent)
	s.birds = []*agent.Hummingbird{
		agent.NewHummingbird(s.env, player, BirdPlayer, nil, false),
		agent.NewHummingbird(s.env, opponent, BirdOpponent, source, false),
	}
	return nil
}

// trainingSource loads resume weights when given, otherwise starts from a
// fresh random network.
func (s *Session) trainingSource() (policy.Source, error) {
	if s.opts.WeightsPath == "" {
		return policy.NewNetwork(s.rng), nil
	}
	net, err := policy.LoadNetwork(s.opts.WeightsPath)
	if err != nil {
		return nil, fmt.Errorf("loading policy weights: %w", err)
	}
	return net, nil
}

// opponentSource picks the computer bird's brain: an explicit weights path,
// the configured match opponent, or a hovering script when neither is set.
func (s *Session) opponentSource() (policy.Source, error) {
	path := s.opts.WeightsPath
	if path == "" {
		path = s.cfg.Match.OpponentWeights
	}
	if path == "" {
		return &policy.Scripted{}, nil
	}
	net, err := policy.LoadNetwork(path)
	if err != nil {
		return nil, fmt.Errorf("loading opponent weights: %w", err)
	}
	return net, nil
}

// SetSource swaps the policy source of the given bird. The trainer uses this
// to evaluate candidate weight vectors on a warm session.
func (s *Session) SetSource(bird int, source policy.Source) {
	s.birds[bird].SetSource(source)
}

// Step advances the simulation one fixed step.
func (s *Session) Step() error {
	if s.paused {
		return nil
	}

	s.perf.StartStep()
	defer s.perf.EndStep()

	if s.opts.Training {
		return s.stepTraining()
	}
	return s.stepMatch()
}

// stepTraining runs one step of the endless training loop: act, integrate,
// feed, and roll into a fresh episode when the step limit hits.
func (s *Session) stepTraining() error {
	bird := s.birds[0]

	if s.tick == 0 {
		if err := bird.OnEpisodeBegin(); err != nil {
			return fmt.Errorf("starting first episode: %w", err)
		}
	}

	s.perf.StartPhase(telemetry.PhaseActions)
	bird.Step()

	s.perf.StartPhase(telemetry.PhaseFlight)
	s.flight.Update(s.cfg.Derived.DT32)

	s.perf.StartPhase(telemetry.PhaseFeeding)
	done := bird.Tick()

	s.tick++

	if done {
		s.perf.StartPhase(telemetry.PhaseTelemetry)
		s.recordEpisode(bird)
		s.episode++
		if err := bird.OnEpisodeBegin(); err != nil {
			return fmt.Errorf("starting episode %d: %w", s.episode, err)
		}
	}
	return nil
}

// recordEpisode turns a finished training episode into a telemetry row.
func (s *Session) recordEpisode(bird *agent.Hummingbird) {
	s.submitRow(episodeRow(bird, s.episode, bird.StepCount, s.cfg.Episode.DT))
}

// episodeRow snapshots a bird's per-episode counters.
func episodeRow(bird *agent.Hummingbird, episode, steps int, dt float64) telemetry.EpisodeStats {
	return telemetry.EpisodeStats{
		Episode:        episode,
		BirdID:         bird.ID,
		Steps:          steps,
		SimTimeSec:     float64(steps) * dt,
		Nectar:         float64(bird.NectarObtained),
		Reward:         float64(bird.Reward),
		Withdrawals:    bird.Withdrawals,
		FlowersDrained: bird.FlowersDrained,
		BoundaryHits:   bird.BoundaryHits,
		SpawnAttempts:  bird.SpawnAttempts,
	}
}

// submitRow records a row and flushes full windows. Output errors are
// logged, not fatal; the run continues.
func (s *Session) submitRow(row telemetry.EpisodeStats) {
	s.collector.RecordEpisode(row)
	if err := s.output.WriteEpisode(row); err != nil {
		slog.Error("writing episode row", "error", err)
	}

	if s.collector.ShouldFlush() {
		summary := s.collector.Flush()
		summary.LogStats()
		if err := s.output.WriteSummary(summary); err != nil {
			slog.Error("writing summary row", "error", err)
		}
	}
}

// applyTuning pushes the live tuning values into every bird's flight
// component.
func (s *Session) applyTuning() {
	for _, b := range s.birds {
		f := s.flightMap.Get(b.Entity())
		f.MoveForce = s.tuning.MoveForce
		f.PitchSpeed = s.tuning.PitchSpeed
		f.YawSpeed = s.tuning.YawSpeed
	}
}

// SetPlayerAxes feeds the keyboard axes applied on the next step.
func (s *Session) SetPlayerAxes(axes agent.Axes) {
	s.playerAxes = axes
}

// Close flushes telemetry output.
func (s *Session) Close() error {
	return s.output.Close()
}

// RunSummary aggregates every episode recorded so far.
func (s *Session) RunSummary() telemetry.WindowSummary {
	return s.collector.RunSummary()
}

// EpisodeCount returns the number of recorded episode rows.
func (s *Session) EpisodeCount() int {
	return s.collector.EpisodeCount()
}

// Cfg returns the session's effective configuration.
func (s *Session) Cfg() *config.Config { return s.cfg }

// Tick returns the number of fixed steps taken.
func (s *Session) Tick() int { return s.tick }

// Episode returns the number of finished training episodes.
func (s *Session) Episode() int { return s.episode }

// Birds returns the session's controllers, indexed by role.
func (s *Session) Birds() []*agent.Hummingbird { return s.birds }

// Patch returns the flower patch.
func (s *Session) Patch() *flora.Patch { return s.patch }

// Terrain returns the island heightfield.
func (s *Session) Terrain() *systems.Terrain { return s.terrain }

// Training reports whether this is a training session.
func (s *Session) Training() bool { return s.opts.Training }

// Paused reports whether stepping is suspended.
func (s *Session) Paused() bool { return s.paused }

// Perf returns the step timing collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perf }

// StepsPerUpdate returns the simulation speed multiplier.
func (s *Session) StepsPerUpdate() int { return s.stepsPerUpdate }
