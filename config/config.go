// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Flight    FlightConfig    `yaml:"flight"`
	Nectar    NectarConfig    `yaml:"nectar"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Rewards   RewardsConfig   `yaml:"rewards"`
	Episode   EpisodeConfig   `yaml:"episode"`
	Flora     FloraConfig     `yaml:"flora"`
	Match     MatchConfig     `yaml:"match"`
	Input     InputConfig     `yaml:"input"`
	Spatial   SpatialConfig   `yaml:"spatial"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the dimensions of the flight volume.
// The arena is a vertical cylinder: birds fly inside its radius between the
// terrain below and the ceiling above.
type ArenaConfig struct {
	Diameter      float64 `yaml:"diameter"`       // Flight volume diameter in meters
	CeilingHeight float64 `yaml:"ceiling_height"` // Height of the invisible ceiling
	WallThickness float64 `yaml:"wall_thickness"` // Boundary collider thickness
}

// TerrainConfig holds ground heightfield parameters.
type TerrainConfig struct {
	Seed       int64   `yaml:"seed"`       // 0 = derive from the session seed
	Scale      float64 `yaml:"scale"`      // Base noise frequency
	Octaves    int     `yaml:"octaves"`    // FBM octaves (detail level)
	Lacunarity float64 `yaml:"lacunarity"` // Frequency multiplier per octave
	Gain       float64 `yaml:"gain"`       // Amplitude multiplier per octave
	Amplitude  float64 `yaml:"amplitude"`  // Peak height above the base plane
	GridStep   float64 `yaml:"grid_step"`  // Mesh sampling interval for rendering
}

// FlightConfig holds bird flight dynamics parameters.
type FlightConfig struct {
	MoveForce     float64 `yaml:"move_force"`      // Thrust magnitude at full input
	PitchSpeed    float64 `yaml:"pitch_speed"`     // Max pitch rate in degrees/second
	YawSpeed      float64 `yaml:"yaw_speed"`       // Max yaw rate in degrees/second
	MaxPitch      float64 `yaml:"max_pitch"`       // Pitch clamp in degrees (+/-)
	SmoothingRate float64 `yaml:"smoothing_rate"`  // Rotation input smoothing per second
	Mass          float64 `yaml:"mass"`            // Body mass in kilograms
	Drag          float64 `yaml:"drag"`            // Exponential velocity damping per second
	MaxSpeed      float64 `yaml:"max_speed"`       // Speed clamp in meters/second
	BodyRadius    float64 `yaml:"body_radius"`     // Collision radius of the body
	BeakLength    float64 `yaml:"beak_length"`     // Distance from body center to beak tip
	BeakTipRadius float64 `yaml:"beak_tip_radius"` // Contact radius of the beak tip
}

// NectarConfig holds feeding parameters.
type NectarConfig struct {
	Capacity float64 `yaml:"capacity"` // Nectar held by a full flower
	PerTick  float64 `yaml:"per_tick"` // Amount requested per fixed step of feeding
}

// SpawnConfig holds safe-placement search parameters.
type SpawnConfig struct {
	Attempts     int     `yaml:"attempts"`      // Placement tries before giving up
	SafetyRadius float64 `yaml:"safety_radius"` // Overlap-free clearance around a candidate
	FrontBias    float64 `yaml:"front_bias"`    // Chance of spawning in front of a flower while training
	FrontMin     float64 `yaml:"front_min"`     // Min distance in front of the flower
	FrontMax     float64 `yaml:"front_max"`     // Max distance in front of the flower
	HeightMin    float64 `yaml:"height_min"`    // Min height above ground for free placement
	HeightMax    float64 `yaml:"height_max"`    // Max height above ground for free placement
	RadiusMin    float64 `yaml:"radius_min"`    // Min distance from arena center
	RadiusMax    float64 `yaml:"radius_max"`    // Max distance from arena center
	PitchRange   float64 `yaml:"pitch_range"`   // Random start pitch in degrees (+/-)
}

// RewardsConfig holds training reward shaping parameters.
type RewardsConfig struct {
	NectarBase      float64 `yaml:"nectar_base"`      // Per-step reward while drinking
	AlignmentBonus  float64 `yaml:"alignment_bonus"`  // Extra reward scaled by beak/flower alignment
	BoundaryPenalty float64 `yaml:"boundary_penalty"` // One-time penalty for hitting the arena boundary
}

// EpisodeConfig holds fixed-step episode parameters.
type EpisodeConfig struct {
	DT       float64 `yaml:"dt"`        // Fixed timestep in seconds
	MaxSteps int     `yaml:"max_steps"` // Steps per training episode (0 = unbounded)
}

// FloraConfig holds flower plant generation parameters.
type FloraConfig struct {
	Plants          int     `yaml:"plants"`            // Number of plants in the patch
	FlowersPerPlant int     `yaml:"flowers_per_plant"` // Blossoms on each plant
	RingMin         float64 `yaml:"ring_min"`          // Min plant distance from arena center
	RingMax         float64 `yaml:"ring_max"`          // Max plant distance from arena center
	StemHeightMin   float64 `yaml:"stem_height_min"`   // Min blossom height above ground
	StemHeightMax   float64 `yaml:"stem_height_max"`   // Max blossom height above ground
	TiltDegrees     float64 `yaml:"tilt_degrees"`      // Random plant lean per episode (+/-)
	PetalRadius     float64 `yaml:"petal_radius"`      // Petal disc collision radius
	NectarRadius    float64 `yaml:"nectar_radius"`     // Nectar trigger collision radius
}

// MatchConfig holds timed-match parameters for play mode.
type MatchConfig struct {
	CountdownSeconds float64 `yaml:"countdown_seconds"` // Freeze time before the match starts
	DurationSeconds  float64 `yaml:"duration_seconds"`  // Match length
	OpponentWeights  string  `yaml:"opponent_weights"`  // Brain file for the computer bird ("" = scripted)
}

// InputConfig holds keyboard binding names for the player bird.
type InputConfig struct {
	Forward   string `yaml:"forward"`
	Backward  string `yaml:"backward"`
	Left      string `yaml:"left"`
	Right     string `yaml:"right"`
	Up        string `yaml:"up"`
	Down      string `yaml:"down"`
	PitchUp   string `yaml:"pitch_up"`
	PitchDown string `yaml:"pitch_down"`
	YawLeft   string `yaml:"yaw_left"`
	YawRight  string `yaml:"yaw_right"`
}

// SpatialConfig holds broad-phase collision parameters.
type SpatialConfig struct {
	CellSize float64 `yaml:"cell_size"` // Spatial hash cell edge length
}

// TelemetryConfig holds episode statistics parameters.
type TelemetryConfig struct {
	WindowEpisodes int `yaml:"window_episodes"` // Episodes aggregated per summary row
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32           float32 // Episode.DT as float32
	AreaRadius     float64 // Arena.Diameter / 2
	AreaRadius32   float32 // AreaRadius as float32
	StepsPerSecond int     // Fixed steps per simulated second
	CountdownTicks int     // Match.CountdownSeconds in fixed steps
	MatchTicks     int     // Match.DurationSeconds in fixed steps
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Episode.DT <= 0:
		return fmt.Errorf("episode.dt must be positive, got %v", c.Episode.DT)
	case c.Arena.Diameter <= 0:
		return fmt.Errorf("arena.diameter must be positive, got %v", c.Arena.Diameter)
	case c.Spawn.Attempts < 1:
		return fmt.Errorf("spawn.attempts must be at least 1, got %d", c.Spawn.Attempts)
	case c.Spawn.SafetyRadius <= 0:
		return fmt.Errorf("spawn.safety_radius must be positive, got %v", c.Spawn.SafetyRadius)
	case c.Flight.MaxPitch <= 0 || c.Flight.MaxPitch >= 90:
		return fmt.Errorf("flight.max_pitch must be in (0, 90), got %v", c.Flight.MaxPitch)
	case c.Flight.Mass <= 0:
		return fmt.Errorf("flight.mass must be positive, got %v", c.Flight.Mass)
	case c.Nectar.Capacity <= 0:
		return fmt.Errorf("nectar.capacity must be positive, got %v", c.Nectar.Capacity)
	case c.Nectar.PerTick <= 0:
		return fmt.Errorf("nectar.per_tick must be positive, got %v", c.Nectar.PerTick)
	case c.Flora.Plants < 1:
		return fmt.Errorf("flora.plants must be at least 1, got %d", c.Flora.Plants)
	case c.Flora.FlowersPerPlant < 1:
		return fmt.Errorf("flora.flowers_per_plant must be at least 1, got %d", c.Flora.FlowersPerPlant)
	case c.Spatial.CellSize <= 0:
		return fmt.Errorf("spatial.cell_size must be positive, got %v", c.Spatial.CellSize)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Episode.DT)
	c.Derived.AreaRadius = c.Arena.Diameter / 2
	c.Derived.AreaRadius32 = float32(c.Derived.AreaRadius)
	c.Derived.StepsPerSecond = int(1/c.Episode.DT + 0.5)
	c.Derived.CountdownTicks = int(c.Match.CountdownSeconds/c.Episode.DT + 0.5)
	c.Derived.MatchTicks = int(c.Match.DurationSeconds/c.Episode.DT + 0.5)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
