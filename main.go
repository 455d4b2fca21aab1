package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Software-Cat/MLHummingbirds/agent"
	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	training := flag.Bool("training", false, "Run a single policy bird through endless episodes")
	weights := flag.String("weights", "", "Policy weights file (opponent in play mode, initial policy in training)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	perfLog := flag.Bool("perf", false, "Log step timing periodically")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := game.NewSession(game.Options{
		Config:      cfg,
		Seed:        rngSeed,
		Training:    *training,
		Headless:    *headless,
		WeightsPath: *weights,
		OutputDir:   *outputDir,
	})
	if err != nil {
		slog.Error("failed to build session", "error", err)
		os.Exit(1)
	}

	slog.Info("starting session",
		"seed", rngSeed,
		"training", *training,
		"headless", *headless,
		"max_ticks", *maxTicks,
	)

	var runErr error
	if *headless {
		runErr = runHeadless(s, *maxTicks, *perfLog)
	} else {
		runErr = runWindow(s, cfg, *maxTicks)
	}

	if s.EpisodeCount() > 0 {
		s.RunSummary().LogStats()
	}
	if err := s.Close(); err != nil {
		slog.Error("closing session", "error", err)
	}
	if runErr != nil {
		slog.Error("session failed", "error", runErr)
		if errors.Is(runErr, agent.ErrNoSafePlacement) {
			slog.Error("no safe spawn found; check spawn and flora settings")
		}
		os.Exit(1)
	}
}

// runHeadless steps the simulation flat out, without raylib.
func runHeadless(s *game.Session, maxTicks int, perfLog bool) error {
	perfEvery := s.Cfg().Derived.StepsPerSecond * 10

	for {
		if err := s.Step(); err != nil {
			return err
		}

		if perfLog && perfEvery > 0 && s.Tick()%perfEvery == 0 {
			s.Perf().Stats().LogStats()
		}
		if maxTicks > 0 && s.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return nil
		}
		if !s.Training() && s.State() == game.StateGameOver {
			slog.Info("match finished", "winner", s.Winner())
			return nil
		}
	}
}

// runWindow runs the graphical loop.
func runWindow(s *game.Session, cfg *config.Config, maxTicks int) error {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Hummingbirds")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	for !rl.WindowShouldClose() {
		if err := s.Update(); err != nil {
			return err
		}
		s.Draw()

		if maxTicks > 0 && s.Tick() >= maxTicks {
			break
		}
	}
	return nil
}
