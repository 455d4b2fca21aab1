// Package main provides CMA-ES training of hummingbird policy weights on
// the nectar foraging task.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/policy"
	"github.com/Software-Cat/MLHummingbirds/telemetry"
)

// formatDuration formats a duration as hours/minutes/seconds for progress
// output.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	weightsPath := flag.String("weights", "", "Initial weights file (empty = random init)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	episodes := flag.Int("episodes", 8, "Training episodes per seed")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	initSeed := flag.Int64("seed", 0, "RNG seed for the initial network (0 = time-based)")
	topK := flag.Int("top-k", 10, "Leaderboard size")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Starting point in weight space
	var initNet *policy.Network
	if *weightsPath != "" {
		initNet, err = policy.LoadNetwork(*weightsPath)
		if err != nil {
			log.Fatalf("failed to load initial weights: %v", err)
		}
	} else {
		rngSeed := *initSeed
		if rngSeed == 0 {
			rngSeed = time.Now().UnixNano()
		}
		initNet = policy.NewNetwork(rand.New(rand.NewSource(rngSeed)))
	}
	initX := toFloat64(initNet.Vector())

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	// Create fitness evaluator
	evaluator := NewEvaluator(cfg, evalSeeds, *episodes)

	// Create optimization problem
	problem := optimize.Problem{
		Func: evaluator.Evaluate,
	}

	// CMA-ES settings
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run in parallel inside Evaluate
	}

	// Population size: 4 + floor(3*ln(n))
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(policy.NumWeights)))
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	// Open log file
	logPath := filepath.Join(*outputDir, "train_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	// Write header
	logWriter.Write([]string{"eval", "fitness", "nectar_mean", "reward_mean", "best"})

	// Track evaluations and timing
	evalCount := 0
	leaderboard := telemetry.NewLeaderboard(*topK)
	bestPath := filepath.Join(*outputDir, "best_weights.json")
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		best, bestVec := evaluator.Best()
		nectar, reward := evaluator.LastMeans()

		// Persist the best weights whenever they improve
		leaderboard.Consider(evalCount, fitness, toFloat32(x))
		if fitness <= best && bestVec != nil {
			if err := policy.FromVector(bestVec).Save(bestPath); err != nil {
				log.Printf("failed to save best weights: %v", err)
			}
		}

		logWriter.Write([]string{
			strconv.Itoa(evalCount),
			fmt.Sprintf("%.6f", fitness),
			fmt.Sprintf("%.4f", nectar),
			fmt.Sprintf("%.4f", reward),
			fmt.Sprintf("%.6f", best),
		})
		logWriter.Flush()

		// Print progress with timing
		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
		fmt.Printf("Eval %d/%d: fitness=%.4f nectar=%.3f reward=%.3f (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, fitness, nectar, reward, best,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	// Run optimization
	fmt.Printf("Starting CMA-ES training with %d weights, population=%d, max_evals=%d\n",
		policy.NumWeights, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, episodes per seed: %d\n", *seeds, *episodes)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use the best weights found (may be from any evaluation, not just final)
	bestFitness, bestVec := evaluator.Best()
	if bestVec == nil {
		bestVec = toFloat32(result.X)
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nTraining complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	if err := policy.FromVector(bestVec).Save(bestPath); err != nil {
		log.Fatalf("failed to save best weights: %v", err)
	}
	fmt.Printf("Best weights saved to: %s\n", bestPath)

	if leaderboard.Size() > 0 {
		boardPath := filepath.Join(*outputDir, "leaderboard.json")
		if err := leaderboard.Save(boardPath); err != nil {
			log.Printf("failed to save leaderboard: %v", err)
		} else {
			fmt.Printf("Top %d candidates saved to: %s\n", leaderboard.Size(), boardPath)
		}
	}
}
