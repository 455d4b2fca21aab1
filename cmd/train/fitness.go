package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/game"
	"github.com/Software-Cat/MLHummingbirds/policy"
)

// Evaluator scores candidate weight vectors by running headless training
// sessions and measuring what the bird collects.
type Evaluator struct {
	baseConfig *config.Config
	seeds      []int64
	episodes   int // episodes per seed

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestVector  []float32
	lastNectar  float64
	lastReward  float64
}

// NewEvaluator creates an evaluator running each candidate on the given
// seeds for a fixed episode budget per seed.
func NewEvaluator(baseCfg *config.Config, seeds []int64, episodes int) *Evaluator {
	return &Evaluator{
		baseConfig:  baseCfg,
		seeds:       seeds,
		episodes:    episodes,
		bestFitness: math.Inf(1),
	}
}

// Best returns the lowest fitness seen and its weight vector.
func (ev *Evaluator) Best() (float64, []float32) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.bestFitness, ev.bestVector
}

// LastMeans returns the nectar and reward means of the most recent
// evaluation, for progress output.
func (ev *Evaluator) LastMeans() (nectar, reward float64) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.lastNectar, ev.lastReward
}

// seedResult holds the outcome of one seed's run.
type seedResult struct {
	fitness float64
	nectar  float64
	reward  float64
}

// Evaluate computes fitness for a weight vector (lower = better). Fitness is
// the negated mean of episode reward plus episode nectar, averaged over all
// seeds; birds that collect more score lower.
func (ev *Evaluator) Evaluate(x []float64) float64 {
	vec := toFloat32(x)

	// Run all seeds in parallel
	results := make([]seedResult, len(ev.seeds))
	var wg sync.WaitGroup

	for i, seed := range ev.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = ev.runSeed(vec, s)
		}(i, seed)
	}
	wg.Wait()

	fitnesses := make([]float64, len(results))
	nectars := make([]float64, len(results))
	rewards := make([]float64, len(results))
	for i, r := range results {
		fitnesses[i] = r.fitness
		nectars[i] = r.nectar
		rewards[i] = r.reward
	}

	avg := stat.Mean(fitnesses, nil)

	ev.mu.Lock()
	if avg < ev.bestFitness {
		ev.bestFitness = avg
		ev.bestVector = append([]float32(nil), vec...)
	}
	ev.lastNectar = stat.Mean(nectars, nil)
	ev.lastReward = stat.Mean(rewards, nil)
	ev.mu.Unlock()

	return avg
}

// runSeed runs one headless training session to the episode budget and
// summarizes it. Failed runs score +Inf so the optimizer avoids them.
func (ev *Evaluator) runSeed(vec []float32, seed int64) seedResult {
	sess, err := game.NewSession(game.Options{
		Config:   ev.baseConfig,
		Seed:     seed,
		Training: true,
		Headless: true,
	})
	if err != nil {
		slog.Error("building evaluation session", "seed", seed, "error", err)
		return seedResult{fitness: math.Inf(1)}
	}
	defer sess.Close()

	sess.SetSource(0, policy.FromVector(vec))

	for sess.Episode() < ev.episodes {
		if err := sess.Step(); err != nil {
			slog.Error("evaluation step failed", "seed", seed, "error", err)
			return seedResult{fitness: math.Inf(1)}
		}
	}

	summary := sess.RunSummary()
	return seedResult{
		fitness: -(summary.RewardMean + summary.NectarMean),
		nectar:  summary.NectarMean,
		reward:  summary.RewardMean,
	}
}

func toFloat32(x []float64) []float32 {
	v := make([]float32, len(x))
	for i, f := range x {
		v[i] = float32(f)
	}
	return v
}

func toFloat64(x []float32) []float64 {
	v := make([]float64, len(x))
	for i, f := range x {
		v[i] = float64(f)
	}
	return v
}
