package telemetry

import (
	"log/slog"
	"sort"
)

// EpisodeStats is one row of episodes.csv: everything a single bird did over
// a single episode.
type EpisodeStats struct {
	Episode int    `csv:"episode"`
	BirdID  uint32 `csv:"bird"`

	Steps      int     `csv:"steps"`
	SimTimeSec float64 `csv:"sim_time"`

	Nectar float64 `csv:"nectar"`
	Reward float64 `csv:"reward"`

	Withdrawals    int `csv:"withdrawals"`
	FlowersDrained int `csv:"flowers_drained"`
	BoundaryHits   int `csv:"boundary_hits"`
	SpawnAttempts  int `csv:"spawn_attempts"`
}

// WindowSummary aggregates a window of episodes for periodic logging and
// summary.csv.
type WindowSummary struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`
	Episodes    int `csv:"episodes"`

	// Score distribution across the window's episodes
	NectarMean float64 `csv:"nectar_mean"`
	NectarP10  float64 `csv:"nectar_p10"`
	NectarP50  float64 `csv:"nectar_p50"`
	NectarP90  float64 `csv:"nectar_p90"`

	RewardMean float64 `csv:"reward_mean"`
	RewardP10  float64 `csv:"reward_p10"`
	RewardP50  float64 `csv:"reward_p50"`
	RewardP90  float64 `csv:"reward_p90"`

	MeanSteps float64 `csv:"mean_steps"`

	// Event totals during the window
	Withdrawals    int `csv:"withdrawals"`
	FlowersDrained int `csv:"flowers_drained"`
	BoundaryHits   int `csv:"boundary_hits"`

	DrainRate    float64 `csv:"drain_rate"`    // flowers drained per episode
	BoundaryRate float64 `csv:"boundary_rate"` // boundary hits per episode
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeScoreStats calculates mean and percentiles from per-episode scores.
func ComputeScoreStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogStats logs the window summary using slog.
func (s WindowSummary) LogStats() {
	slog.Info("episodes",
		"window_end", s.WindowEnd,
		"episodes", s.Episodes,
		"nectar_mean", s.NectarMean,
		"nectar_p10", s.NectarP10,
		"nectar_p50", s.NectarP50,
		"nectar_p90", s.NectarP90,
		"reward_mean", s.RewardMean,
		"reward_p10", s.RewardP10,
		"reward_p50", s.RewardP50,
		"reward_p90", s.RewardP90,
		"mean_steps", s.MeanSteps,
		"withdrawals", s.Withdrawals,
		"flowers_drained", s.FlowersDrained,
		"boundary_hits", s.BoundaryHits,
		"drain_rate", s.DrainRate,
		"boundary_rate", s.BoundaryRate,
	)
}
