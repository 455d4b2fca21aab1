package telemetry

// Collector accumulates finished episodes and produces WindowSummary rows
// every windowEpisodes episodes.
type Collector struct {
	windowEpisodes int

	// Current window tracking
	windowStart int
	window      []EpisodeStats

	// Whole-run accumulation for the end-of-run summary
	episodes       int
	runNectar      []float64
	runRewards     []float64
	runSteps       int
	runWithdrawals int
	runDrained     int
	runBoundary    int
}

// NewCollector creates a new episode collector.
// windowEpisodes: how many episodes each summary row covers.
func NewCollector(windowEpisodes int) *Collector {
	if windowEpisodes < 1 {
		windowEpisodes = 1
	}
	return &Collector{windowEpisodes: windowEpisodes}
}

// RecordEpisode adds one finished episode.
func (c *Collector) RecordEpisode(s EpisodeStats) {
	c.window = append(c.window, s)

	c.episodes++
	c.runNectar = append(c.runNectar, s.Nectar)
	c.runRewards = append(c.runRewards, s.Reward)
	c.runSteps += s.Steps
	c.runWithdrawals += s.Withdrawals
	c.runDrained += s.FlowersDrained
	c.runBoundary += s.BoundaryHits
}

// ShouldFlush returns true once a full window of episodes has accumulated.
func (c *Collector) ShouldFlush() bool {
	return len(c.window) >= c.windowEpisodes
}

// Flush produces a WindowSummary over the buffered episodes and resets the
// window for the next one.
func (c *Collector) Flush() WindowSummary {
	nectar := make([]float64, 0, len(c.window))
	rewards := make([]float64, 0, len(c.window))
	var steps, withdrawals, drained, boundary int

	for _, s := range c.window {
		nectar = append(nectar, s.Nectar)
		rewards = append(rewards, s.Reward)
		steps += s.Steps
		withdrawals += s.Withdrawals
		drained += s.FlowersDrained
		boundary += s.BoundaryHits
	}

	summary := summarize(c.windowStart, c.episodes, nectar, rewards, steps, withdrawals, drained, boundary)

	// Reset for next window
	c.windowStart = c.episodes
	c.window = c.window[:0]

	return summary
}

// RunSummary aggregates every episode recorded so far, flushed or not.
func (c *Collector) RunSummary() WindowSummary {
	return summarize(0, c.episodes, c.runNectar, c.runRewards,
		c.runSteps, c.runWithdrawals, c.runDrained, c.runBoundary)
}

// EpisodeCount returns the total number of episodes recorded.
func (c *Collector) EpisodeCount() int {
	return c.episodes
}

// WindowEpisodes returns the number of episodes per summary window.
func (c *Collector) WindowEpisodes() int {
	return c.windowEpisodes
}

func summarize(start, end int, nectar, rewards []float64, steps, withdrawals, drained, boundary int) WindowSummary {
	count := len(nectar)

	summary := WindowSummary{
		WindowStart: start,
		WindowEnd:   end,
		Episodes:    count,

		Withdrawals:    withdrawals,
		FlowersDrained: drained,
		BoundaryHits:   boundary,
	}

	summary.NectarMean, summary.NectarP10, summary.NectarP50, summary.NectarP90 = ComputeScoreStats(nectar)
	summary.RewardMean, summary.RewardP10, summary.RewardP50, summary.RewardP90 = ComputeScoreStats(rewards)

	if count > 0 {
		summary.MeanSteps = float64(steps) / float64(count)
		summary.DrainRate = float64(drained) / float64(count)
		summary.BoundaryRate = float64(boundary) / float64(count)
	}

	return summary
}
