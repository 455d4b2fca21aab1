package telemetry

import (
	"math"
	"testing"
)

func episodeRow(episode int, nectar, reward float64) EpisodeStats {
	return EpisodeStats{
		Episode:        episode,
		BirdID:         1,
		Steps:          100,
		SimTimeSec:     2.0,
		Nectar:         nectar,
		Reward:         reward,
		Withdrawals:    10,
		FlowersDrained: 1,
		BoundaryHits:   2,
		SpawnAttempts:  1,
	}
}

func TestCollectorFlushesFullWindows(t *testing.T) {
	c := NewCollector(3)

	c.RecordEpisode(episodeRow(0, 1.0, 0.5))
	c.RecordEpisode(episodeRow(1, 2.0, 1.0))
	if c.ShouldFlush() {
		t.Fatal("window of 3 should not flush after 2 episodes")
	}

	c.RecordEpisode(episodeRow(2, 3.0, 1.5))
	if !c.ShouldFlush() {
		t.Fatal("window of 3 should flush after 3 episodes")
	}

	s := c.Flush()
	if s.WindowStart != 0 || s.WindowEnd != 3 || s.Episodes != 3 {
		t.Errorf("window bounds = [%d, %d) over %d episodes, want [0, 3) over 3",
			s.WindowStart, s.WindowEnd, s.Episodes)
	}
	if math.Abs(s.NectarMean-2.0) > 1e-9 {
		t.Errorf("NectarMean = %v, want 2.0", s.NectarMean)
	}
	if math.Abs(s.RewardMean-1.0) > 1e-9 {
		t.Errorf("RewardMean = %v, want 1.0", s.RewardMean)
	}
	if s.Withdrawals != 30 || s.FlowersDrained != 3 || s.BoundaryHits != 6 {
		t.Errorf("event totals = %d/%d/%d, want 30/3/6",
			s.Withdrawals, s.FlowersDrained, s.BoundaryHits)
	}
	if math.Abs(s.MeanSteps-100) > 1e-9 {
		t.Errorf("MeanSteps = %v, want 100", s.MeanSteps)
	}
	if math.Abs(s.DrainRate-1.0) > 1e-9 || math.Abs(s.BoundaryRate-2.0) > 1e-9 {
		t.Errorf("rates = %v/%v, want 1.0/2.0", s.DrainRate, s.BoundaryRate)
	}

	if c.ShouldFlush() {
		t.Error("flush should reset the window")
	}
}

func TestCollectorWindowsAreIndependent(t *testing.T) {
	c := NewCollector(2)

	c.RecordEpisode(episodeRow(0, 1.0, 0.0))
	c.RecordEpisode(episodeRow(1, 1.0, 0.0))
	first := c.Flush()

	c.RecordEpisode(episodeRow(2, 5.0, 0.0))
	c.RecordEpisode(episodeRow(3, 7.0, 0.0))
	second := c.Flush()

	if math.Abs(first.NectarMean-1.0) > 1e-9 {
		t.Errorf("first window NectarMean = %v, want 1.0", first.NectarMean)
	}
	if math.Abs(second.NectarMean-6.0) > 1e-9 {
		t.Errorf("second window NectarMean = %v, want 6.0", second.NectarMean)
	}
	if second.WindowStart != 2 || second.WindowEnd != 4 {
		t.Errorf("second window bounds = [%d, %d), want [2, 4)",
			second.WindowStart, second.WindowEnd)
	}
}

func TestCollectorRunSummarySpansFlushes(t *testing.T) {
	c := NewCollector(2)

	c.RecordEpisode(episodeRow(0, 2.0, 1.0))
	c.RecordEpisode(episodeRow(1, 4.0, 2.0))
	c.Flush()
	c.RecordEpisode(episodeRow(2, 6.0, 3.0))

	run := c.RunSummary()
	if run.Episodes != 3 {
		t.Fatalf("run covers %d episodes, want 3", run.Episodes)
	}
	if math.Abs(run.NectarMean-4.0) > 1e-9 {
		t.Errorf("run NectarMean = %v, want 4.0", run.NectarMean)
	}
	if math.Abs(run.RewardMean-2.0) > 1e-9 {
		t.Errorf("run RewardMean = %v, want 2.0", run.RewardMean)
	}
	if run.Withdrawals != 30 {
		t.Errorf("run Withdrawals = %d, want 30", run.Withdrawals)
	}
	if c.EpisodeCount() != 3 {
		t.Errorf("EpisodeCount = %d, want 3", c.EpisodeCount())
	}
}

func TestCollectorEmptyFlush(t *testing.T) {
	c := NewCollector(4)

	s := c.Flush()
	if s.Episodes != 0 || s.NectarMean != 0 || s.MeanSteps != 0 {
		t.Errorf("empty flush should be all zeros, got %+v", s)
	}
}

func TestCollectorClampsWindowSize(t *testing.T) {
	c := NewCollector(0)

	c.RecordEpisode(episodeRow(0, 1.0, 0.0))
	if !c.ShouldFlush() {
		t.Error("window size 0 should clamp to 1 and flush every episode")
	}
}
