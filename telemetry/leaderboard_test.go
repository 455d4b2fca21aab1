package telemetry

import (
	"path/filepath"
	"testing"
)

func TestLeaderboardKeepsBestFirst(t *testing.T) {
	lb := NewLeaderboard(10)

	fitnesses := []float64{-0.5, -2.0, -1.0, 0.0, -1.5}
	for i, f := range fitnesses {
		if !lb.Consider(i, f, []float32{float32(i)}) {
			t.Errorf("Consider(%d, %v) rejected with room to spare", i, f)
		}
	}

	if lb.Size() != len(fitnesses) {
		t.Fatalf("Size() = %d, want %d", lb.Size(), len(fitnesses))
	}

	entries := lb.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Fitness < entries[i-1].Fitness {
			t.Errorf("entries out of order at %d: %v after %v", i, entries[i].Fitness, entries[i-1].Fitness)
		}
	}

	best := lb.Best()
	if best == nil || best.Fitness != -2.0 {
		t.Errorf("Best() = %+v, want fitness -2.0", best)
	}
	if best.Eval != 1 {
		t.Errorf("Best().Eval = %d, want 1", best.Eval)
	}
}

func TestLeaderboardCapacityTrim(t *testing.T) {
	lb := NewLeaderboard(3)

	for i, f := range []float64{-1, -2, -3, -4, -5} {
		lb.Consider(i, f, nil)
	}

	if lb.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", lb.Size())
	}
	want := []float64{-5, -4, -3}
	for i, e := range lb.Entries() {
		if e.Fitness != want[i] {
			t.Errorf("entry %d fitness = %v, want %v", i, e.Fitness, want[i])
		}
	}

	// A candidate worse than everything on a full board is rejected
	if lb.Consider(99, 100, nil) {
		t.Error("Consider accepted a candidate worse than the full board")
	}
	if lb.Size() != 3 {
		t.Errorf("Size() = %d after rejection, want 3", lb.Size())
	}
}

func TestLeaderboardBestNeverWorsens(t *testing.T) {
	lb := NewLeaderboard(4)

	prev := 1e18
	for i, f := range []float64{-0.2, -0.1, -0.9, -0.5, -0.9, -1.3, 0.0} {
		lb.Consider(i, f, nil)
		best := lb.Best().Fitness
		if best > prev {
			t.Fatalf("best worsened after eval %d: %v > %v", i, best, prev)
		}
		prev = best
	}
	if prev != -1.3 {
		t.Errorf("final best = %v, want -1.3", prev)
	}
}

func TestLeaderboardCopiesWeights(t *testing.T) {
	lb := NewLeaderboard(2)

	weights := []float32{1, 2, 3}
	lb.Consider(0, -1, weights)
	weights[0] = 99

	got := lb.Best().Weights
	if got[0] != 1 {
		t.Errorf("stored weights aliased the input: got[0] = %v, want 1", got[0])
	}
}

func TestLeaderboardRoundTrip(t *testing.T) {
	lb := NewLeaderboard(5)
	lb.Consider(1, -1.5, []float32{0.25, -0.5})
	lb.Consider(2, -3.0, []float32{1.0, 2.0})

	path := filepath.Join(t.TempDir(), "leaderboard.json")
	if err := lb.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadLeaderboard(path, 5)
	if err != nil {
		t.Fatalf("LoadLeaderboard() error: %v", err)
	}

	if loaded.Size() != 2 {
		t.Fatalf("loaded Size() = %d, want 2", loaded.Size())
	}
	best := loaded.Best()
	if best.Fitness != -3.0 || best.Eval != 2 {
		t.Errorf("loaded Best() = %+v, want fitness -3.0 eval 2", best)
	}
	if len(best.Weights) != 2 || best.Weights[0] != 1.0 {
		t.Errorf("loaded weights = %v, want [1 2]", best.Weights)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	lb := NewLeaderboard(3)
	if lb.Best() != nil {
		t.Error("Best() on empty board should be nil")
	}
	if lb.Size() != 0 {
		t.Errorf("Size() = %d, want 0", lb.Size())
	}
}
