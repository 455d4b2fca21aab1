package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LeaderEntry is one scored candidate from a training run.
type LeaderEntry struct {
	Eval    int       `json:"eval"`
	Fitness float64   `json:"fitness"`
	Weights []float32 `json:"weights"`
}

// Leaderboard keeps the best candidates seen during training, sorted best
// first. Lower fitness is better, matching the minimizer.
type Leaderboard struct {
	entries []LeaderEntry
	maxSize int
}

// NewLeaderboard creates a leaderboard holding at most maxSize entries.
func NewLeaderboard(maxSize int) *Leaderboard {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Leaderboard{
		entries: make([]LeaderEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a candidate. Returns true if it entered the board.
func (lb *Leaderboard) Consider(eval int, fitness float64, weights []float32) bool {
	// Find insertion point (sorted ascending by fitness)
	idx := sort.Search(len(lb.entries), func(i int) bool {
		return lb.entries[i].Fitness > fitness
	})

	// Full board and the candidate would fall off the end
	if len(lb.entries) >= lb.maxSize && idx >= lb.maxSize {
		return false
	}

	entry := LeaderEntry{
		Eval:    eval,
		Fitness: fitness,
		Weights: append([]float32(nil), weights...),
	}

	lb.entries = append(lb.entries, LeaderEntry{})
	copy(lb.entries[idx+1:], lb.entries[idx:])
	lb.entries[idx] = entry

	if len(lb.entries) > lb.maxSize {
		lb.entries = lb.entries[:lb.maxSize]
	}
	return true
}

// Best returns the top entry, or nil when the board is empty.
func (lb *Leaderboard) Best() *LeaderEntry {
	if len(lb.entries) == 0 {
		return nil
	}
	return &lb.entries[0]
}

// Size returns the number of entries on the board.
func (lb *Leaderboard) Size() int { return len(lb.entries) }

// Entries returns the board in best-first order.
func (lb *Leaderboard) Entries() []LeaderEntry { return lb.entries }

// Save writes the board to a JSON file.
func (lb *Leaderboard) Save(path string) error {
	data, err := json.MarshalIndent(lb.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling leaderboard: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	return nil
}

// LoadLeaderboard reads a board back from a JSON file. The capacity grows to
// fit the file when needed.
func LoadLeaderboard(path string, maxSize int) (*Leaderboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	var entries []LeaderEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing leaderboard JSON: %w", err)
	}

	if len(entries) > maxSize {
		maxSize = len(entries)
	}
	lb := NewLeaderboard(maxSize)
	for _, e := range entries {
		lb.Consider(e.Eval, e.Fitness, e.Weights)
	}
	return lb, nil
}
