package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{2.5}, 0.9, 2.5},
		{"p0", []float64{1, 3, 9}, 0.0, 1.0},
		{"p100", []float64{1, 3, 9}, 1.0, 9.0},
		{"p below zero clamps", []float64{1, 3, 9}, -0.2, 1.0},
		{"p above one clamps", []float64{1, 3, 9}, 1.5, 9.0},
		{"p50 odd", []float64{0, 4, 10}, 0.5, 4.0},
		{"p50 even interpolates", []float64{0, 2, 6, 8}, 0.5, 4.0},
		{"p25", []float64{0, 4, 8, 12, 16}, 0.25, 4.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeScoreStats(t *testing.T) {
	// Unsorted on purpose; the helper sorts a copy.
	values := []float64{0.8, 0.2, 1.0, 0.4, 0.6}
	mean, p10, p50, p90 := ComputeScoreStats(values)

	if math.Abs(mean-0.6) > 0.001 {
		t.Errorf("mean = %v, want 0.6", mean)
	}
	if math.Abs(p50-0.6) > 0.001 {
		t.Errorf("p50 = %v, want 0.6", p50)
	}
	if p10 >= p50 || p50 >= p90 {
		t.Errorf("percentiles not ordered: p10=%v p50=%v p90=%v", p10, p50, p90)
	}

	// Input must be untouched.
	if values[0] != 0.8 || values[4] != 0.6 {
		t.Errorf("input slice was mutated: %v", values)
	}
}

func TestComputeScoreStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeScoreStats(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty input should return all zeros")
	}
}
