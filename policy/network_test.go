package policy

import (
	"math/rand"
	"path/filepath"
	"testing"
)

func testObservation() []float32 {
	obs := make([]float32, NumInputs)
	for i := range obs {
		obs[i] = float32(i)/float32(NumInputs) - 0.5
	}
	return obs
}

func TestActStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewNetwork(rng)

	out := nn.Act(testObservation())
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Errorf("action %d = %f, want within [-1,1]", i, v)
		}
	}
}

func TestActDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewNetwork(rng)
	obs := testObservation()

	if nn.Act(obs) != nn.Act(obs) {
		t.Error("Act is not deterministic")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewNetwork(rng)
	clone := nn.Clone()

	obs := testObservation()
	if nn.Act(obs) != clone.Act(obs) {
		t.Error("clone behaves differently from original")
	}

	clone.W1[0][0] += 10
	if nn.W1[0][0] == clone.W1[0][0] {
		t.Error("mutating the clone changed the original")
	}
}

func TestMutateChangesWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewNetwork(rng)
	before := nn.Vector()

	nn.Mutate(rng, 0.5, 0.1)

	after := nn.Vector()
	changed := 0
	for i := range before {
		if before[i] != after[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("Mutate changed nothing at rate 0.5")
	}
	if changed == len(before) {
		t.Error("sparse mutation touched every parameter")
	}
}

func TestMutateZeroRateIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewNetwork(rng)
	before := nn.Vector()

	nn.Mutate(rng, 0, 0.1)

	after := nn.Vector()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("parameter %d changed at rate 0", i)
		}
	}
}

func TestVectorRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewNetwork(rng)

	v := a.Vector()
	if len(v) != NumWeights {
		t.Fatalf("Vector() length = %d, want %d", len(v), NumWeights)
	}

	b := &Network{}
	b.SetVector(v)

	obs := testObservation()
	if a.Act(obs) != b.Act(obs) {
		t.Error("network restored from vector behaves differently")
	}
}

func TestSetVectorWrongLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SetVector accepted a short vector")
		}
	}()
	(&Network{}).SetVector(make([]float32, NumWeights-1))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	nn := NewNetwork(rng)
	nn.Mutate(rng, 0.3, 0.2)

	path := filepath.Join(t.TempDir(), "brain.json")
	if err := nn.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadNetwork(path)
	if err != nil {
		t.Fatalf("LoadNetwork() error: %v", err)
	}

	obs := testObservation()
	if nn.Act(obs) != loaded.Act(obs) {
		t.Error("loaded network behaves differently from saved one")
	}
}

func TestLoadNetworkMissingFile(t *testing.T) {
	if _, err := LoadNetwork(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadNetwork on a missing file returned no error")
	}
}

func TestScriptedReplay(t *testing.T) {
	s := &Scripted{Actions: [][5]float32{
		{1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0},
	}}

	if got := s.Act(nil); got != ([5]float32{1, 0, 0, 0, 0}) {
		t.Errorf("first action = %v", got)
	}
	if got := s.Act(nil); got != ([5]float32{0, 1, 0, 0, 0}) {
		t.Errorf("second action = %v", got)
	}
	// Script exhausted: holds the last action.
	if got := s.Act(nil); got != ([5]float32{0, 1, 0, 0, 0}) {
		t.Errorf("held action = %v", got)
	}

	s.Rewind()
	if got := s.Act(nil); got != ([5]float32{1, 0, 0, 0, 0}) {
		t.Errorf("action after rewind = %v", got)
	}
}

func TestScriptedZeroValueHovers(t *testing.T) {
	var s Scripted
	if got := s.Act(nil); got != ([5]float32{}) {
		t.Errorf("zero-value script returned %v, want all zeros", got)
	}
}
