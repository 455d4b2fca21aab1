// Package policy provides the action sources that drive hummingbirds: a
// fixed-topology feedforward network for trained birds and scripted sources
// for tests and fallback opponents.
package policy

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// Network dimensions (compile-time constants for array sizing).
const (
	NumInputs  = 10 // local rotation (4), to-flower (3), two alignment dots, distance
	NumHidden  = 16
	NumOutputs = 5 // move x/y/z, pitch target, yaw target, all in [-1,1]

	// NumWeights is the flattened parameter count the trainer optimizes over.
	NumWeights = NumHidden*NumInputs + NumHidden + NumOutputs*NumHidden + NumOutputs
)

// Network is a two-layer feedforward policy.
type Network struct {
	W1 [NumHidden][NumInputs]float32  // input -> hidden weights
	B1 [NumHidden]float32             // hidden biases
	W2 [NumOutputs][NumHidden]float32 // hidden -> output weights
	B2 [NumOutputs]float32            // output biases
}

// NewNetwork creates a Xavier-initialized network from the given RNG.
func NewNetwork(rng *rand.Rand) *Network {
	nn := &Network{}
	scale1 := float32(math.Sqrt(2.0 / float64(NumInputs)))
	scale2 := float32(math.Sqrt(2.0 / float64(NumHidden)))

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(rng.NormFloat64()) * scale1
		}
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = float32(rng.NormFloat64()) * scale2
		}
	}
	return nn
}

// Act computes the five action values for an observation vector. Hidden and
// output layers both use tanh, so every action lands in [-1,1].
func (nn *Network) Act(obs []float32) [5]float32 {
	var hidden [NumHidden]float32
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs && j < len(obs); j++ {
			sum += nn.W1[i][j] * obs[j]
		}
		hidden[i] = tanh(sum)
	}

	var out [5]float32
	for i := 0; i < NumOutputs; i++ {
		sum := nn.B2[i]
		for j := 0; j < NumHidden; j++ {
			sum += nn.W2[i][j] * hidden[j]
		}
		out[i] = tanh(sum)
	}
	return out
}

// Clone creates a deep copy of the network.
func (nn *Network) Clone() *Network {
	clone := *nn
	return &clone
}

// Mutate perturbs weights with sparse Gaussian noise: each parameter mutates
// with probability rate, drawing its delta from N(0, sigma).
func (nn *Network) Mutate(rng *rand.Rand, rate, sigma float32) {
	perturb := func(w *float32) {
		if rng.Float32() < rate {
			*w += float32(rng.NormFloat64()) * sigma
		}
	}

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			perturb(&nn.W1[i][j])
		}
		perturb(&nn.B1[i])
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			perturb(&nn.W2[i][j])
		}
		perturb(&nn.B2[i])
	}
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// Vector flattens all parameters in W1, B1, W2, B2 order. The trainer treats
// the network as one point in R^NumWeights.
func (nn *Network) Vector() []float32 {
	v := make([]float32, 0, NumWeights)
	for i := range nn.W1 {
		v = append(v, nn.W1[i][:]...)
	}
	v = append(v, nn.B1[:]...)
	for i := range nn.W2 {
		v = append(v, nn.W2[i][:]...)
	}
	v = append(v, nn.B2[:]...)
	return v
}

// FromVector builds a network from a flattened parameter vector.
func FromVector(v []float32) *Network {
	nn := &Network{}
	nn.SetVector(v)
	return nn
}

// SetVector restores parameters from a flattened vector. Panics if the vector
// has the wrong length, which means the trainer and network disagree on
// topology.
func (nn *Network) SetVector(v []float32) {
	if len(v) != NumWeights {
		panic(fmt.Sprintf("policy: vector length %d, want %d", len(v), NumWeights))
	}
	k := 0
	for i := range nn.W1 {
		k += copy(nn.W1[i][:], v[k:])
	}
	k += copy(nn.B1[:], v[k:])
	for i := range nn.W2 {
		k += copy(nn.W2[i][:], v[k:])
	}
	copy(nn.B2[:], v[k:])
}

// Weights holds flattened network parameters for serialization.
type Weights struct {
	W1 []float32 `json:"w1"` // [NumHidden * NumInputs]
	B1 []float32 `json:"b1"` // [NumHidden]
	W2 []float32 `json:"w2"` // [NumOutputs * NumHidden]
	B2 []float32 `json:"b2"` // [NumOutputs]
}

// MarshalWeights flattens the network for JSON serialization.
func (nn *Network) MarshalWeights() Weights {
	w := Weights{
		W1: make([]float32, NumHidden*NumInputs),
		B1: make([]float32, NumHidden),
		W2: make([]float32, NumOutputs*NumHidden),
		B2: make([]float32, NumOutputs),
	}
	for i := 0; i < NumHidden; i++ {
		copy(w.W1[i*NumInputs:], nn.W1[i][:])
	}
	copy(w.B1, nn.B1[:])
	for i := 0; i < NumOutputs; i++ {
		copy(w.W2[i*NumHidden:], nn.W2[i][:])
	}
	copy(w.B2, nn.B2[:])
	return w
}

// UnmarshalWeights restores network parameters from flattened form. Short
// slices leave the remaining parameters untouched.
func (nn *Network) UnmarshalWeights(w Weights) {
	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			if k := i*NumInputs + j; k < len(w.W1) {
				nn.W1[i][j] = w.W1[k]
			}
		}
	}
	copy(nn.B1[:], w.B1)
	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			if k := i*NumHidden + j; k < len(w.W2) {
				nn.W2[i][j] = w.W2[k]
			}
		}
	}
	copy(nn.B2[:], w.B2)
}

// Save writes the network to a JSON weights file.
func (nn *Network) Save(path string) error {
	data, err := json.MarshalIndent(nn.MarshalWeights(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}

// LoadNetwork reads a network from a JSON weights file.
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	var w Weights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal weights: %w", err)
	}
	nn := &Network{}
	nn.UnmarshalWeights(w)
	return nn, nil
}
