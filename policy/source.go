package policy

// Source produces an action vector from an observation vector. Implemented by
// the trained Network, the keyboard heuristic, and scripted test sources, so
// birds never know what is flying them.
type Source interface {
	Act(obs []float32) [5]float32
}

// Scripted replays a fixed sequence of action vectors, holding the last one
// once the script runs out. A zero-value Scripted hovers in place.
type Scripted struct {
	Actions [][5]float32
	step    int
}

// Act returns the next scripted action.
func (s *Scripted) Act(_ []float32) [5]float32 {
	if len(s.Actions) == 0 {
		return [5]float32{}
	}
	a := s.Actions[s.step]
	if s.step < len(s.Actions)-1 {
		s.step++
	}
	return a
}

// Rewind restarts the script from the first action.
func (s *Scripted) Rewind() { s.step = 0 }
