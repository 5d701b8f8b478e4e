package calculation

import (
	"math/rand"
)

// RandomVariateSource supplies independent uniform draws on [0, 1).
// Implementations are not required to be safe for concurrent use; every simulation run
// gets its own source from a SourceFactory.
type RandomVariateSource interface {
	Float64() float64
}

// SourceFactory creates the source for one simulation run.
type SourceFactory func() RandomVariateSource

// NewMathRandSource returns a seeded math/rand generator.
func NewMathRandSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SeededSources returns a factory whose every source replays the same seeded stream,
// so repeated runs with the same parameters produce identical trajectories.
func SeededSources(seed int64) SourceFactory {
	return func() RandomVariateSource { return NewMathRandSource(seed) }
}

// FreshSources returns a factory that seeds every source independently.
func FreshSources() SourceFactory {
	return func() RandomVariateSource { return NewMathRandSource(seedFunc()) }
}

// SequenceSource replays a fixed list of uniforms, wrapping around at the end.
// It is meant for tests and for replaying recorded draws.
type SequenceSource struct {
	values []float64
	next   int
	draws  int
}

// NewSequenceSource creates a source over values. An empty list always yields 0.5.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: append([]float64(nil), values...)}
}

// Float64 returns the next recorded value.
func (s *SequenceSource) Float64() float64 {
	s.draws++
	if len(s.values) == 0 {
		return 0.5
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Draws reports how many values have been consumed.
func (s *SequenceSource) Draws() int { return s.draws }
