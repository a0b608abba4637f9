package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/planar/parameter"
)

// FixedStepper converts wall time into a whole number of fixed simulation steps
// Accumulator pattern: leftover time carries to the next Advance, stalls are capped at maxSubSteps
// Pausing freezes the accumulator; time spent paused is never simulated
type FixedStepper struct {
	clock       TimeProvider
	dt          time.Duration
	maxSubSteps int

	last        time.Time
	started     bool
	accumulator time.Duration
	paused      bool

	steps   uint64
	dropped time.Duration // Time discarded by the sub-step cap
}

// NewFixedStepper builds a stepper running at rate steps per second
func NewFixedStepper(clock TimeProvider, rate int, maxSubSteps int) (*FixedStepper, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: rate %d", ErrInvalidTimestep, rate)
	}
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	if maxSubSteps <= 0 {
		maxSubSteps = parameter.MaxSubSteps
	}
	return &FixedStepper{
		clock:       clock,
		dt:          time.Second / time.Duration(rate),
		maxSubSteps: maxSubSteps,
	}, nil
}

// Timestep returns the fixed step length in seconds
func (s *FixedStepper) Timestep() float64 {
	return s.dt.Seconds()
}

// Advance runs step once per whole timestep elapsed since the previous call
// The first call only anchors the clock. Returns the number of steps run
func (s *FixedStepper) Advance(step func(dt float64) error) (int, error) {
	now := s.clock.Now()
	if !s.started {
		s.started = true
		s.last = now
		return 0, nil
	}
	elapsed := now.Sub(s.last)
	s.last = now
	if s.paused || elapsed <= 0 {
		return 0, nil
	}

	s.accumulator += elapsed
	limit := s.dt * time.Duration(s.maxSubSteps)
	if s.accumulator > limit {
		s.dropped += s.accumulator - limit
		s.accumulator = limit
	}

	n := 0
	dt := s.dt.Seconds()
	for s.accumulator >= s.dt {
		if err := step(dt); err != nil {
			return n, err
		}
		s.accumulator -= s.dt
		s.steps++
		n++
	}
	return n, nil
}

// Alpha returns the fraction of a step left in the accumulator, for render interpolation
func (s *FixedStepper) Alpha() float64 {
	return math.Min(float64(s.accumulator)/float64(s.dt), 1)
}

// Pause stops simulated time
func (s *FixedStepper) Pause() {
	s.paused = true
}

// Resume continues simulated time from now
func (s *FixedStepper) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.last = s.clock.Now()
}

// Toggle flips the pause state and returns true if now paused
func (s *FixedStepper) Toggle() bool {
	if s.paused {
		s.Resume()
	} else {
		s.Pause()
	}
	return s.paused
}

// IsPaused returns current pause state
func (s *FixedStepper) IsPaused() bool {
	return s.paused
}

// Steps returns the total steps run
func (s *FixedStepper) Steps() uint64 {
	return s.steps
}

// Dropped returns the total time discarded by the sub-step cap
func (s *FixedStepper) Dropped() time.Duration {
	return s.dropped
}
