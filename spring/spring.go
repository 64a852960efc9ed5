// Package spring provides a single-axis damped spring integrator used
// to glide scalar values toward moving targets.
package spring

import (
	"fmt"
	"math"
)

// MaxStep is the largest time slice a single Step will integrate, in
// seconds. Larger deltas are clamped before integration so a frame stall
// cannot inject enough energy to destabilize the simulation.
const MaxStep = 1.0 / 15.0

// Spring animates a scalar toward a target by semi-implicit Euler
// integration of
//
//	accel = stiffness*(target-value) - damping*velocity
//
// The spring is agnostic to what the scalar means; callers own the
// mapping from value to whatever is being driven.
type Spring struct {
	value    float64
	velocity float64
	target   float64

	stiffness float64
	damping   float64
}

// New creates a spring at rest on initial. Stiffness must be finite and
// positive, damping finite and non-negative, initial finite.
func New(stiffness, damping, initial float64) (*Spring, error) {
	if !isFinite(stiffness) || stiffness <= 0 {
		return nil, fmt.Errorf("spring: stiffness must be finite and positive, got %v", stiffness)
	}
	if !isFinite(damping) || damping < 0 {
		return nil, fmt.Errorf("spring: damping must be finite and non-negative, got %v", damping)
	}
	if !isFinite(initial) {
		return nil, fmt.Errorf("spring: initial value must be finite, got %v", initial)
	}
	return &Spring{
		value:     initial,
		target:    initial,
		stiffness: stiffness,
		damping:   damping,
	}, nil
}

// CriticalDamping returns the damping that critically damps the given
// stiffness: the fastest convergence that never overshoots.
func CriticalDamping(stiffness float64) float64 {
	return 2 * math.Sqrt(stiffness)
}

// SetTarget points the spring at a new target. Motion toward it begins
// on the next Step.
func (s *Spring) SetTarget(v float64) {
	s.target = v
}

// Target returns the current target.
func (s *Spring) Target() float64 {
	return s.target
}

// SetValue teleports the spring to v and zeroes its velocity.
func (s *Spring) SetValue(v float64) {
	s.value = v
	s.velocity = 0
}

// Stop zeroes the velocity without moving the value. If the target
// differs from the value the spring will start moving again on the
// next Step.
func (s *Spring) Stop() {
	s.velocity = 0
}

// Value returns the current value without stepping.
func (s *Spring) Value() float64 {
	return s.value
}

// Velocity returns the current velocity.
func (s *Spring) Velocity() float64 {
	return s.velocity
}

// Step advances the integration by dt seconds and returns the new
// value. dt is clamped to [0, MaxStep]; a non-finite dt integrates
// nothing.
func (s *Spring) Step(dt float64) float64 {
	if !isFinite(dt) || dt < 0 {
		dt = 0
	} else if dt > MaxStep {
		dt = MaxStep
	}

	s.velocity += (s.stiffness*(s.target-s.value) - s.damping*s.velocity) * dt
	s.value += s.velocity * dt
	return s.value
}

// Settled reports whether the spring has converged: value within eps of
// the target and velocity within eps of zero.
func (s *Spring) Settled(eps float64) bool {
	return math.Abs(s.target-s.value) <= eps && math.Abs(s.velocity) <= eps
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
