package gfxlab

import (
	"errors"
	"fmt"
)

// Validation errors returned by ValidateStep and StepChecked.
var (
	ErrTimeStep     = errors.New("gfxlab: time step must be positive")
	ErrParticleMass = errors.New("gfxlab: particle mass must be positive")
	ErrStateLength  = errors.New("gfxlab: positions and velocities differ in length")
	ErrSpringIndex  = errors.New("gfxlab: spring index out of range")
)

// ValidateStep reports whether the arguments satisfy the preconditions of
// Step. It does not look for zero-length springs, which are a property of
// the evolving state rather than of the call.
func ValidateStep(dt float64, positions, velocities []Vec3, springs []Spring, p SimParams) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: dt=%v", ErrTimeStep, dt)
	}
	if !(p.ParticleMass > 0) {
		return fmt.Errorf("%w: mass=%v", ErrParticleMass, p.ParticleMass)
	}
	if len(positions) != len(velocities) {
		return fmt.Errorf("%w: %d positions, %d velocities", ErrStateLength, len(positions), len(velocities))
	}
	n := len(positions)
	for i, s := range springs {
		if s.P0 < 0 || s.P0 >= n || s.P1 < 0 || s.P1 >= n {
			return fmt.Errorf("%w: spring %d (%d-%d) with %d particles", ErrSpringIndex, i, s.P0, s.P1, n)
		}
	}
	return nil
}

// StepChecked validates its arguments and then calls Step. For valid input
// the result is identical to Step.
func StepChecked(dt float64, positions, velocities []Vec3, springs []Spring, p SimParams) error {
	if err := ValidateStep(dt, positions, velocities, springs, p); err != nil {
		return err
	}
	Step(dt, positions, velocities, springs, p)
	return nil
}
