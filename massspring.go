package gfxlab

import (
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeStep is the fixed simulation step used when MassSpringConfig.TimeStep is zero.
const DefaultTimeStep = 1.0 / 60.0

const defaultMaxSubsteps = 8

// MassSpringConfig controls how a MassSpring advances.
type MassSpringConfig struct {
	// Params are the physical parameters passed to every step.
	Params SimParams
	// TimeStep is the fixed step length in seconds. Update runs whole steps only.
	TimeStep float64
	// MaxSubsteps caps the steps run by one Update call. Time beyond the cap is dropped.
	MaxSubsteps int
	// Workers splits integration and collision across goroutines when > 1.
	// Force accumulation always runs on the calling goroutine.
	Workers int
}

// SimStats summarizes the current state of a MassSpring.
type SimStats struct {
	KineticEnergy float64
	Momentum      Vec3
	MaxSpeed      float64
	Steps         uint64
}

// MassSpring owns the particle state of one simulation and steps it with a
// fixed time step. It preallocates the force buffer so steady-state updates
// do not allocate.
type MassSpring struct {
	config     MassSpringConfig
	positions  []Vec3
	velocities []Vec3
	initial    []Vec3
	springs    []Spring
	forces     []Vec3
	pins       map[int]Vec3
	accum      float64
	active     bool
	steps      uint64
}

// NewMassSpring creates a simulation from copies of positions and springs.
// Velocities start at zero.
func NewMassSpring(positions []Vec3, springs []Spring, cfg MassSpringConfig) *MassSpring {
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = DefaultTimeStep
	}
	if cfg.MaxSubsteps <= 0 {
		cfg.MaxSubsteps = defaultMaxSubsteps
	}
	n := len(positions)
	m := &MassSpring{
		config:     cfg,
		positions:  make([]Vec3, n),
		velocities: make([]Vec3, n),
		initial:    make([]Vec3, n),
		springs:    slices.Clone(springs),
		forces:     make([]Vec3, n),
		pins:       make(map[int]Vec3),
	}
	copy(m.positions, positions)
	copy(m.initial, positions)
	return m
}

// Start resumes stepping in Update.
func (m *MassSpring) Start() {
	m.active = true
}

// Stop pauses stepping in Update. Tick still advances the state.
func (m *MassSpring) Stop() {
	m.active = false
}

// IsActive reports whether Update advances the simulation.
func (m *MassSpring) IsActive() bool {
	return m.active
}

// Reset stops the simulation and restores the initial positions with zero velocity.
func (m *MassSpring) Reset() {
	m.active = false
	copy(m.positions, m.initial)
	clear(m.velocities)
	m.accum = 0
	m.steps = 0
}

// Config returns a pointer to the simulation's config for live tuning.
func (m *MassSpring) Config() *MassSpringConfig {
	return &m.config
}

// Positions returns the live position slice. Callers may read it between
// steps and may write it to drag particles.
func (m *MassSpring) Positions() []Vec3 {
	return m.positions
}

// Velocities returns the live velocity slice.
func (m *MassSpring) Velocities() []Vec3 {
	return m.velocities
}

// Springs returns the springs the simulation steps with.
func (m *MassSpring) Springs() []Spring {
	return m.springs
}

// SetSprings replaces the spring set with a copy of springs.
func (m *MassSpring) SetSprings(springs []Spring) {
	m.springs = slices.Clone(springs)
}

// Pin fixes particle i at its current position. It reports false for an
// index outside the particle range.
func (m *MassSpring) Pin(i int) bool {
	if i < 0 || i >= len(m.positions) {
		return false
	}
	m.pins[i] = m.positions[i]
	m.velocities[i] = Vec3{}
	return true
}

// Unpin releases particle i.
func (m *MassSpring) Unpin(i int) {
	delete(m.pins, i)
}

// IsPinned reports whether particle i is pinned.
func (m *MassSpring) IsPinned(i int) bool {
	_, ok := m.pins[i]
	return ok
}

// Update accumulates dt seconds and runs as many fixed steps as fit, up to
// MaxSubsteps. It returns the number of steps run. A dt that is not a
// positive finite number is ignored.
func (m *MassSpring) Update(dt float64) int {
	if !m.active || !(dt > 0) || math.IsInf(dt, 1) {
		return 0
	}
	m.accum += dt
	ts := m.config.TimeStep
	n := 0
	for m.accum >= ts {
		if n == m.config.MaxSubsteps {
			m.accum = 0
			break
		}
		m.step(ts)
		m.accum -= ts
		n++
	}
	return n
}

// Tick runs exactly one fixed step, whether or not the simulation is active.
func (m *MassSpring) Tick() {
	m.step(m.config.TimeStep)
}

// Stats returns energy and momentum of the current state.
func (m *MassSpring) Stats() SimStats {
	mass := m.config.Params.ParticleMass
	st := SimStats{Steps: m.steps}
	for _, v := range m.velocities {
		sq := v.Dot(v)
		st.KineticEnergy += 0.5 * mass * sq
		st.Momentum.Inc(v.Mul(mass))
		st.MaxSpeed = math.Max(st.MaxSpeed, math.Sqrt(sq))
	}
	return st
}

func (m *MassSpring) step(dt float64) {
	p := m.config.Params
	accumulateForces(m.forces, m.positions, m.velocities, m.springs, p)

	workers := m.config.Workers
	if workers > 1 && len(m.positions) >= 2*workers {
		m.integrateParallel(dt, workers)
	} else {
		integrate(m.forces, dt, m.positions, m.velocities, p, 0, len(m.positions))
		collide(m.positions, m.velocities, p.Restitution, 0, len(m.positions))
	}

	for i, pos := range m.pins {
		m.positions[i] = pos
		m.velocities[i] = Vec3{}
	}
	m.steps++
}

// integrateParallel runs integration and collision on disjoint particle
// ranges. Each particle depends only on its own accumulator, so the result
// matches the serial path exactly.
func (m *MassSpring) integrateParallel(dt float64, workers int) {
	p := m.config.Params
	n := len(m.positions)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for from := 0; from < n; from += chunk {
		to := min(from+chunk, n)
		g.Go(func() error {
			integrate(m.forces, dt, m.positions, m.velocities, p, from, to)
			collide(m.positions, m.velocities, p.Restitution, from, to)
			return nil
		})
	}
	_ = g.Wait()
}
