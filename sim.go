package gfxlab

// Collision box bounds. Every axis of every particle is kept inside [BoxMin, BoxMax].
const (
	BoxMin = -1.0
	BoxMax = 1.0
)

// Spring connects particles P0 and P1 with the given rest length.
type Spring struct {
	P0, P1 int
	Rest   float64
}

// SimParams holds the scalar inputs of a simulation step, in the order the
// step consumes them.
type SimParams struct {
	// Stiffness is the Hooke spring constant.
	Stiffness float64 `json:"stiffness"`
	// Damping scales the relative velocity of spring endpoints along the spring axis.
	Damping float64 `json:"damping"`
	// ParticleMass is the uniform mass of every particle. Must be > 0.
	ParticleMass float64 `json:"particleMass"`
	// Gravity is the constant acceleration in units/s².
	Gravity Vec3 `json:"gravity"`
	// Restitution is the fraction of the wall-normal velocity kept after a bounce, in [0, 1].
	Restitution float64 `json:"restitution"`
}

// Step advances positions and velocities in place by dt seconds.
//
// The step runs three phases: spring and damping forces are accumulated on
// top of each particle's weight, velocities and then positions are
// integrated with semi-implicit Euler, and particles are clamped into the
// [-1, 1]³ box with restitution applied to the outgoing velocity.
//
// Step does no validation; see StepChecked. Callers must serialize calls
// that share the same slices.
func Step(dt float64, positions, velocities []Vec3, springs []Spring, p SimParams) {
	forces := make([]Vec3, len(positions))
	stepWith(forces, dt, positions, velocities, springs, p)
}

// stepWith runs a full step using forces as the accumulator buffer.
// forces must have len(positions) elements.
func stepWith(forces []Vec3, dt float64, positions, velocities []Vec3, springs []Spring, p SimParams) {
	accumulateForces(forces, positions, velocities, springs, p)
	integrate(forces, dt, positions, velocities, p, 0, len(positions))
	collide(positions, velocities, p.Restitution, 0, len(positions))
}

// accumulateForces resets every accumulator to the particle's weight and adds
// the Hooke and damping forces of every spring. Each spring touches two
// accumulators, so this phase is not split across goroutines.
func accumulateForces(forces, positions, velocities []Vec3, springs []Spring, p SimParams) {
	weight := p.Gravity.Mul(p.ParticleMass)
	for i := range forces {
		forces[i] = weight
	}

	for _, s := range springs {
		delta := positions[s.P1].Sub(positions[s.P0])
		length := delta.Len()
		dir := delta.Div(length)

		// Stretched springs pull P0 toward P1 and P1 toward P0.
		spring := dir.Mul(p.Stiffness * (length - s.Rest))
		forces[s.P0].Inc(spring)
		forces[s.P1].Dec(spring)

		closing := velocities[s.P1].Sub(velocities[s.P0]).Dot(dir)
		damping := dir.Mul(p.Damping * closing)
		forces[s.P0].Inc(damping)
		forces[s.P1].Dec(damping)
	}
}

// integrate applies semi-implicit Euler to particles [from, to).
// Gravity is added again on top of the weight already in forces.
func integrate(forces []Vec3, dt float64, positions, velocities []Vec3, p SimParams, from, to int) {
	for i := from; i < to; i++ {
		acc := forces[i].Div(p.ParticleMass).Add(p.Gravity)
		velocities[i].Inc(acc.Mul(dt))
		positions[i].Inc(velocities[i].Mul(dt))
	}
}

// collide clamps particles [from, to) into the box. Each axis is resolved
// once; a clamped component is not re-checked.
func collide(positions, velocities []Vec3, restitution float64, from, to int) {
	for i := from; i < to; i++ {
		pos := &positions[i]
		vel := &velocities[i]
		for axis := AxisX; axis <= AxisZ; axis++ {
			if pos[axis] < BoxMin {
				pos[axis] = BoxMin
				if vel[axis] < 0 {
					vel[axis] *= -restitution
				}
			}
			if pos[axis] > BoxMax {
				pos[axis] = BoxMax
				if vel[axis] > 0 {
					vel[axis] *= -restitution
				}
			}
		}
	}
}
