package sph

// Particle is one simulated fluid element. The force fields hold this step's
// accumulators; PrevForceTotal holds the previous step's total and is only
// overwritten by the integrator after it has been consumed.
type Particle struct {
	Position Vec2
	Velocity Vec2

	ForcePressure  Vec2
	ForceViscosity Vec2
	ForceGravity   Vec2
	ForceTotal     Vec2
	PrevForceTotal Vec2

	Pressure float64
	Density  float64
	Mass     float64
}

// Particles is the dense store every pass reads and writes in place.
type Particles []Particle

// Validate reports the first particle that would corrupt a step: non-positive
// mass (used as a divisor by the integrator) or a non-finite position or
// velocity.
func (ps Particles) Validate() error {
	for i := range ps {
		p := &ps[i]
		if !(p.Mass > 0) || !isFinite(p.Mass) {
			return &ParticleError{Index: i, Wrapped: ErrNonPositiveMass}
		}
		if !p.Position.IsFinite() || !p.Velocity.IsFinite() {
			return &ParticleError{Index: i, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

func (ps Particles) Clone() Particles {
	c := make(Particles, len(ps))
	copy(c, ps)
	return c
}

// KineticEnergy returns Σ ½ m |v|².
func (ps Particles) KineticEnergy() float64 {
	e := 0.0
	for i := range ps {
		e += 0.5 * ps[i].Mass * ps[i].Velocity.Len2()
	}
	return e
}

// Positions copies out every particle position.
func (ps Particles) Positions() []Vec2 {
	out := make([]Vec2, len(ps))
	for i := range ps {
		out[i] = ps[i].Position
	}
	return out
}
