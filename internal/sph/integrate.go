package sph

// integrate advances particle i by one leapfrog step. The half-step velocity
// uses the previous step's total force; the closing half-step uses this
// step's. This step's force then becomes the previous force for step n+1.
func (s *Solver) integrate(ps Particles, i int) {
	p := &ps[i]
	dt := s.params.Dt
	invM := 1 / p.Mass

	vHalf := p.Velocity.Add(p.PrevForceTotal.Scale(0.5 * dt * invM))
	p.Position = p.Position.Add(vHalf.Scale(dt))
	p.Velocity = vHalf.Add(p.ForceTotal.Scale(0.5 * dt * invM))
	p.PrevForceTotal = p.ForceTotal
}
