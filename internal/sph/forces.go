package sph

// accumulateForces sums the pressure, viscosity and gravity forces acting on
// particle i. It reads neighbor densities, so it must run after the density
// pass of the same step has finished for every particle.
func (s *Solver) accumulateForces(ps Particles, i int) {
	p := &ps[i]
	k := s.kernels

	var fPress, fVisc Vec2
	for _, id := range s.index.Neighbors(i) {
		j := int(id)
		if j == i {
			continue
		}
		o := &ps[j]
		if !(o.Density > 0) {
			s.zeroDensity.Add(1)
			continue
		}

		rij := p.Position.Sub(o.Position)
		r := rij.Len()
		if r == 0 {
			s.degenerate.Add(1)
		}
		vol := o.Mass / o.Density

		// pressure
		fPress = fPress.Add(k.SpikyGrad(rij).Scale(-vol * 0.5 * (o.Pressure + p.Pressure)))

		// viscosity
		fVisc = fVisc.Add(o.Velocity.Sub(p.Velocity).Scale(vol * k.ViscLaplacian(r)))
	}

	fGrav := Vec2{0, -p.Density * s.params.Gravity}

	p.ForcePressure = fPress
	p.ForceViscosity = fVisc
	p.ForceGravity = fGrav
	p.ForceTotal = fPress.Add(fGrav).Add(fVisc.Scale(s.params.Viscosity))
}
