package sph

// densityPressure computes particle i's density from this step's neighbor
// list and derives its pressure with the linear equation of state p = k·ρ.
// A particle with no valid neighbors ends with zero density and pressure.
func (s *Solver) densityPressure(ps Particles, i int) {
	p := &ps[i]
	ri := p.Position

	density := 0.0
	for _, id := range s.index.Neighbors(i) {
		j := int(id)
		if j == i {
			continue
		}
		o := &ps[j]
		density += o.Mass * s.kernels.Poly6(ri.Sub(o.Position).Len())
	}

	p.Density = density
	p.Pressure = s.params.Stiffness * density
}
