// Package sph implements a 2D Smoothed Particle Hydrodynamics step as a
// staged pipeline of data-parallel passes over a shared particle store:
//
//   - Clear and Build: rebuild the fixed-capacity [NeighborIndex]
//   - Density: kernel-weighted density and linear pressure
//   - Forces: pressure gradient, viscosity and gravity
//   - Integrate: leapfrog (velocity Verlet) time step
//   - Reflect: damped reflection off the walls of the domain box
//
// Each pass is one dispatch on a [compute.Backend]; the backend returns only
// when every work item has finished, which is the barrier between stages.
// Within a pass a task writes only its own particle, except for Build where
// many tasks race to append into the same neighbor slots through a
// compare-and-swap on the sentinel.
//
// # Example
//
//	params := sph.DefaultParams()
//	solver, err := sph.NewSolver(params, sph.NewNeighborIndex(len(ps), params.NeighborCapacity))
//	if err != nil {
//	    return err
//	}
//	stats, err := solver.Step(ps)
package sph
