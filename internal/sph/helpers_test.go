package sph_test

import (
	"math"
	"math/rand"
	"sort"

	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/sph"
)

func newSolver(params sph.Params, n int, b compute.Backend) *sph.Solver {
	s, err := sph.NewSolver(params, sph.NewNeighborIndex(n, params.NeighborCapacity), sph.WithBackend(b))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return s
}

func randomParticles(seed int64, n int, halfW, halfH float64) sph.Particles {
	rng := rand.New(rand.NewSource(seed))
	ps := make(sph.Particles, n)
	for i := range ps {
		ps[i] = sph.Particle{
			Position: sph.Vec2{X: (rng.Float64()*2 - 1) * halfW, Y: (rng.Float64()*2 - 1) * halfH},
			Mass:     1,
		}
	}
	return ps
}

func sortedNeighbors(ix *sph.NeighborIndex, i int) []int {
	ids := ix.Neighbors(i)
	out := make([]int, len(ids))
	for k, id := range ids {
		out[k] = int(id)
	}
	sort.Ints(out)
	return out
}

func bruteForceNeighbors(ps sph.Particles, i int, h float64) []int {
	var out []int
	for j := range ps {
		if j != i && ps[i].Position.Sub(ps[j].Position).Len() < h {
			out = append(out, j)
		}
	}
	return out
}

// dispatch runs one pass with the shape the pass expects.
func dispatch(s *sph.Solver, pass sph.Pass, ps sph.Particles) {
	gx, gy := pass.Grid(len(ps))
	ExpectWithOffset(1, s.Dispatch(pass, ps, gx, gy)).To(Succeed())
}

func nan() float64 { return math.NaN() }
