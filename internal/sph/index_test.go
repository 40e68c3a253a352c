package sph_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/sph"
)

var _ = Describe("NeighborIndex", func() {
	var params sph.Params

	BeforeEach(func() {
		params = sph.DefaultParams()
		params.SmoothingRadius = 0.1
		params.NeighborCapacity = 128
	})

	It("starts every slot empty after Clear", func() {
		ix := sph.NewNeighborIndex(10, 4)
		ix.Clear(compute.NewSerialBackend())
		for i := 0; i < ix.Len(); i++ {
			Expect(ix.Neighbors(i)).To(BeEmpty())
		}
	})

	It("lists exactly the particles within the cutoff, excluding self", func() {
		ps := randomParticles(1, 400, 0.5, 0.5)
		s := newSolver(params, len(ps), compute.NewCPUBackend(8))
		dispatch(s, sph.PassClear, ps)
		dispatch(s, sph.PassBuild, ps)

		ix := s.Index()
		Expect(ix.Overflows()).To(BeZero())
		for i := range ps {
			for _, id := range ix.Neighbors(i) {
				Expect(int(id)).NotTo(Equal(i))
				Expect(ps[i].Position.Sub(ps[id].Position).Len()).To(BeNumerically("<", params.SmoothingRadius))
			}
			Expect(sortedNeighbors(ix, i)).To(Equal(bruteForceNeighbors(ps, i, params.SmoothingRadius)))
		}
	})

	It("produces the same neighbor sets regardless of backend", func() {
		ps := randomParticles(2, 300, 0.5, 0.5)
		serial := newSolver(params, len(ps), compute.NewSerialBackend())
		parallel := newSolver(params, len(ps), compute.NewCPUBackend(8))
		for _, s := range []*sph.Solver{serial, parallel} {
			dispatch(s, sph.PassClear, ps)
			dispatch(s, sph.PassBuild, ps)
		}
		for i := range ps {
			Expect(sortedNeighbors(parallel.Index(), i)).To(Equal(sortedNeighbors(serial.Index(), i)))
		}
	})

	It("drops excess neighbors silently when capacity is exhausted", func() {
		params.NeighborCapacity = 3
		ps := sph.Particles{}
		for i := 0; i < 8; i++ {
			ps = append(ps, sph.Particle{Position: sph.Vec2{X: float64(i) * 0.001}, Mass: 1})
		}
		s := newSolver(params, len(ps), compute.NewCPUBackend(4))
		stats, err := s.Step(ps)
		Expect(err).NotTo(HaveOccurred())

		ix := s.Index()
		for i := range ps {
			Expect(ix.Count(i)).To(Equal(3))
			for _, id := range ix.Neighbors(i) {
				Expect(int(id)).NotTo(Equal(i))
				Expect(ps[i].Position.Sub(ps[id].Position).Len()).To(BeNumerically("<", params.SmoothingRadius))
			}
		}
		// each particle has 7 true neighbors and keeps 3
		Expect(stats.Overflows).To(BeEquivalentTo(8 * 4))
		Expect(stats.MaxNeighbors).To(Equal(3))
	})

	It("lets exactly K concurrent writers claim slots", func() {
		const k, writers = 16, 200
		ix := sph.NewNeighborIndex(1, k)
		ix.Clear(compute.NewSerialBackend())

		var wg sync.WaitGroup
		var mu sync.Mutex
		won := 0
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(id uint32) {
				defer wg.Done()
				if ix.Insert(0, id) {
					mu.Lock()
					won++
					mu.Unlock()
				}
			}(uint32(w + 1))
		}
		wg.Wait()

		Expect(won).To(Equal(k))
		Expect(ix.Overflows()).To(BeEquivalentTo(writers - k))
		seen := map[uint32]bool{}
		for _, id := range ix.Neighbors(0) {
			Expect(seen).NotTo(HaveKey(id))
			seen[id] = true
		}
		Expect(seen).To(HaveLen(k))
	})

	It("rejects host buffers that are not a multiple of K", func() {
		_, err := sph.WrapNeighborIndex(make([]uint32, 10), 4)
		Expect(err).To(MatchError(sph.ErrBufferMismatch))

		ix, err := sph.WrapNeighborIndex(make([]uint32, 12), 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(ix.Len()).To(Equal(3))
	})

	It("resets the overflow counter on Clear", func() {
		ix := sph.NewNeighborIndex(1, 1)
		ix.Clear(compute.NewSerialBackend())
		ix.Insert(0, 1)
		ix.Insert(0, 2)
		Expect(ix.Overflows()).To(BeEquivalentTo(1))
		ix.Clear(compute.NewSerialBackend())
		Expect(ix.Overflows()).To(BeZero())
	})
})
