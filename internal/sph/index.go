package sph

import (
	"fmt"
	"sync/atomic"

	"github.com/san-kum/sphsim/internal/compute"
)

// Empty marks an unclaimed neighbor slot.
const Empty uint32 = 0xdeadbeef

// NeighborIndex maps each particle to up to K neighbor ids stored in a flat
// buffer of N*K slots. A particle's occupied slots form a prefix terminated by
// Empty. The index has no memory across steps: it is cleared and rebuilt
// every step.
type NeighborIndex struct {
	slots    []uint32
	capacity int
	overflow atomic.Uint64
}

// NewNeighborIndex allocates an index for n particles with k slots each.
func NewNeighborIndex(n, k int) *NeighborIndex {
	ix, _ := WrapNeighborIndex(make([]uint32, n*k), k)
	return ix
}

// WrapNeighborIndex adopts a host-owned buffer. The buffer is never resized;
// its length must be a multiple of k. Call Clear before the first Build.
func WrapNeighborIndex(buf []uint32, k int) (*NeighborIndex, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: neighbor_capacity = %d", ErrInvalidParams, k)
	}
	if len(buf)%k != 0 {
		return nil, fmt.Errorf("%w: buffer of %d slots is not a multiple of %d", ErrBufferMismatch, len(buf), k)
	}
	return &NeighborIndex{slots: buf, capacity: k}, nil
}

// Len returns the number of particles the buffer covers.
func (ix *NeighborIndex) Len() int { return len(ix.slots) / ix.capacity }

// Capacity returns K.
func (ix *NeighborIndex) Capacity() int { return ix.capacity }

// Overflows returns the number of neighbors dropped since the last Clear
// because a particle's slots were already full.
func (ix *NeighborIndex) Overflows() uint64 { return ix.overflow.Load() }

// Clear resets every slot to Empty, one task per particle.
func (ix *NeighborIndex) Clear(b compute.Backend) {
	ix.overflow.Store(0)
	k := ix.capacity
	b.For(ix.Len(), func(i int) {
		row := ix.slots[i*k : (i+1)*k]
		for s := range row {
			row[s] = Empty
		}
	})
}

// Build inserts every candidate within distance h of each particle, one task
// per (particle, candidate) pair. Tasks for the same particle run
// concurrently and append through Insert. Self pairs are skipped here; the
// consuming passes skip them again.
func (ix *NeighborIndex) Build(b compute.Backend, ps Particles, h float64) {
	n := len(ps)
	b.Grid(n, n, func(i, candidate int) {
		if i == candidate {
			return
		}
		if ps[i].Position.Sub(ps[candidate].Position).Len() < h {
			ix.Insert(i, uint32(candidate))
		}
	})
}

// Insert claims the first free slot of particle i for candidate. A failed
// compare-and-swap means another writer took that slot, so the scan moves on.
// When all slots are taken the candidate is dropped, the overflow counter is
// bumped and false is returned.
func (ix *NeighborIndex) Insert(i int, candidate uint32) bool {
	base := i * ix.capacity
	for s := 0; s < ix.capacity; s++ {
		if atomic.CompareAndSwapUint32(&ix.slots[base+s], Empty, candidate) {
			return true
		}
	}
	ix.overflow.Add(1)
	return false
}

// Neighbors returns the occupied prefix of particle i's slots. The slice
// aliases the index buffer and is valid until the next Clear.
func (ix *NeighborIndex) Neighbors(i int) []uint32 {
	row := ix.slots[i*ix.capacity : (i+1)*ix.capacity]
	for s, id := range row {
		if id == Empty {
			return row[:s]
		}
	}
	return row
}

// Count returns the number of occupied slots of particle i.
func (ix *NeighborIndex) Count(i int) int { return len(ix.Neighbors(i)) }
