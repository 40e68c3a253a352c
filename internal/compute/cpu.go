package compute

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of work items handed to one goroutine.
// Below this, spawning is more expensive than the work.
const minChunk = 64

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) For(n int, fn func(i int)) {
	c.run(n, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

// Grid flattens the nx*ny grid row-major and splits it into contiguous
// chunks. Chunk edges do not align with rows, so two workers may be
// processing items with the same x at once.
func (c *CPUBackend) Grid(nx, ny int, fn func(x, y int)) {
	if nx <= 0 || ny <= 0 {
		return
	}
	c.run(nx*ny, func(start, end int) {
		for t := start; t < end; t++ {
			fn(t/ny, t%ny)
		}
	})
}

func (c *CPUBackend) run(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			fn(s, e)
			return nil
		})
	}
	// Wait is the barrier between passes.
	_ = g.Wait()
}
