package compute

import "runtime"

// Backend executes a logical dispatch grid. Every call returns only after all
// work items have finished and their writes are visible to the caller, so two
// consecutive calls never overlap.
type Backend interface {
	Name() string
	Workers() int
	For(n int, fn func(i int))
	Grid(nx, ny int, fn func(x, y int))
}

// AutoSelect returns a CPU backend with the given worker count, or a serial
// backend when only one worker is requested. workers <= 0 uses GOMAXPROCS.
func AutoSelect(workers int) Backend {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 {
		return NewSerialBackend()
	}
	return NewCPUBackend(workers)
}

// ByName resolves a backend from a CLI/config name.
func ByName(name string, workers int) (Backend, bool) {
	switch name {
	case "", "auto":
		return AutoSelect(workers), true
	case "cpu":
		return NewCPUBackend(workers), true
	case "serial":
		return NewSerialBackend(), true
	}
	return nil, false
}
