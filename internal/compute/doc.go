// Package compute provides the data-parallel dispatch backends used by the
// SPH passes.
//
// A dispatch is a logical grid of independent work items, either 1D (one item
// per particle) or 2D (one item per particle pair):
//
//   - CPU: chunks the grid across goroutines and waits for all of them
//   - Serial: runs items inline in order, useful for tests and tiny inputs
//
// # Barriers
//
// Every dispatch is a full barrier. When For or Grid returns, all items have
// completed and their writes happen-before anything the caller does next:
//
//	backend := compute.AutoSelect(0)
//	backend.For(n, clearSlot)
//	backend.Grid(n, n, insertPair) // sees every cleared slot
package compute
