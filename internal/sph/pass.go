package sph

import "fmt"

// Pass identifies one stage of the step pipeline.
type Pass int

const (
	PassClear Pass = iota
	PassBuild
	PassDensity
	PassForces
	PassIntegrate
	PassReflect
)

// Pipeline is the order in which Step runs the passes.
var Pipeline = []Pass{PassClear, PassBuild, PassDensity, PassForces, PassIntegrate, PassReflect}

func (p Pass) String() string {
	switch p {
	case PassClear:
		return "clear"
	case PassBuild:
		return "build"
	case PassDensity:
		return "density"
	case PassForces:
		return "forces"
	case PassIntegrate:
		return "integrate"
	case PassReflect:
		return "reflect"
	}
	return fmt.Sprintf("Pass(%d)", int(p))
}

// Grid returns the dispatch shape the pass expects for n particles: n×n work
// items for Build, n×1 for the rest.
func (p Pass) Grid(n int) (int, int) {
	if p == PassBuild {
		return n, n
	}
	return n, 1
}
