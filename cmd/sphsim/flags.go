package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/sph"
)

// simFlags are shared by every command that builds a simulation.
type simFlags struct {
	preset     string
	configFile string
	cfg        config.Config
}

func (f *simFlags) register(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.StringVar(&f.preset, "preset", "", "start from a preset (see 'presets')")
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")

	fs.StringVar(&f.cfg.Scene, "scene", d.Scene, "initial layout (block, random, pair)")
	fs.StringVar(&f.cfg.Backend, "backend", d.Backend, "compute backend (auto, cpu, serial)")
	fs.IntVar(&f.cfg.Workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	fs.IntVar(&f.cfg.Steps, "steps", d.Steps, "number of steps")
	fs.IntVar(&f.cfg.SampleEvery, "sample-every", d.SampleEvery, "keep a frame every N steps")
	fs.Int64Var(&f.cfg.Seed, "seed", 0, "random seed")

	fs.IntVar(&f.cfg.Init.Count, "count", d.Init.Count, "particle count")
	fs.Float64Var(&f.cfg.Init.Mass, "mass", d.Init.Mass, "particle mass")
	fs.Float64Var(&f.cfg.Init.Spacing, "spacing", d.Init.Spacing, "lattice spacing")
	fs.Float64Var(&f.cfg.Init.Jitter, "jitter", 0, "perlin jitter amplitude")

	fs.Float64Var(&f.cfg.Physics.SmoothingRadius, "h", d.Physics.SmoothingRadius, "smoothing radius")
	fs.Float64Var(&f.cfg.Physics.Stiffness, "stiffness", d.Physics.Stiffness, "pressure stiffness k")
	fs.Float64Var(&f.cfg.Physics.Gravity, "gravity", d.Physics.Gravity, "gravity g")
	fs.Float64Var(&f.cfg.Physics.Viscosity, "viscosity", d.Physics.Viscosity, "viscosity mu")
	fs.Float64Var(&f.cfg.Physics.Dt, "dt", d.Physics.Dt, "timestep")
	fs.Float64Var(&f.cfg.Physics.Damping, "damping", d.Physics.Damping, "wall damping")
	fs.IntVar(&f.cfg.Physics.NeighborCapacity, "capacity", d.Physics.NeighborCapacity, "neighbor capacity K")
	fs.StringVar(&f.cfg.Physics.Reflection, "reflection", d.Physics.Reflection, "wall policy (independent, first-match)")
}

// resolve applies preset, then config file, then explicitly set flags.
func (f *simFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		loaded, err := config.LoadOver(f.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("scene", func() { cfg.Scene = f.cfg.Scene })
	set("backend", func() { cfg.Backend = f.cfg.Backend })
	set("workers", func() { cfg.Workers = f.cfg.Workers })
	set("steps", func() { cfg.Steps = f.cfg.Steps })
	set("sample-every", func() { cfg.SampleEvery = f.cfg.SampleEvery })
	set("seed", func() { cfg.Seed = f.cfg.Seed })
	set("count", func() { cfg.Init.Count = f.cfg.Init.Count })
	set("mass", func() { cfg.Init.Mass = f.cfg.Init.Mass })
	set("spacing", func() { cfg.Init.Spacing = f.cfg.Init.Spacing })
	set("jitter", func() { cfg.Init.Jitter = f.cfg.Init.Jitter })
	set("h", func() { cfg.Physics.SmoothingRadius = f.cfg.Physics.SmoothingRadius })
	set("stiffness", func() { cfg.Physics.Stiffness = f.cfg.Physics.Stiffness })
	set("gravity", func() { cfg.Physics.Gravity = f.cfg.Physics.Gravity })
	set("viscosity", func() { cfg.Physics.Viscosity = f.cfg.Physics.Viscosity })
	set("dt", func() { cfg.Physics.Dt = f.cfg.Physics.Dt })
	set("damping", func() { cfg.Physics.Damping = f.cfg.Physics.Damping })
	set("capacity", func() { cfg.Physics.NeighborCapacity = f.cfg.Physics.NeighborCapacity })
	set("reflection", func() { cfg.Physics.Reflection = f.cfg.Physics.Reflection })
	return cfg, nil
}

// setup is everything a command needs to start stepping.
type setup struct {
	cfg       *config.Config
	params    sph.Params
	particles sph.Particles
	backend   compute.Backend
}

func (f *simFlags) build(cmd *cobra.Command) (*setup, error) {
	cfg, err := f.resolve(cmd)
	if err != nil {
		return nil, err
	}
	params, err := cfg.SolverParams()
	if err != nil {
		return nil, err
	}
	ps, err := cfg.Particles()
	if err != nil {
		return nil, err
	}
	backend, ok := compute.ByName(cfg.Backend, cfg.Workers)
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
	return &setup{cfg: cfg, params: params, particles: ps, backend: backend}, nil
}

func (s *setup) solver(opts ...sph.Option) (*sph.Solver, error) {
	opts = append([]sph.Option{sph.WithBackend(s.backend)}, opts...)
	return sph.NewSolver(s.params, sph.NewNeighborIndex(len(s.particles), s.params.NeighborCapacity), opts...)
}
