package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
	"github.com/san-kum/sphsim/internal/storage"
	"github.com/san-kum/sphsim/internal/viz"
)

func newRunCmd() *cobra.Command {
	var flags simFlags
	var noSave bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its frames and telemetry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, &flags, !noSave)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")
	return cmd
}

// progressLogger reports progress about ten times per run.
type progressLogger struct {
	every int
	log   *slog.Logger
}

func (p *progressLogger) OnStep(step int, t float64, ps sph.Particles, stats sph.StepStats) {
	if p.every > 0 && step%p.every == 0 {
		p.log.Info("progress", "step", step, "t", t, "kinetic_energy", ps.KineticEnergy(), "max_neighbors", stats.MaxNeighbors)
	}
}

func runSimulation(cmd *cobra.Command, flags *simFlags, save bool) error {
	s, err := flags.build(cmd)
	if err != nil {
		return err
	}
	cfg := s.cfg

	log := slog.Default().With("scene", cfg.Scene, "backend", s.backend.Name())
	solver, err := s.solver(sph.WithLogger(log))
	if err != nil {
		return err
	}

	simulator := sim.New(solver, log)
	for _, m := range metrics.Standard(s.params) {
		simulator.AddMetric(m)
	}
	simulator.AddObserver(&progressLogger{every: max(cfg.Steps/10, 1), log: log})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s with %d particles for %d steps...\n", cfg.Scene, len(s.particles), cfg.Steps)
	start := time.Now()
	result, runErr := simulator.Run(ctx, s.particles, sim.Config{
		Steps:         cfg.Steps,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	})
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.Error("run aborted", "err", runErr, "steps_taken", result.StepsTaken)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunInfo{
			Scene:   cfg.Scene,
			Preset:  flags.preset,
			Seed:    cfg.Seed,
			Steps:   cfg.Steps,
			Backend: s.backend.Name(),
			Params:  s.params,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d (%.0f steps/s)\n", result.StepsTaken, float64(result.StepsTaken)/elapsed.Seconds())
	if len(result.Errors) > 0 {
		fmt.Printf("stopped early: %v\n", result.Errors[0])
	}
	if last, ok := result.LastFrame(); ok {
		c := viz.NewCanvas(40, 16)
		c.PlotParticles(last.Particles, s.params.HalfWidth, s.params.HalfHeight)
		fmt.Print("\n" + c.String())
	}
	printMetrics(result.Metrics)
	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func newLiveCmd() *cobra.Command {
	var flags simFlags
	var fps int
	cmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.build(cmd)
			if err != nil {
				return err
			}
			// the alternate screen owns the terminal; keep logs quiet
			solver, err := s.solver(sph.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			if err != nil {
				return err
			}
			title := s.cfg.Scene
			if flags.preset != "" {
				title = flags.preset
			}
			return viz.Run(viz.NewModel(solver, s.particles, title, fps))
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	return cmd
}
