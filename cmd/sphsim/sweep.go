package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/scene"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
)

func newSweepCmd() *cobra.Command {
	var flags simFlags
	var capacities []int
	var parallel int
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare neighbor capacities on the same scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.build(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			sw := &sim.Sweep{
				Params:      s.params,
				Backend:     s.backend,
				Metrics:     metrics.Standard,
				Parallelism: parallel,
			}
			results, err := sw.Run(ctx, s.particles, capacities, sim.Config{
				Steps:       s.cfg.Steps,
				SampleEvery: s.cfg.Steps,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CAPACITY\tTIME\tOVERFLOW\tMEAN DENSITY\tKINETIC ENERGY\tCONTAINED")
			for _, r := range results {
				m := r.Result.Metrics
				fmt.Fprintf(w, "%d\t%v\t%.0f\t%.4g\t%.4g\t%.2f\n",
					r.Capacity, r.Elapsed.Round(time.Millisecond), m["overflow"],
					m["mean_density"], m["kinetic_energy"], m["containment"])
			}
			return w.Flush()
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntSliceVar(&capacities, "capacities", []int{8, 16, 32, 64}, "neighbor capacities to compare")
	cmd.Flags().IntVar(&parallel, "parallel", 2, "concurrent runs")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var counts []int
	var steps int
	var workers int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps per second per backend and particle count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.DefaultConfig().SolverParams()
			if err != nil {
				return err
			}
			backends := []compute.Backend{compute.NewSerialBackend(), compute.NewCPUBackend(workers)}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BACKEND\tWORKERS\tPARTICLES\tSTEPS/S\tPER STEP")
			for _, n := range counts {
				ps, err := scene.Build("random", scene.Spec{
					Count: n, Mass: 1, HalfWidth: params.HalfWidth, HalfHeight: params.HalfHeight, Seed: 1,
				})
				if err != nil {
					return err
				}
				for _, b := range backends {
					rate, per, err := benchmark(params, ps, b, steps)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%v\n", b.Name(), b.Workers(), n, rate, per)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntSliceVar(&counts, "counts", []int{256, 1024}, "particle counts")
	cmd.Flags().IntVar(&steps, "steps", 20, "steps per measurement")
	cmd.Flags().IntVar(&workers, "workers", 0, "cpu backend workers (0 = GOMAXPROCS)")
	return cmd
}

func benchmark(params sph.Params, initial sph.Particles, b compute.Backend, steps int) (float64, time.Duration, error) {
	ps := initial.Clone()
	solver, err := sph.NewSolver(params, sph.NewNeighborIndex(len(ps), params.NeighborCapacity), sph.WithBackend(b))
	if err != nil {
		return 0, 0, err
	}
	start := time.Now()
	for i := 0; i < steps; i++ {
		if _, err := solver.Step(ps); err != nil {
			return 0, 0, err
		}
	}
	elapsed := time.Since(start)
	return float64(steps) / elapsed.Seconds(), elapsed / time.Duration(max(steps, 1)), nil
}
