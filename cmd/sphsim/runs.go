package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/export"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/storage"
	"github.com/san-kum/sphsim/internal/viz"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENE\tPARTICLES\tSTEPS\tBACKEND\tOVERFLOW\tTIMESTAMP")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%s\t%.0f\t%s\n",
					r.ID, r.Scene, r.Particles, r.StepsTaken, r.Steps, r.Backend,
					r.Metrics["overflow"], r.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

// telemetryFields are the plottable telemetry columns.
var telemetryFields = map[string]func(storage.TelemetryRow) float64{
	"kinetic_energy": func(r storage.TelemetryRow) float64 { return r.KineticEnergy },
	"overflows":      func(r storage.TelemetryRow) float64 { return float64(r.Overflows) },
	"max_neighbors":  func(r storage.TelemetryRow) float64 { return float64(r.MaxNeighbors) },
	"zero_density":   func(r storage.TelemetryRow) float64 { return float64(r.ZeroDensitySkips) },
	"degenerate":     func(r storage.TelemetryRow) float64 { return float64(r.DegenerateContacts) },
}

func newPlotCmd() *cobra.Command {
	var field string
	var height, width int
	cmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "plot a telemetry column of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			get, ok := telemetryFields[field]
			if !ok {
				return fmt.Errorf("unknown field: %s", field)
			}
			rows, err := storage.New(dataDir).LoadTelemetry(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("run %s has no telemetry", args[0])
			}
			data := make([]float64, len(rows))
			for i, r := range rows {
				data[i] = get(r)
			}
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(fmt.Sprintf("%s over %d steps", field, len(rows)))))
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "kinetic_energy", "telemetry column")
	cmd.Flags().IntVar(&height, "height", 15, "graph height")
	cmd.Flags().IntVar(&width, "width", 70, "graph width")
	return cmd
}

// pickFrame returns the frame at step, or the last frame when step < 0.
func pickFrame(runID string, step int) (sim.Frame, error) {
	frames, err := storage.New(dataDir).LoadFrames(runID)
	if err != nil {
		return sim.Frame{}, err
	}
	if len(frames) == 0 {
		return sim.Frame{}, fmt.Errorf("run %s has no frames", runID)
	}
	if step < 0 {
		return frames[len(frames)-1], nil
	}
	for _, f := range frames {
		if f.Step == step {
			return f, nil
		}
	}
	steps := make([]string, len(frames))
	for i, f := range frames {
		steps[i] = fmt.Sprint(f.Step)
	}
	return sim.Frame{}, fmt.Errorf("no frame at step %d (have %s)", step, strings.Join(steps, ", "))
}

func outputFile(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newExportCSVCmd() *cobra.Command {
	var step int
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv <run-id>",
		Short: "export one frame of a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := pickFrame(args[0], step)
			if err != nil {
				return err
			}
			rows := make([]storage.FrameRow, len(frame.Particles))
			for i, p := range frame.Particles {
				rows[i] = storage.FrameRow{
					Step: frame.Step, Time: frame.Time, ID: i,
					X: p.Position.X, Y: p.Position.Y, VX: p.Velocity.X, VY: p.Velocity.Y,
					Density: p.Density, Pressure: p.Pressure, Mass: p.Mass,
				}
			}
			f, closeFn, err := outputFile(out)
			if err != nil {
				return err
			}
			if err := gocsv.Marshal(rows, f); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().IntVar(&step, "step", -1, "frame step (default last)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	var step int
	var out string
	var braille bool
	var width float64
	cmd := &cobra.Command{
		Use:   "export-svg <run-id>",
		Short: "render one frame of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			frame, err := pickFrame(args[0], step)
			if err != nil {
				return err
			}
			halfW, halfH := meta.Params["half_width"], meta.Params["half_height"]

			var svg string
			if braille {
				c := viz.NewCanvas(80, 40)
				c.PlotParticles(frame.Particles, halfW, halfH)
				svg = export.CanvasToSVG(c, 4)
			} else {
				svg = export.ParticlesToSVG(frame.Particles, halfW, halfH, export.SVGOptions{Width: width})
			}

			f, closeFn, err := outputFile(out)
			if err != nil {
				return err
			}
			if _, err := f.WriteString(svg); err != nil {
				_ = closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			if f != os.Stdout {
				fmt.Fprintf(os.Stderr, "wrote %s (step %d)\n", out, frame.Step)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&step, "step", -1, "frame step (default last)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&braille, "braille", false, "render the terminal canvas instead of particles")
	cmd.Flags().Float64Var(&width, "width", 500, "image width in pixels")
	return cmd
}
