package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/config"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSCENE\tPARTICLES\tSTEPS\tDT\tCAPACITY\tREFLECTION")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				count := c.Init.Count
				if c.Scene == "pair" {
					count = 2
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%d\t%s\n",
					name, c.Scene, count, c.Steps, c.Physics.Dt, c.Physics.NeighborCapacity, c.Physics.Reflection)
			}
			return w.Flush()
		},
	}
}

func newParamsCmd() *cobra.Command {
	var flags simFlags
	var save string
	cmd := &cobra.Command{
		Use:   "params",
		Short: "show the resolved solver parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.SolverParams()
			if err != nil {
				return err
			}
			if save != "" {
				if err := config.Save(save, cfg); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "wrote %s\n", save)
			}

			fields := p.Fields()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PARAMETER\tVALUE")
			for _, name := range p.FieldNames() {
				fmt.Fprintf(w, "%s\t%g\n", name, fields[name])
			}
			fmt.Fprintf(w, "reflection\t%s\n", p.Reflection)
			return w.Flush()
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&save, "save", "", "write the resolved config to a yaml file")
	return cmd
}
