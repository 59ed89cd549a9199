package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/terrain.segment/internal/batch"
	"github.com/banshee-data/terrain.segment/internal/dat"
	"github.com/banshee-data/terrain.segment/internal/vrml"
)

func newRunCmd(a *app) *cobra.Command {
	var tf tuningFlags
	var out, charts string

	cmd := &cobra.Command{
		Use:   "run <file|dir>...",
		Short: "Segment the given files as one dataset",
		Long: `Load every point file (directories contribute their .dat files), segment
them together as one dataset and write the survivors to --out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := tf.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			points, err := dat.LoadPaths(args)
			if err != nil {
				return err
			}

			database, store, err := a.openStore()
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			source := args[0]
			if len(args) > 1 {
				source = fmt.Sprintf("%s (+%d)", args[0], len(args)-1)
			}
			r := batch.NewRunner(batch.Options{Params: params, ChartsDir: charts, Store: store})
			o, err := r.Process(source, points, out)
			if err != nil {
				return err
			}
			printOutcome(cmd, o)
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", vrml.DefaultOutput, "VRML output file")
	cmd.Flags().StringVar(&charts, "charts", "", "Directory for PNG/HTML component reports")
	return cmd
}

func printOutcome(cmd *cobra.Command, o batch.Outcome) {
	s := o.Stats
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points, %d components, %d kept -> %s",
		o.Source, s.InputPoints, s.Components, s.OutputPoints, o.Output)
	if o.RunID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (run %s)", o.RunID)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}
