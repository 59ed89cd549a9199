package main

import (
	"github.com/spf13/cobra"

	"github.com/banshee-data/terrain.segment/internal/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	var tf tuningFlags
	var outDir, charts string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <file|dir>...",
		Short: "Segment each file as an independent dataset, in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := tf.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Workers = &workers
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			database, store, err := a.openStore()
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			r := batch.NewRunner(batch.Options{
				Params:    params,
				Workers:   a.cfg.GetWorkers(),
				OutDir:    outDir,
				ChartsDir: charts,
				Store:     store,
			})
			outcomes, err := r.Run(cmd.Context(), args)
			for _, o := range outcomes {
				if o.Output != "" {
					printOutcome(cmd, o)
				}
			}
			return err
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for .wrl files (default: next to each input)")
	cmd.Flags().StringVar(&charts, "charts", "", "Directory for PNG/HTML component reports")
	cmd.Flags().IntVar(&workers, "workers", 0, "Files processed concurrently (0 = one per CPU)")
	return cmd
}
