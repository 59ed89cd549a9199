package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/terrain.segment/internal/db"
)

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted run records (requires --db)",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, store, err := a.requireStore()
			if err != nil {
				return err
			}
			defer database.Close()

			runs, err := store.List(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tSOURCE\tIN\tCOMPONENTS\tOUT")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
					r.RunID, r.CreatedAt.Format(time.RFC3339), r.Source,
					r.Stats.InputPoints, r.Stats.Components, r.Stats.OutputPoints)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (0 = all)")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its component histogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, store, err := a.requireStore()
			if err != nil {
				return err
			}
			defer database.Close()

			run, err := store.Get(args[0])
			if err != nil {
				return err
			}
			comps, err := store.Components(run.RunID)
			if err != nil {
				return err
			}
			printRun(cmd, run, comps)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run and its histogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, store, err := a.requireStore()
			if err != nil {
				return err
			}
			defer database.Close()
			return store.Delete(args[0])
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func printRun(cmd *cobra.Command, run *db.Run, comps []db.ComponentRow) {
	p, s := run.Params, run.Stats
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s\n", run.RunID)
	fmt.Fprintf(w, "source:  %s\n", run.Source)
	fmt.Fprintf(w, "created: %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "params:  diff=%g error_floor=%g minor=%d width=%d remove_dominant=%t thinout=%t\n",
		p.DiffThreshold, p.ErrorZFloor, p.MinorLabelThreshold, p.ThinoutWidth, p.RemoveDominant, p.Thinout)
	fmt.Fprintf(w, "points:  in=%d error=%d dominant=%d minor=%d thinned=%d out=%d\n",
		s.InputPoints, s.ErrorPointsRemoved, s.DominantPointsRemoved, s.MinorPointsRemoved, s.ThinoutPointsRemoved, s.OutputPoints)
	fmt.Fprintf(w, "took:    %v\n", s.Duration)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPOINTS\tDISPOSITION")
	for _, c := range comps {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", c.ComponentID, c.Points, c.Disposition)
	}
	_ = tw.Flush()
}
