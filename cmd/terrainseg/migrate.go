package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/banshee-data/terrain.segment/internal/db"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run database schema (requires --db)",
	}

	withDB := func(fn func(cmd *cobra.Command, database *db.DB, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if a.dbPath == "" {
				return errNoDatabase
			}
			database, err := db.OpenRaw(a.dbPath)
			if err != nil {
				return err
			}
			defer database.Close()
			return fn(cmd, database, args)
		}
	}

	printVersion := func(cmd *cobra.Command, database *db.DB) error {
		v, dirty, err := database.MigrateVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *db.DB, _ []string) error {
				if err := database.MigrateUp(); err != nil {
					return err
				}
				return printVersion(cmd, database)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *db.DB, _ []string) error {
				if err := database.MigrateDown(); err != nil {
					return err
				}
				return printVersion(cmd, database)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *db.DB, _ []string) error {
				return printVersion(cmd, database)
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without migrating (recovery only)",
			Args:  cobra.ExactArgs(1),
			RunE: withDB(func(cmd *cobra.Command, database *db.DB, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("parse version: %w", err)
				}
				if err := database.MigrateForce(v); err != nil {
					return err
				}
				return printVersion(cmd, database)
			}),
		},
	)
	return cmd
}
