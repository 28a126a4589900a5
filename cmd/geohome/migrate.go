package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/db/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DBDriver, cfg.DSN())
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		st, err := migrations.CurrentStatus(database.DB, string(database.Dialect))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", st.Version)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.OpenUnmigrated(cfg.DBDriver, cfg.DSN())
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		st, err := migrations.CurrentStatus(database.DB, string(database.Dialect))
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "driver:  %s\n", database.Dialect)
		fmt.Fprintf(out, "version: %d (latest %d)\n", st.Version, st.Latest)
		switch {
		case st.Dirty:
			fmt.Fprintln(out, "state:   dirty, fix the failed migration by hand")
		case st.UpToDate():
			fmt.Fprintln(out, "state:   up to date")
		default:
			fmt.Fprintf(out, "state:   %d pending\n", st.Latest-st.Version)
		}
		return nil
	},
}
