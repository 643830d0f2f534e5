package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/database/seeders"
	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

// bootSQL loads config and opens the SQL database. Migrations only apply
// to the SQL drivers.
func bootSQL() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if !database.IsSQL(config.DatabaseDriver()) {
		return nil, fmt.Errorf("DB_DRIVER=%s has no migrations; indexes are created when the server starts", config.DatabaseDriver())
	}
	return database.ConnectConfiguredGorm()
}

// bootStore loads config and opens the configured store.
func bootStore(ctx context.Context) (*repositories.Store, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return kernel.OpenStore(ctx)
}

// bazaar migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootSQL()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		_, err = migration.New(db, os.Stdout).Run()
		return err
	},
}

// bazaar migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootSQL()
		if err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		_, err = migration.New(db, os.Stdout).Rollback()
		return err
	},
}

// bazaar migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootSQL()
		if err != nil {
			return err
		}
		statuses, err := migration.New(db, os.Stdout).Status()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, s := range statuses {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

// bazaar seed [name...]
var seedCmd = &cobra.Command{
	Use:   "seed [name...]",
	Short: "Run the demo data seeders (all when no name is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background()) //nolint:errcheck

		fmt.Println("Running seeders…")
		return seeders.Run(ctx, store, os.Stdout, args...)
	},
}
