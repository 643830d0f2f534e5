package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// registers the SQL migrations with pkg/migration
	_ "github.com/shashiranjanraj/bazaar/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bazaar",
	Short:         "bazaar storefront API",
	Long:          "bazaar serves the storefront JSON API and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Shop
	rootCmd.AddCommand(makeAdminCmd)
	rootCmd.AddCommand(catalogExportCmd)
}
