package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

// bazaar make:admin <email>
var makeAdminCmd = &cobra.Command{
	Use:   "make:admin <email>",
	Short: "Give a registered user the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background()) //nolint:errcheck

		u, err := services.NewAuthService(store.Users).Promote(ctx, args[0])
		if err != nil {
			return fmt.Errorf("make:admin %s: %w", args[0], err)
		}
		fmt.Printf("%s (%s) is now an admin.\n", u.Email, u.ID)
		return nil
	},
}

var (
	exportDisk string
	exportPath string
)

// bazaar catalog:export
var catalogExportCmd = &cobra.Command{
	Use:   "catalog:export",
	Short: "Write a JSON snapshot of categories and products to a storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background()) //nolint:errcheck

		storage.Connect(ctx)
		disk, err := storage.Use(exportDisk)
		if err != nil {
			return err
		}

		path := exportPath
		if path == "" {
			path = fmt.Sprintf("exports/catalog-%s.json", time.Now().UTC().Format("20060102-150405"))
		}

		url, err := services.NewCatalogService(store.Categories, store.Products).Export(ctx, disk, path)
		if err != nil {
			return err
		}
		fmt.Println("Exported:", url)
		return nil
	},
}

func init() {
	catalogExportCmd.Flags().StringVar(&exportDisk, "disk", "", "storage disk (local or s3; default STORAGE_DISK)")
	catalogExportCmd.Flags().StringVar(&exportPath, "path", "", "object path (default exports/catalog-<timestamp>.json)")
}
