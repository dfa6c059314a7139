package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/campus-collector/internal/catalog"
	"github.com/templui/campus-collector/internal/config"
	"github.com/templui/campus-collector/internal/db"
	"github.com/templui/campus-collector/internal/logger"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the photo catalog schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply migrations and add missing optional columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateUp()
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateDown()
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "columns",
		Short: "List the columns of the photos table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateColumns(cmd)
		},
	})

	return migrateCmd
}

func openCatalog() (*config.Config, *catalog.Store) {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.SentryDSN)
	return cfg, catalog.NewStore(cfg.DBDriver, cfg.DBConnection)
}

func runMigrateUp() error {
	_, store := openCatalog()
	defer store.Close()

	// Opening the catalog runs every migration step.
	_, err := store.DB()
	if err != nil {
		return err
	}
	fmt.Println("catalog is up to date")
	return nil
}

func runMigrateDown() error {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.SentryDSN)

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer conn.Close()

	return db.MigrateDown(conn.DB, cfg.DBDriver)
}

func runMigrateColumns(cmd *cobra.Command) error {
	_, store := openCatalog()
	defer store.Close()

	conn, err := store.DB()
	if err != nil {
		return err
	}

	columns, err := db.TableColumns(conn, store.Driver(), "photos")
	if err != nil {
		return err
	}
	for _, column := range columns {
		fmt.Fprintln(cmd.OutOrStdout(), column)
	}
	return nil
}
