package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/99minutos/auth-service/internal/infrastructure/config"
	"github.com/99minutos/auth-service/pkg/logger"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the configured store",
		Long: `Create the unique email index (mongo) or the accounts and auth_events
tables (postgres). The memory and redis drivers need no preparation.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "authd"})

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close(ctx)

	if be.migrate == nil {
		cmd.Printf("store %q needs no migrations\n", cfg.StoreDriver)
		return nil
	}

	cmd.Println("Running migrations...")
	if err := be.migrate(ctx); err != nil {
		return oops.Code("MIGRATION_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}
