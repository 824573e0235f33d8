package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/credential-service/internal/common/bootstrap"
	"github.com/AlibekovAA/credential-service/internal/common/config"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Apply all pending migrations for the configured store driver and exit.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log, err := bootstrap.InitializeLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		return err
	}

	cmd.Printf("Running %s migrations...\n", cfg.StoreDriver)
	if err := bootstrap.Migrate(cmd.Context(), log, cfg); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
