package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

var seed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	Long: `Create or update the tables and indexes.

Seed data is loaded in development, or always with --seed.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "load the development accounts and catalogue")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := postgres.NewConnection(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migrate(ctx, cfg, db, log)
}

// migrate runs migrations and indexes, seeding in development
func migrate(ctx context.Context, cfg *config.Config, db *postgres.DB, log *logrus.Logger) error {
	migration := postgres.NewMigration(db.GetDB(), log)

	if err := migration.RunAutoMigrations(ctx); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	if err := migration.CreateIndexes(ctx); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	if cfg.IsDevelopment() || seed {
		if err := migration.SeedInitialData(ctx); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
	}

	return nil
}
