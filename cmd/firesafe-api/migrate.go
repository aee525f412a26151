package main

import (
	"context"

	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		restore, err := setupLogging(cfg)
		if err != nil {
			return err
		}
		defer restore()
		defer zap.S().Info("Db migrated")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := migrate(cmd.Context(), cfg, db, s); err != nil {
			zap.S().Fatalw("running migrations", "error", err)
		}
		return nil
	},
}

// migrate applies the goose migrations on postgres and auto-migrates sqlite, then seeds
// the default configuration when none is stored.
func migrate(ctx context.Context, cfg *config.Config, db *gorm.DB, s store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Database.Type == "pgsql" {
		if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
			return err
		}
	} else if err := s.InitialMigration(ctx); err != nil {
		return err
	}
	return s.Seed(ctx)
}
