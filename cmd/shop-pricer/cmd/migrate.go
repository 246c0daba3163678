package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rwxiao/shop-pricer/internal/store"
	"github.com/rwxiao/shop-pricer/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or migrate the history database",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Info("running migrations", "db", cfg.Database.Path)

	// Opening the store applies any pending migrations.
	s, err := store.NewSQLiteStore(ctx, cfg.Database.Path, cfg.History.Cap)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	defer s.Close()

	log.Info("migrations complete")
	return nil
}
