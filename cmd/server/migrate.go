package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zapp/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the SQLite schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		d, err := db.Open(cfg.Database.Path, db.WithLogger(log))
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer d.Close()
		v, err := db.CurrentVersion(d)
		if err != nil {
			return err
		}
		log.Info("schema up to date", zap.String("path", cfg.Database.Path), zap.Int("version", v))
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		d, err := db.Open(cfg.Database.Path, db.WithoutMigrations())
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer d.Close()
		v, err := db.RollbackLast(d)
		if err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
		if v == 0 {
			log.Info("no migrations to revert")
			return nil
		}
		log.Info("migration reverted", zap.Int("version", v))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
