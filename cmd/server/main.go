package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zapp/internal/config"
	"zapp/internal/logger"
)

var (
	configPath string
	devMode    bool
)

var rootCmd = &cobra.Command{
	Use:           "zapp",
	Short:         "Order lifecycle server for zapp",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file; environment variables override it")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Fall back to the development JWT secret when none is configured")
}

func loadConfig() (*config.Config, error) {
	return config.LoadFile(configPath, devMode)
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(cfg.Log.Mode, logger.Options{
		Dir:        cfg.Log.Dir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
