package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobdeck/presence-server/internal/app"
	"github.com/jobdeck/presence-server/internal/config"
	"github.com/jobdeck/presence-server/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		dbPath     string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "presence-server",
		Short: "Realtime presence and room-messaging server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(logLevel)

			cfg, cfgPath, err := config.Load(logger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Info().Str("config", cfgPath).Msg("configuration loaded")

			// Flags override file and env values.
			if addr != "" {
				cfg.Addr = addr
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger = log.New(cfg.LogLevel)

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Str("addr", cfg.Addr).Msg("starting presence server")
			if err := application.Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "path to the sqlite database")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
