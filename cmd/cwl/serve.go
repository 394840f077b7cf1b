package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/equipstatus"
	"github.com/sndworks/crewline/internal/logging"
	"github.com/sndworks/crewline/internal/notify"
	"github.com/sndworks/crewline/internal/server"
	"github.com/sndworks/crewline/internal/sweep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the assignment API server",
		Long:  "Starts the JSON API and, when enabled in the config, the scheduled repair sweep. Shuts down gracefully on SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	return cmd
}

func runServe(configPath string) error {
	gormDB, cfg, err := openDB(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New("serve")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep.Enabled {
		eng := assignment.New(gormDB, logger, equipstatus.Recompute)
		go func() {
			err := sweep.Start(ctx, sweep.Opts{
				DB:       gormDB,
				Engine:   eng,
				Log:      logger,
				Schedule: cfg.Sweep.Schedule,
				Notify:   notify.Config{Command: cfg.Notify.Command},
			})
			if err != nil {
				logger.Error("sweep scheduler stopped", zap.Error(err))
			}
		}()
		logger.Info("sweep scheduled", zap.String("schedule", cfg.Sweep.Schedule))
	}

	return server.Start(ctx, server.StartOpts{
		DB:   gormDB,
		Port: cfg.Server.Port,
		Log:  logger,
	})
}
