package main

import (
	"fmt"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/equipstatus"
	"github.com/sndworks/crewline/internal/logging"
	"github.com/sndworks/crewline/internal/notify"
	"github.com/sndworks/crewline/internal/sweep"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one repair pass and exit",
		Long:  "Reconciles every employee timeline and repairs desynced rental-item mirrors, then prints a summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	return cmd
}

func runSweep(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	gormDB, cfg, err := openDB(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New("sweep")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	eng := assignment.New(gormDB, logger, equipstatus.Recompute)
	res, err := sweep.Run(gormDB, eng, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Checked %d employees: %d timeline updates, %d mirrors repaired, %d statuses refreshed\n",
		res.EmployeesChecked, res.TimelineUpdates, res.MirrorsRepaired, res.StatusRefreshed)
	if res.Repairs() > 0 && cfg.Notify.Command != "" {
		notify.Send(notify.Event{
			Subject: "Crewline sweep repaired assignments",
			Body: fmt.Sprintf("%d timeline updates, %d mirrors repaired",
				res.TimelineUpdates, res.MirrorsRepaired),
		}, notify.Config{Command: cfg.Notify.Command})
	}
	return nil
}
