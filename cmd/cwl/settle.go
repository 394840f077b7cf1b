package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/spf13/cobra"
)

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Vacation and exit settlements for employees",
	}

	cmd.AddCommand(newSettleVacationCmd())
	cmd.AddCommand(newSettleExitCmd())
	return cmd
}

func newSettleVacationCmd() *cobra.Command {
	var (
		configPath string
		start      string
		undo       bool
	)

	cmd := &cobra.Command{
		Use:   "vacation <employee-id>",
		Short: "Complete an employee's assignments for a vacation, or undo it",
		Long:  "Completes every non-completed assignment with end date the day before the vacation starts. With --undo, restores records completed with exactly that end date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettle(cmd, configPath, args[0], start, undo,
				func(e *assignment.Engine, id uint, d time.Time) (int, error) {
					if undo {
						return e.RestoreAfterVacationDeletion(id, d)
					}
					return e.CompleteForVacation(id, d)
				})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	cmd.Flags().StringVar(&start, "start", "", "vacation start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&undo, "undo", false, "reverse a previous vacation settlement")
	cmd.MarkFlagRequired("start")
	return cmd
}

func newSettleExitCmd() *cobra.Command {
	var (
		configPath string
		last       string
		undo       bool
	)

	cmd := &cobra.Command{
		Use:   "exit <employee-id>",
		Short: "Complete an employee's assignments for a final exit, or undo it",
		Long:  "Completes every non-completed assignment with the last working date itself as the end date. With --undo, restores records completed with exactly that end date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettle(cmd, configPath, args[0], last, undo,
				func(e *assignment.Engine, id uint, d time.Time) (int, error) {
					if undo {
						return e.RestoreAfterExitDeletion(id, d)
					}
					return e.CompleteForExit(id, d)
				})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	cmd.Flags().StringVar(&last, "last", "", "last working date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&undo, "undo", false, "reverse a previous exit settlement")
	cmd.MarkFlagRequired("last")
	return cmd
}

func runSettle(cmd *cobra.Command, configPath, rawID, rawDate string, undo bool,
	op func(*assignment.Engine, uint, time.Time) (int, error)) error {
	out := cmd.OutOrStdout()

	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return fmt.Errorf("parse employee id %q: %w", rawID, err)
	}
	date, err := dateutil.Parse(rawDate)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", rawDate, err)
	}

	gormDB, _, err := openDB(configPath)
	if err != nil {
		return err
	}
	eng := assignment.New(gormDB, nil, nil)

	n, err := op(eng, uint(id), date)
	if err != nil {
		return err
	}
	verb := "Completed"
	if undo {
		verb = "Restored"
	}
	fmt.Fprintf(out, "%s %d assignments for employee %d\n", verb, n, id)
	return nil
}
