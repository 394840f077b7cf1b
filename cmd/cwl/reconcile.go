package main

import (
	"fmt"
	"strconv"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reconcile <employee-id>",
		Short: "Recompute one employee's assignment timeline",
		Long:  "Recomputes every record's status and end date from scratch so the timeline is stitched end-to-start with a single open current assignment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parse employee id %q: %w", args[0], err)
			}
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			eng := assignment.New(gormDB, nil, nil)
			updated, err := eng.ReconcileEmployeeTimeline(uint(id))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled employee %d: %d records updated\n", id, updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	return cmd
}
