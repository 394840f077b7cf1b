package main

import (
	"fmt"
	"os"

	"github.com/sndworks/crewline/internal/config"
	"github.com/sndworks/crewline/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cwl",
		Short: "Crewline - assignment lifecycle for equipment and crews",
		Long:  "Crewline tracks which rental, project, or manual assignment is current for every equipment unit and employee, and keeps the history stitched.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newSettleCmd())
	cmd.AddCommand(newReconcileCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cwl %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// openDB loads the config and connects to the configured database.
func openDB(configPath string) (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	if err != nil {
		return nil, nil, err
	}
	return gormDB, cfg, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
