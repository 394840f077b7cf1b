package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/sndworks/crewline/internal/equipstatus"
	"github.com/spf13/cobra"
)

func newAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Create, complete, delete, and list assignments",
	}

	cmd.AddCommand(newAssignCreateCmd())
	cmd.AddCommand(newAssignCompleteCmd())
	cmd.AddCommand(newAssignDeleteCmd())
	cmd.AddCommand(newAssignListCmd())
	return cmd
}

type assignCreateFlags struct {
	configPath    string
	kind          string
	entityID      uint
	context       string
	start         string
	end           string
	status        string
	notes         string
	name          string
	location      string
	rentalID      uint
	projectID     uint
	operatorID    uint
	assignedBy    uint
	dailyRate     float64
	hourlyRate    float64
	totalAmount   float64
	equipmentName string
	projectName   string
}

func newAssignCreateCmd() *cobra.Command {
	var f assignCreateFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new assignment, completing any previous open ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignCreate(cmd, &f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	cmd.Flags().StringVar(&f.kind, "kind", "", "resource kind: equipment or employee")
	cmd.Flags().UintVar(&f.entityID, "entity", 0, "equipment or employee id")
	cmd.Flags().StringVar(&f.context, "context", "", "assignment context: rental, project, or manual")
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date (YYYY-MM-DD, empty = open-ended)")
	cmd.Flags().StringVar(&f.status, "status", "", "initial status (default active)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&f.name, "name", "", "display name (employee assignments)")
	cmd.Flags().StringVar(&f.location, "location", "", "location (employee assignments)")
	cmd.Flags().UintVar(&f.rentalID, "rental", 0, "rental id (rental context)")
	cmd.Flags().UintVar(&f.projectID, "project", 0, "project id (project context, optional on rental)")
	cmd.Flags().UintVar(&f.operatorID, "operator", 0, "operator employee id")
	cmd.Flags().UintVar(&f.assignedBy, "assigned-by", 0, "id of the user making the assignment (project context)")
	cmd.Flags().Float64Var(&f.dailyRate, "daily-rate", 0, "daily rate")
	cmd.Flags().Float64Var(&f.hourlyRate, "hourly-rate", 0, "hourly rate (project context)")
	cmd.Flags().Float64Var(&f.totalAmount, "total", 0, "total amount")
	cmd.Flags().StringVar(&f.equipmentName, "equipment-name", "", "equipment display name (rental context)")
	cmd.Flags().StringVar(&f.projectName, "project-name", "", "project display name (project context)")
	cmd.MarkFlagRequired("kind")
	cmd.MarkFlagRequired("entity")
	cmd.MarkFlagRequired("context")
	cmd.MarkFlagRequired("start")
	return cmd
}

func runAssignCreate(cmd *cobra.Command, f *assignCreateFlags) error {
	out := cmd.OutOrStdout()

	gormDB, _, err := openDB(f.configPath)
	if err != nil {
		return err
	}
	eng := assignment.New(gormDB, nil, equipstatus.Recompute)

	start, err := dateutil.Parse(f.start)
	if err != nil {
		return fmt.Errorf("parse --start: %w", err)
	}
	var end *time.Time
	if f.end != "" {
		d, err := dateutil.Parse(f.end)
		if err != nil {
			return fmt.Errorf("parse --end: %w", err)
		}
		end = &d
	}
	meta, err := metadataFromFlags(f)
	if err != nil {
		return err
	}

	rec, err := eng.Create(assignment.CreateOpts{
		Kind:      assignment.ResourceKind(f.kind),
		EntityID:  f.entityID,
		StartDate: start,
		EndDate:   end,
		Status:    f.status,
		Notes:     f.notes,
		Meta:      meta,
		Name:      f.name,
		Location:  f.location,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s assignment %d for %s %d starting %s\n",
		rec.Context, rec.ID, rec.Kind, rec.EntityID, dateutil.Format(rec.StartDate))
	return nil
}

func metadataFromFlags(f *assignCreateFlags) (assignment.Metadata, error) {
	switch assignment.Context(f.context) {
	case assignment.ContextRental:
		return assignment.RentalMetadata{
			RentalID:      f.rentalID,
			ProjectID:     optID(f.projectID),
			DailyRate:     f.dailyRate,
			TotalAmount:   f.totalAmount,
			EquipmentName: f.equipmentName,
		}, nil
	case assignment.ContextProject:
		return assignment.ProjectMetadata{
			ProjectID:   f.projectID,
			OperatorID:  optID(f.operatorID),
			AssignedBy:  optID(f.assignedBy),
			HourlyRate:  f.hourlyRate,
			ProjectName: f.projectName,
		}, nil
	case assignment.ContextManual:
		return assignment.ManualMetadata{
			OperatorID:  optID(f.operatorID),
			DailyRate:   f.dailyRate,
			TotalAmount: f.totalAmount,
			Name:        f.name,
			Location:    f.location,
		}, nil
	default:
		return nil, fmt.Errorf("unknown --context %q (want rental, project, or manual)", f.context)
	}
}

func optID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func newAssignCompleteCmd() *cobra.Command {
	var (
		configPath string
		end        string
	)

	cmd := &cobra.Command{
		Use:   "complete <kind> <id>",
		Short: "Complete one assignment by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			eng := assignment.New(gormDB, nil, equipstatus.Recompute)

			var endDate *time.Time
			if end != "" {
				d, err := dateutil.Parse(end)
				if err != nil {
					return fmt.Errorf("parse --end: %w", err)
				}
				endDate = &d
			}
			if err := eng.Complete(kind, id, endDate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s assignment %d\n", kind, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD, default today)")
	return cmd
}

func newAssignDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete one assignment by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			eng := assignment.New(gormDB, nil, equipstatus.Recompute)
			if _, err := eng.Delete(kind, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s assignment %d\n", kind, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	return cmd
}

func newAssignListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <kind> <entity-id>",
		Short: "List a resource's assignment history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, entityID, err := parseKindAndID(args)
			if err != nil {
				return err
			}
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			eng := assignment.New(gormDB, nil, nil)
			return runAssignList(cmd, eng, kind, entityID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "crewline.yaml", "path to Crewline config file")
	return cmd
}

func runAssignList(cmd *cobra.Command, eng *assignment.Engine, kind assignment.ResourceKind, entityID uint) error {
	out := cmd.OutOrStdout()

	switch kind {
	case assignment.KindEquipment:
		got, err := eng.GetEquipmentAssignments(entityID)
		if err != nil {
			return err
		}
		for _, rec := range got.Combined {
			fmt.Fprintln(out, formatRecordLine(rec.ID, string(rec.Context), rec.StartDate, rec.EndDate, rec.Status))
		}
		return nil
	case assignment.KindEmployee:
		recs, err := eng.GetEmployeeAssignments(entityID)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Fprintln(out, formatRecordLine(rec.ID, rec.Type, rec.StartDate, rec.EndDate, rec.Status))
		}
		return nil
	default:
		return fmt.Errorf("unknown kind %q (want equipment or employee)", kind)
	}
}

func formatRecordLine(id uint, context string, start time.Time, end *time.Time, status string) string {
	endStr := "open"
	if end != nil {
		endStr = dateutil.Format(*end)
	}
	return fmt.Sprintf("%-6d %-8s %s .. %-10s %s", id, context, dateutil.Format(start), endStr, status)
}

func parseKindAndID(args []string) (assignment.ResourceKind, uint, error) {
	kind := assignment.ResourceKind(args[0])
	switch kind {
	case assignment.KindEquipment, assignment.KindEmployee:
	default:
		return "", 0, fmt.Errorf("unknown kind %q (want equipment or employee)", args[0])
	}
	id, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("parse id %q: %w", args[1], err)
	}
	return kind, uint(id), nil
}
