package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/models"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Manage maintenance records",
}

var maintenanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance records",
	RunE:  runMaintenanceList,
}

var maintenanceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record maintenance work",
	Example: `  ppclog maintenance add --frame 1 --type scheduled --component engine \
      --description "Replaced spark plugs" --engine-hours 152.3`,
	RunE: runMaintenanceAdd,
}

var (
	maintFrame       int64
	maintDate        string
	maintType        string
	maintComponent   string
	maintDescription string
	maintCost        float64
	maintEngineHours float64
	maintPerformedBy string
)

func init() {
	rootCmd.AddCommand(maintenanceCmd)
	maintenanceCmd.AddCommand(maintenanceListCmd, maintenanceAddCmd)

	maintenanceListCmd.Flags().Int64Var(&maintFrame, "frame", 0,
		"Filter by PPC frame ID")

	maintenanceAddCmd.Flags().Int64Var(&maintFrame, "frame", 0,
		"PPC frame ID (required)")
	maintenanceAddCmd.Flags().StringVar(&maintDate, "date", "",
		"Work date (YYYY-MM-DD, default today)")
	maintenanceAddCmd.Flags().StringVar(&maintType, "type", "",
		"Work type (scheduled, unscheduled, inspection, overhaul, repair)")
	maintenanceAddCmd.Flags().StringVar(&maintComponent, "component", "",
		"Component (engine, wing, propeller, frame, other)")
	maintenanceAddCmd.Flags().StringVar(&maintDescription, "description", "",
		"What was done")
	maintenanceAddCmd.Flags().Float64Var(&maintCost, "cost", 0,
		"Cost")
	maintenanceAddCmd.Flags().Float64Var(&maintEngineHours, "engine-hours", 0,
		"Engine hours at service")
	maintenanceAddCmd.Flags().StringVar(&maintPerformedBy, "performed-by", "",
		"Who did the work")
	_ = maintenanceAddCmd.MarkFlagRequired("frame")
}

func runMaintenanceList(cmd *cobra.Command, args []string) error {
	logs, err := app.Store.ListMaintenanceLogs(context.Background(), maintFrame)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(logs)
		return nil
	}
	if len(logs) == 0 {
		printInfo("No maintenance records")
		return nil
	}

	for _, m := range logs {
		line := fmt.Sprintf("#%-4d %s", m.ID, m.MaintenanceDate.Format("2006-01-02"))
		if m.MaintenanceType != "" {
			line += fmt.Sprintf("  %-11s", m.MaintenanceType)
		}
		if m.Component != "" {
			line += fmt.Sprintf(" %-9s", m.Component)
		}
		if m.Description != nil {
			line += "  " + *m.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runMaintenanceAdd(cmd *cobra.Command, args []string) error {
	date := time.Now().Truncate(24 * time.Hour)
	if maintDate != "" {
		parsed, err := time.Parse("2006-01-02", maintDate)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", maintDate, err)
		}
		date = parsed
	}

	log := &models.MaintenanceLog{
		PpcFrameID:      maintFrame,
		MaintenanceDate: date,
		MaintenanceType: models.MaintenanceType(maintType),
		Component:       models.MaintenanceComponent(maintComponent),
	}
	if maintDescription != "" {
		log.Description = &maintDescription
	}
	if maintCost > 0 {
		log.Cost = &maintCost
	}
	if maintEngineHours > 0 {
		log.EngineHoursAtSvc = &maintEngineHours
	}
	if maintPerformedBy != "" {
		log.PerformedBy = &maintPerformedBy
	}

	if err := app.Store.SaveMaintenanceLog(context.Background(), log); err != nil {
		return err
	}
	printSuccess("Recorded maintenance #%d", log.ID)
	return nil
}
