package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session, sync, and logbook summary",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	access, err := app.Creds.Get(models.KeyAccessToken)
	if err != nil {
		return err
	}
	signedIn := access != ""

	lastSync, err := app.Store.Setting(models.SettingLastSync)
	if err != nil {
		return err
	}

	stats, err := app.Flights.Statistics(ctx)
	if err != nil {
		return err
	}

	pending := 0
	for _, entityType := range app.Store.EntityTypes() {
		recs, err := app.Store.ListUnsynced(ctx, entityType)
		if err != nil {
			return err
		}
		pending += len(recs)
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"signed_in":          signedIn,
			"last_sync":          lastSync,
			"pending_records":    pending,
			"total_flights":      stats.TotalFlights,
			"total_hours":        stats.TotalHours(),
			"flights_this_year":  stats.FlightsThisYear,
			"flights_this_month": stats.FlightsThisMonth,
		})
		return nil
	}

	if signedIn {
		printSuccess("Signed in")
	} else {
		printWarning("Not signed in")
	}
	if lastSync != "" {
		printInfo("Last sync: %s", lastSync)
	} else {
		printInfo("Last sync: never")
	}
	printInfo("Pending upload: %d record(s)", pending)
	fmt.Println()
	printInfo("Flights: %d total (%.1f hours), %d this year, %d this month",
		stats.TotalFlights, stats.TotalHours(),
		stats.FlightsThisYear, stats.FlightsThisMonth)

	if flight, err := app.Flights.Active(ctx); err == nil {
		printWarning("Flight #%d in progress since %s",
			flight.ID, flight.StartTime.Format("15:04"))
	}
	return nil
}
