package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/models"
)

var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Manage the flight log",
}

var flightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged flights",
	RunE:  runFlightsList,
}

var flightsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a completed flight",
	Example: `  ppclog flights add --date 2026-08-30 --duration 45 --location "Field East"`,
	RunE: runFlightsAdd,
}

var flightsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a flight session",
	RunE:  runFlightsStart,
}

var flightsEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active flight session",
	RunE:  runFlightsEnd,
}

var (
	flightDate     string
	flightDuration int64
	flightFrame    int64
	flightLocation string
	flightWeather  string
	flightNotes    string
)

func init() {
	rootCmd.AddCommand(flightsCmd)
	flightsCmd.AddCommand(flightsListCmd, flightsAddCmd, flightsStartCmd, flightsEndCmd)

	flightsAddCmd.Flags().StringVar(&flightDate, "date", "",
		"Flight date (YYYY-MM-DD, default today)")
	flightsAddCmd.Flags().Int64Var(&flightDuration, "duration", 0,
		"Duration in minutes")
	flightsAddCmd.Flags().Int64Var(&flightFrame, "frame", 0,
		"PPC frame ID")
	flightsAddCmd.Flags().StringVar(&flightLocation, "location", "",
		"Departure location")
	flightsAddCmd.Flags().StringVar(&flightWeather, "weather", "",
		"Weather conditions")
	flightsAddCmd.Flags().StringVar(&flightNotes, "notes", "",
		"Flight notes")

	flightsStartCmd.Flags().Int64Var(&flightFrame, "frame", 0,
		"PPC frame ID")
	flightsStartCmd.Flags().StringVar(&flightLocation, "location", "",
		"Departure location")

	flightsEndCmd.Flags().StringVar(&flightNotes, "notes", "",
		"Flight notes")
}

func runFlightsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	list, err := app.Store.ListFlights(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(list)
		return nil
	}
	if len(list) == 0 {
		printInfo("No flights logged")
		return nil
	}

	for _, f := range list {
		line := fmt.Sprintf("#%-4d %s", f.ID, f.FlightDate.Format("2006-01-02"))
		if f.DurationMinutes != nil {
			line += fmt.Sprintf("  %3d min", *f.DurationMinutes)
		}
		if f.Location != nil {
			line += "  " + *f.Location
		}
		line += "  [" + f.SyncStatus.String() + "]"
		fmt.Println(line)
	}
	return nil
}

func runFlightsAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	date := time.Now().Truncate(24 * time.Hour)
	if flightDate != "" {
		parsed, err := time.Parse("2006-01-02", flightDate)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", flightDate, err)
		}
		date = parsed
	}

	flight := &models.Flight{FlightDate: date}
	if flightDuration > 0 {
		flight.DurationMinutes = &flightDuration
	}
	if flightFrame > 0 {
		flight.PpcFrameID = &flightFrame
	}
	if flightLocation != "" {
		flight.Location = &flightLocation
	}
	if flightWeather != "" {
		flight.Weather = &flightWeather
	}
	if flightNotes != "" {
		flight.Notes = &flightNotes
	}

	if err := app.Store.SaveFlight(ctx, flight); err != nil {
		return err
	}
	printSuccess("Logged flight #%d", flight.ID)
	return nil
}

func runFlightsStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var frameID *int64
	if flightFrame > 0 {
		frameID = &flightFrame
	}
	var location *string
	if flightLocation != "" {
		location = &flightLocation
	}

	flight, err := app.Flights.Start(ctx, frameID, location)
	if err != nil {
		printError("%v", err)
		return err
	}
	printSuccess("Flight #%d started at %s", flight.ID, flight.StartTime.Format("15:04"))
	return nil
}

func runFlightsEnd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var notes *string
	if flightNotes != "" {
		notes = &flightNotes
	}

	flight, err := app.Flights.End(ctx, notes)
	if err != nil {
		printError("%v", err)
		return err
	}

	duration := int64(0)
	if flight.DurationMinutes != nil {
		duration = *flight.DurationMinutes
	}
	printSuccess("Flight #%d ended, %d minutes logged", flight.ID, duration)
	return nil
}
