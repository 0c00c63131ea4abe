package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/models"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "Manage frames, engines, wings, and propellers",
}

var framesListCmd = &cobra.Command{
	Use:   "frames",
	Short: "List PPC frames",
	RunE:  runFramesList,
}

var frameAddCmd = &cobra.Command{
	Use:   "add-frame",
	Short: "Register a PPC frame",
	Example: `  ppclog equipment add-frame --manufacturer "Six Chuter" --model "P3 Lite" --n-number N12345`,
	RunE: runFrameAdd,
}

var engineAddCmd = &cobra.Command{
	Use:   "add-engine",
	Short: "Register an engine on a frame",
	RunE:  runEngineAdd,
}

var wingAddCmd = &cobra.Command{
	Use:   "add-wing",
	Short: "Register a wing on a frame",
	RunE:  runWingAdd,
}

var propellerAddCmd = &cobra.Command{
	Use:   "add-propeller",
	Short: "Register a propeller on a frame",
	RunE:  runPropellerAdd,
}

var (
	equipFrame        int64
	equipManufacturer string
	equipModel        string
	equipSerial       string
	equipNNumber      string
	equipHours        float64
	equipTBO          float64
	equipSize         float64
)

func init() {
	rootCmd.AddCommand(equipmentCmd)
	equipmentCmd.AddCommand(framesListCmd, frameAddCmd, engineAddCmd, wingAddCmd, propellerAddCmd)

	for _, cmd := range []*cobra.Command{frameAddCmd, engineAddCmd, wingAddCmd, propellerAddCmd} {
		cmd.Flags().StringVar(&equipManufacturer, "manufacturer", "", "Manufacturer")
		cmd.Flags().StringVar(&equipModel, "model", "", "Model")
		cmd.Flags().StringVar(&equipSerial, "serial", "", "Serial number")
	}

	frameAddCmd.Flags().StringVar(&equipNNumber, "n-number", "", "FAA N-number")

	for _, cmd := range []*cobra.Command{engineAddCmd, wingAddCmd, propellerAddCmd} {
		cmd.Flags().Int64Var(&equipFrame, "frame", 0, "PPC frame ID (required)")
		_ = cmd.MarkFlagRequired("frame")
	}

	engineAddCmd.Flags().Float64Var(&equipHours, "hours", 0, "Total engine hours")
	engineAddCmd.Flags().Float64Var(&equipTBO, "tbo", 0, "Time between overhaul, hours")
	wingAddCmd.Flags().Float64Var(&equipSize, "size", 0, "Wing size in square feet")
}

func runFramesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	frames, err := app.Store.ListPpcFrames(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(frames)
		return nil
	}
	if len(frames) == 0 {
		printInfo("No frames registered")
		return nil
	}

	for _, f := range frames {
		line := fmt.Sprintf("#%-4d %s", f.ID, f.DisplayName())
		if f.NNumber != nil {
			line += "  " + *f.NNumber
		}
		if !f.IsActive {
			line += "  (inactive)"
		}
		line += "  [" + f.SyncStatus.String() + "]"
		fmt.Println(line)

		engines, err := app.Store.ListEngines(ctx, f.ID)
		if err != nil {
			return err
		}
		for _, e := range engines {
			sub := fmt.Sprintf("  engine #%d", e.ID)
			if e.Model != nil {
				sub += " " + *e.Model
			}
			if e.TotalHours != nil {
				sub += fmt.Sprintf(" %.1fh", *e.TotalHours)
			}
			if remaining := e.HoursUntilTBO(); remaining != nil {
				sub += fmt.Sprintf(" (%.1fh to TBO)", *remaining)
			}
			fmt.Println(sub)
		}

		wings, err := app.Store.ListWings(ctx, f.ID)
		if err != nil {
			return err
		}
		for _, w := range wings {
			sub := fmt.Sprintf("  wing   #%d", w.ID)
			if w.Model != nil {
				sub += " " + *w.Model
			}
			fmt.Println(sub)
		}

		props, err := app.Store.ListPropellers(ctx, f.ID)
		if err != nil {
			return err
		}
		for _, p := range props {
			sub := fmt.Sprintf("  prop   #%d", p.ID)
			if p.Model != nil {
				sub += " " + *p.Model
			}
			fmt.Println(sub)
		}
	}
	return nil
}

func runFrameAdd(cmd *cobra.Command, args []string) error {
	frame := &models.PpcFrame{IsActive: true}
	if equipManufacturer != "" {
		frame.Manufacturer = &equipManufacturer
	}
	if equipModel != "" {
		frame.Model = &equipModel
	}
	if equipSerial != "" {
		frame.SerialNumber = &equipSerial
	}
	if equipNNumber != "" {
		frame.NNumber = &equipNNumber
	}

	if err := app.Store.SavePpcFrame(context.Background(), frame); err != nil {
		return err
	}
	printSuccess("Registered frame #%d", frame.ID)
	return nil
}

func runEngineAdd(cmd *cobra.Command, args []string) error {
	engine := &models.Engine{PpcFrameID: equipFrame}
	if equipManufacturer != "" {
		engine.Manufacturer = &equipManufacturer
	}
	if equipModel != "" {
		engine.Model = &equipModel
	}
	if equipSerial != "" {
		engine.SerialNumber = &equipSerial
	}
	if equipHours > 0 {
		engine.TotalHours = &equipHours
	}
	if equipTBO > 0 {
		engine.TBOHours = &equipTBO
	}

	if err := app.Store.SaveEngine(context.Background(), engine); err != nil {
		return err
	}
	printSuccess("Registered engine #%d", engine.ID)
	return nil
}

func runWingAdd(cmd *cobra.Command, args []string) error {
	wing := &models.Wing{PpcFrameID: equipFrame}
	if equipManufacturer != "" {
		wing.Manufacturer = &equipManufacturer
	}
	if equipModel != "" {
		wing.Model = &equipModel
	}
	if equipSize > 0 {
		wing.SizeSqFt = &equipSize
	}

	if err := app.Store.SaveWing(context.Background(), wing); err != nil {
		return err
	}
	printSuccess("Registered wing #%d", wing.ID)
	return nil
}

func runPropellerAdd(cmd *cobra.Command, args []string) error {
	prop := &models.Propeller{PpcFrameID: equipFrame}
	if equipManufacturer != "" {
		prop.Manufacturer = &equipManufacturer
	}
	if equipModel != "" {
		prop.Model = &equipModel
	}

	if err := app.Store.SavePropeller(context.Background(), prop); err != nil {
		return err
	}
	printSuccess("Registered propeller #%d", prop.ID)
	return nil
}
