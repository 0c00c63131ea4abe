package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/services/checklists"
)

var checklistsCmd = &cobra.Command{
	Use:   "checklists",
	Short: "Browse and run checklists",
}

var checklistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available checklist templates",
	RunE:  runChecklistsList,
}

var checklistsRunCmd = &cobra.Command{
	Use:   "run <template>",
	Short: "Work through a checklist and record the result",
	Long: `Run walks through a template item by item. Checkbox items take y/n;
counter items take a number. The completed run is recorded and
synced like any other record.`,
	Example: `  ppclog checklists run "Engine Start"
  ppclog checklists run 3 --flight 12`,
	Args: cobra.ExactArgs(1),
	RunE: runChecklistsRun,
}

var checklistFlight int64

func init() {
	rootCmd.AddCommand(checklistsCmd)
	checklistsCmd.AddCommand(checklistsListCmd, checklistsRunCmd)

	checklistsRunCmd.Flags().Int64Var(&checklistFlight, "flight", 0,
		"Flight ID to attach the run to")
}

func runChecklistsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	templates, err := app.Store.ListChecklistTemplates(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(templates)
		return nil
	}

	for _, t := range templates {
		line := fmt.Sprintf("#%-3d %s", t.ID, t.Name)
		if t.Description != nil {
			line += " - " + *t.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runChecklistsRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	template, err := app.Checklists.ResolveTemplate(ctx, args[0])
	if err != nil {
		printError("%v", err)
		return err
	}

	items, err := app.Checklists.Items(ctx, template.ID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printWarning("Checklist %q has no items", template.Name)
		return nil
	}

	printInfo("%s (%d items)", template.Name, len(items))
	reader := bufio.NewReader(os.Stdin)

	var results []checklists.ItemResult
	section := ""
	for _, item := range items {
		if item.Section != nil && *item.Section != section {
			section = *item.Section
			fmt.Println()
			printInfo("-- %s --", section)
		}

		result := checklists.ItemResult{Item: item}
		if item.ItemType == models.ItemCounter {
			fmt.Printf("  %s [count]: ", item.Description)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			if n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64); err == nil {
				result.Count = n
			}
		} else {
			fmt.Printf("  %s [y/N]: ", item.Description)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			result.Checked = answer == "y" || answer == "yes"
		}
		results = append(results, result)
	}

	var flightID *int64
	if checklistFlight > 0 {
		flightID = &checklistFlight
	}

	log, err := app.Checklists.Complete(ctx, template, flightID, results, nil)
	if err != nil {
		return err
	}

	fmt.Println()
	printSuccess("Recorded %s: %d/%d complete", template.Name, log.CheckedItems, log.TotalItems)
	return nil
}
