package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/client"
	"github.com/joelwehr/ppclog/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ppclog",
	Short: "Powered parachute flight log",
	Long: `ppclog keeps your flight log, equipment, checklists, and maintenance
records locally and synchronizes them with the ppcpilot service when
a connection is available.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			_ = app.Close()
		}
	},
}

var errNotSignedIn = errors.New("not signed in")

var (
	cfgPath    string
	jsonOutput bool
	verbose    bool

	cfg *config.Config
	app *client.Client
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

func initClient() error {
	loader := config.NewLoader(cfgPath)
	loaded, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	if verbose {
		cfg.Log.Level = "debug"
	}

	app, err = client.New(cfg, &consoleAuthorizer{auth: &cfg.Auth})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// Output helpers.

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

func printSuccess(format string, args ...interface{}) {
	successColor.Fprintf(os.Stdout, "✓ "+format+"\n", args...)
}

func printError(format string, args ...interface{}) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

func printWarning(format string, args ...interface{}) {
	warnColor.Fprintf(os.Stderr, "! "+format+"\n", args...)
}

func printInfo(format string, args ...interface{}) {
	infoColor.Fprintf(os.Stdout, format+"\n", args...)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError("Encode JSON: %v", err)
		return
	}
	fmt.Println(string(data))
}
