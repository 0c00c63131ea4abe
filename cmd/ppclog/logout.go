package main

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and stop background sync",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := app.Auth.SignOut(); err != nil {
		printError("Logout failed: %v", err)
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true})
	} else {
		printSuccess("Signed out")
	}
	return nil
}
