package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joelwehr/ppclog/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Login opens the Google consent flow and exchanges the resulting
authorization code for an API session. Background sync starts
automatically after sign-in.`,
	Example: `  ppclog login`,
	RunE:    runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := app.Auth.SignIn(ctx); err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
		} else {
			printError("Login failed: %v", err)
		}
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true})
	} else {
		printSuccess("Signed in")
	}
	return nil
}

// consoleAuthorizer walks the user through the Google consent screen
// in a browser and reads the authorization code back from the
// terminal.
type consoleAuthorizer struct {
	auth *config.AuthConfig
}

func (a *consoleAuthorizer) Authorize(ctx context.Context) (string, error) {
	authURL := "https://accounts.google.com/o/oauth2/v2/auth?" + url.Values{
		"client_id":     {a.auth.GoogleClientID},
		"redirect_uri":  {a.auth.RedirectURI},
		"response_type": {"code"},
		"scope":         {a.auth.Scopes},
	}.Encode()

	fmt.Fprintln(os.Stderr, "Open this URL in a browser and approve access:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  "+authURL)
	fmt.Fprintln(os.Stderr)
	fmt.Fprint(os.Stderr, "Authorization code: ")

	// Read without echo; codes are short-lived credentials.
	code, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read authorization code: %w", err)
	}
	if len(code) == 0 {
		return "", fmt.Errorf("no authorization code entered")
	}
	return string(code), nil
}
