// Command ppclog is an offline-first flight log for powered
// parachutes that syncs with the ppcpilot service.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
