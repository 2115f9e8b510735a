// ModForge
//
// A spec-to-component generator. Send a component spec, get a review-ready
// React bundle with versioned iterations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "modforge",
	Short: "ModForge - UI Component Generator",
	Long: `ModForge turns a JSON component spec into a ready-to-review React bundle
and iterates on it with patch-based updates.

  modforge serve                                Start the server
  modforge generate spec.json                   Generate a base component (v0)
  modforge update "Add size prop (sm/md/lg)"    Apply an update as a new version
  modforge versions                             List the session timeline
  modforge checkout 0                           Move the active cursor to v0
  modforge preview out.html                     Write a preview document
  modforge download out.zip                     Download the active bundle
  modforge publish owner/repo                   Export the active bundle to GitHub`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("MODFORGE_SERVER_URL", "http://localhost:8787"), "ModForge server URL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
