// Package main is the entry point for the fastget CLI.
//
// FastGET can be used either as a library (SDK) or as a standalone binary
// driven by a YAML run file. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	fastget get -c run.yaml            # Issue all requests, NDJSON to stdout
//	fastget validate -c run.yaml       # Validate a run file
//	fastget version                    # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "fastget",
	Short: "Issue very large numbers of HTTP GETs concurrently",
	Long: `FastGET issues very large numbers of independent HTTP GET requests
concurrently and streams their outcomes back, bounding the work in flight
and the memory held for unconsumed results.

Quick start:
  1. Create a run file (run.yaml)
  2. Run: fastget get -c run.yaml > responses.ndjson

Example run file:
  request_timeout: 5s
  urls:
    - https://api.example.com/users/1
  grids:
    - url_template: "https://api.example.com/users/{{.id}}"
      dimensions:
        id: ["1", "2", "3"]`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this fastget binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fastget %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
