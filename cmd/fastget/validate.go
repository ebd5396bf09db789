package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oalfonso-o/FastGET/config"
)

// validateCmd validates a run file without issuing any requests.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a run file",
	Long: `Validate a FastGET run file without issuing any requests.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-run checks.

Exit codes:
  0 - Run file is valid
  1 - Run file is invalid (error details printed to stderr)

Example:
  fastget validate -c run.yaml
  fastget validate --config /etc/fastget/run.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to run file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// count declared requests (direct + from grids); the URL file is only
	// read at run time, so report it separately
	directRequests := len(cfg.URLs)
	gridRequests := 0
	for _, g := range cfg.Grids {
		// cartesian product size
		size := 1
		for _, vals := range g.Dimensions {
			size *= len(vals)
		}
		gridRequests += size
	}

	fmt.Printf("Run file is valid!\n")
	fmt.Printf("  Requests: %d direct + %d from grids = %d total\n",
		directRequests, gridRequests, directRequests+gridRequests)
	if cfg.URLFile != "" {
		fmt.Printf("  URL file: %s (read at run time)\n", cfg.URLFile)
	}
	if cfg.RequestTimeout.Duration() > 0 {
		fmt.Printf("  Timeout:  %s per request\n", cfg.RequestTimeout.Duration())
	}

	return nil
}
