package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/oalfonso-o/FastGET"
	"github.com/oalfonso-o/FastGET/config"
)

// newLogger creates a JSON logger for CLI use. Logs go to stderr so stdout
// stays a clean NDJSON response stream.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// getCmd issues every request declared by the run file.
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Issue all requests from a run file",
	Long: `Issue every request declared by the run file and write one NDJSON
record per response to stdout, in completion order.

Each record has the shape:
  {"id": 3, "status_code": 200, "data": {...}}

Requests that fail locally (connection refused, timeout, malformed
response) produce a record with status_code 500 whose data carries the
failure diagnostic; they never abort the run.

The run is interruptible (Ctrl+C / SIGTERM): in-flight requests are
waited out and the partial results already emitted remain valid.

Example:
  fastget get -c run.yaml > responses.ndjson
  fastget get -c run.yaml --progress 2> /dev/null`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringP("config", "c", "", "path to run file (required)")
	getCmd.Flags().Bool("progress", false, "show a progress bar on stderr")
	getCmd.Flags().BoolP("verbose", "v", false, "log engine progress to stderr")
	_ = getCmd.MarkFlagRequired("config")
}

// responseRecord is the NDJSON shape written per response.
type responseRecord struct {
	ID         int64 `json:"id"`
	StatusCode int   `json:"status_code"`
	Data       any   `json:"data"`
}

func runGet(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	showProgress, _ := cmd.Flags().GetBool("progress")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	requests, err := config.BuildRequests(cfg)
	if err != nil {
		return fmt.Errorf("failed to build requests: %w", err)
	}
	if len(requests) == 0 {
		return fmt.Errorf("no requests configured")
	}

	opts := append(config.BuildOptions(cfg), fastget.WithLogger(logger))
	client, err := fastget.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	// cancel the stream on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	responses, err := client.Stream(ctx, fastget.FromSlice(requests...), config.BuildStreamOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(requests),
			progressbar.OptionSetDescription("fetching"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
		)
	}

	encoder := json.NewEncoder(os.Stdout)
	statusCounts := make(map[int]int)
	failed := 0
	written := 0

	for resp := range responses {
		record := responseRecord{ID: resp.ID, StatusCode: resp.StatusCode, Data: resp.Data}
		if err := encoder.Encode(record); err != nil {
			// stdout is gone (closed pipe); stop the stream and drain
			stop()
			for range responses {
			}
			return fmt.Errorf("failed to write response: %w", err)
		}
		written++
		statusCounts[resp.StatusCode]++
		if resp.Failed() {
			failed++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if ctx.Err() != nil {
		logger.Warn("run interrupted",
			"written", written,
			"requested", len(requests),
		)
	}

	printSummary(os.Stderr, written, failed, statusCounts, time.Since(start))
	return nil
}

// printSummary writes the per-status totals to w.
func printSummary(w *os.File, written, failed int, statusCounts map[int]int, elapsed time.Duration) {
	fmt.Fprintf(w, "%d responses in %s", written, elapsed.Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintf(w, " (%d failed locally)", failed)
	}
	fmt.Fprintln(w)
	for status, count := range statusCounts {
		fmt.Fprintf(w, "  %d: %d\n", status, count)
	}
}
