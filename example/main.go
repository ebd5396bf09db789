package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oalfonso-o/FastGET"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockAPIServer(":9999")
	time.Sleep(100 * time.Millisecond)

	// grid API: 100 users x 2 regions = 200 requests from one declaration
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = fmt.Sprint(i)
	}
	requests, err := fastget.NewRequestGrid(
		"http://localhost:9999/users?id={{.id}}&region={{.region}}",
		map[string][]string{
			"id":     ids,
			"region": {"eu", "us"},
		},
	)
	if err != nil {
		slog.Error("failed to create request grid", "error", err)
		os.Exit(1)
	}

	client, err := fastget.New(
		fastget.WithNumWorkers(4),
		fastget.WithSingleSubmitSize(20),
		fastget.WithPoolSubmitSize(100),
		fastget.WithQueueMaxSize(100),
	)
	if err != nil {
		slog.Error("failed to create client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println()
	fmt.Printf("  FastGET demo: %d requests against the mock API\n", len(requests))
	fmt.Println("  Press Ctrl+C to stop early")
	fmt.Println()

	// set up context with signal handling for early cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	responses, err := client.Stream(ctx, fastget.FromSlice(requests...),
		fastget.WithRequestTimeout(2*time.Second),
	)
	if err != nil {
		slog.Error("failed to start stream", "error", err)
		os.Exit(1)
	}

	ok, ko, failed := 0, 0, 0
	for resp := range responses {
		switch {
		case resp.Failed():
			failed++
		case resp.StatusCode == 200:
			ok++
		default:
			ko++
		}
	}

	fmt.Printf("  %d ok, %d server errors, %d local failures in %s\n",
		ok, ko, failed, time.Since(start).Round(time.Millisecond))
}
