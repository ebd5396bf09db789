// Standalone mock server for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/fastget get -c example/run.yaml
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	fmt.Println("Mock API server starting on :9999")
	fmt.Println("GET /users?id=N&region=X answers JSON; ~5% answer 500")
	fmt.Println("GET /slow never answers (for timeout demos)")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	mux := http.NewServeMux()

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		region := r.URL.Query().Get("region")

		time.Sleep(time.Duration(5+rand.Intn(20)) * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		if rand.Intn(100) < 5 {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status": "ko",
				"error":  "upstream unavailable",
			})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"user": map[string]string{
				"id":     id,
				"region": region,
				"name":   "user-" + id,
			},
		})
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	if err := http.ListenAndServe(":9999", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
