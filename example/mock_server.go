package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// StartMockAPIServer runs a mock JSON API for exercising FastGET.
// Call this in a goroutine before streaming requests against it.
//
// Endpoints:
//
//	/users?id=N&region=X  - user record as JSON; ~5% answer 500 with a
//	                        JSON error body, so both outcomes show up
//	/slow                 - never answers; use to demo request timeouts
func StartMockAPIServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		region := r.URL.Query().Get("region")

		// simulate small latency variance
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

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
