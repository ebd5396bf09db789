package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oalfonso-o/FastGET"
)

func TestBuildOptions(t *testing.T) {
	cfg := &Config{
		NumWorkers:       4,
		SingleSubmitSize: 100,
		PoolSubmitSize:   1000,
		QueueMaxSize:     2000,
		URLs:             []string{"https://example.com"},
	}

	opts := BuildOptions(cfg)
	if len(opts) != 4 {
		t.Fatalf("len(opts) = %d, want 4", len(opts))
	}

	// the options must build a working client
	client, err := fastget.New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.Close()
}

func TestBuildOptions_ZeroFieldsSkipped(t *testing.T) {
	cfg := &Config{URLs: []string{"https://example.com"}}

	if opts := BuildOptions(cfg); len(opts) != 0 {
		t.Errorf("len(opts) = %d, want 0 for an all-defaults config", len(opts))
	}
}

func TestBuildStreamOptions(t *testing.T) {
	withTimeout := &Config{RequestTimeout: Duration(5 * time.Second)}
	if opts := BuildStreamOptions(withTimeout); len(opts) != 1 {
		t.Errorf("len(opts) = %d, want 1", len(opts))
	}

	without := &Config{}
	if opts := BuildStreamOptions(without); len(opts) != 0 {
		t.Errorf("len(opts) = %d, want 0", len(opts))
	}
}

func TestBuildRequests_URLsAndGrids(t *testing.T) {
	cfg := &Config{
		URLs: []string{
			"https://example.com/a",
			"https://example.com/b",
		},
		Grids: []GridConfig{
			{
				URLTemplate: "https://example.com/items/{{.n}}",
				Dimensions:  map[string][]string{"n": {"1", "2"}},
			},
		},
	}

	requests, err := BuildRequests(cfg)
	if err != nil {
		t.Fatalf("BuildRequests() error = %v", err)
	}

	if len(requests) != 4 {
		t.Fatalf("len(requests) = %d, want 4", len(requests))
	}
	for i, req := range requests {
		if req.ID != int64(i) {
			t.Errorf("requests[%d].ID = %d, want %d", i, req.ID, i)
		}
	}
	if requests[0].URL != "https://example.com/a" {
		t.Errorf("requests[0].URL = %q", requests[0].URL)
	}
	if requests[2].URL != "https://example.com/items/1" {
		t.Errorf("requests[2].URL = %q", requests[2].URL)
	}
}

func TestBuildRequests_URLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urls.txt")
	content := strings.Join([]string{
		"# comment",
		"https://example.com/one",
		"",
		"https://example.com/two",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := &Config{
		URLs:    []string{"https://example.com/zero"},
		URLFile: path,
	}

	requests, err := BuildRequests(cfg)
	if err != nil {
		t.Fatalf("BuildRequests() error = %v", err)
	}

	wantURLs := []string{
		"https://example.com/zero",
		"https://example.com/one",
		"https://example.com/two",
	}
	if len(requests) != len(wantURLs) {
		t.Fatalf("len(requests) = %d, want %d", len(requests), len(wantURLs))
	}
	for i, want := range wantURLs {
		if requests[i].URL != want {
			t.Errorf("requests[%d].URL = %q, want %q", i, requests[i].URL, want)
		}
		if requests[i].ID != int64(i) {
			t.Errorf("requests[%d].ID = %d, want %d", i, requests[i].ID, i)
		}
	}
}

func TestBuildRequests_URLFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{URLFile: "/nonexistent/urls.txt"}
		if _, err := BuildRequests(cfg); err == nil {
			t.Error("BuildRequests() error = nil, want read error")
		}
	})

	t.Run("bad url in file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "urls.txt")
		if err := os.WriteFile(path, []byte("not-a-url\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cfg := &Config{URLFile: path}
		_, err := BuildRequests(cfg)
		if err == nil {
			t.Fatal("BuildRequests() error = nil, want validation error")
		}
		if !strings.Contains(err.Error(), "line 1") {
			t.Errorf("error = %q, want line number", err.Error())
		}
	})
}

func TestBuildRequests_GridError(t *testing.T) {
	cfg := &Config{
		Grids: []GridConfig{
			{
				URLTemplate: "https://example.com/{{.typo}}",
				Dimensions:  map[string][]string{"n": {"1"}},
			},
		},
	}

	_, err := BuildRequests(cfg)
	if err == nil {
		t.Fatal("BuildRequests() error = nil, want template error")
	}
	if !strings.Contains(err.Error(), "grids[0]") {
		t.Errorf("error = %q, want grid index", err.Error())
	}
}
