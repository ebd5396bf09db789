package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/oalfonso-o/FastGET"
)

// BuildOptions converts parsed configuration into SDK client options.
//
// Zero-valued sizing fields are skipped so the SDK defaults apply.
func BuildOptions(cfg *Config) []fastget.Option {
	var opts []fastget.Option

	if cfg.NumWorkers > 0 {
		opts = append(opts, fastget.WithNumWorkers(cfg.NumWorkers))
	}
	if cfg.SingleSubmitSize > 0 {
		opts = append(opts, fastget.WithSingleSubmitSize(cfg.SingleSubmitSize))
	}
	if cfg.PoolSubmitSize > 0 {
		opts = append(opts, fastget.WithPoolSubmitSize(cfg.PoolSubmitSize))
	}
	if cfg.QueueMaxSize > 0 {
		opts = append(opts, fastget.WithQueueMaxSize(cfg.QueueMaxSize))
	}

	return opts
}

// BuildStreamOptions converts parsed configuration into per-stream options.
func BuildStreamOptions(cfg *Config) []fastget.StreamOption {
	var opts []fastget.StreamOption

	if cfg.RequestTimeout.Duration() > 0 {
		opts = append(opts, fastget.WithRequestTimeout(cfg.RequestTimeout.Duration()))
	}

	return opts
}

// BuildRequests materializes the full request set declared by the config:
// direct URLs first, then the URL file, then each grid in declaration
// order. Correlation ids are assigned sequentially from zero across all
// sources.
func BuildRequests(cfg *Config) ([]fastget.Request, error) {
	var requests []fastget.Request
	id := int64(0)

	for _, u := range cfg.URLs {
		requests = append(requests, fastget.Request{ID: id, URL: u})
		id++
	}

	if cfg.URLFile != "" {
		fileURLs, err := readURLFile(cfg.URLFile)
		if err != nil {
			return nil, fmt.Errorf("url_file: %w", err)
		}
		for _, u := range fileURLs {
			requests = append(requests, fastget.Request{ID: id, URL: u})
			id++
		}
	}

	for i, g := range cfg.Grids {
		gridRequests, err := fastget.NewRequestGrid(g.URLTemplate, g.Dimensions, fastget.WithStartID(id))
		if err != nil {
			return nil, fmt.Errorf("grids[%d]: %w", i, err)
		}
		requests = append(requests, gridRequests...)
		id += int64(len(gridRequests))
	}

	return requests, nil
}

// readURLFile reads one URL per line, skipping blanks and '#' comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := validateURL(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}
