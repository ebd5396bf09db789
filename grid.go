package fastget

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/template"
)

// gridConfig holds mutable state during grid expansion.
type gridConfig struct {
	startID int64
}

// GridOption configures [NewRequestGrid].
type GridOption func(*gridConfig) error

// WithStartID sets the correlation id assigned to the first generated
// Request; subsequent Requests get sequential ids. Defaults to 0.
func WithStartID(id int64) GridOption {
	return func(cfg *gridConfig) error {
		if id < 0 {
			return fmt.Errorf("start id cannot be negative, got %d", id)
		}
		cfg.startID = id
		return nil
	}
}

// NewRequestGrid expands a URL template over dimension values via cartesian
// product, producing one [Request] per combination with sequential ids.
//
// This is the natural way to express "GET this API for all of these keys":
//
//	requests, err := fastget.NewRequestGrid(
//	    "https://api.example.com/users/{{.id}}?region={{.region}}",
//	    map[string][]string{
//	        "id":     {"1", "2", "3"},
//	        "region": {"eu", "us"},
//	    },
//	)
//	// 6 requests, ids 0..5
//
// The template uses Go's text/template syntax. Dimension values are
// URL-encoded before interpolation and combinations are generated in
// sorted-key order, so the output is deterministic. Missing template keys
// fail fast with an error.
func NewRequestGrid(urlTemplate string, dimensions map[string][]string, opts ...GridOption) ([]Request, error) {
	if strings.TrimSpace(urlTemplate) == "" {
		return nil, errors.New("URL template cannot be empty")
	}
	if len(dimensions) == 0 {
		return nil, errors.New("at least one dimension is required")
	}
	for name, values := range dimensions {
		if len(values) == 0 {
			return nil, fmt.Errorf("dimension %q has no values", name)
		}
	}

	cfg := &gridConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// missingkey=error for fail-fast behaviour on typoed template keys
	tmpl, err := template.New("url").Option("missingkey=error").Parse(urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid URL template: %w", err)
	}

	combinations := cartesianProduct(dimensions)

	requests := make([]Request, 0, len(combinations))
	id := cfg.startID
	for _, combo := range combinations {
		urlStr, err := executeTemplate(tmpl, urlEncodeMap(combo))
		if err != nil {
			return nil, fmt.Errorf("template execution failed: %w", err)
		}
		requests = append(requests, Request{ID: id, URL: urlStr})
		id++
	}

	return requests, nil
}

// cartesianProduct generates all combinations of dimension values.
// Keys are iterated in sorted order for deterministic output; values keep
// their original slice order.
func cartesianProduct(dims map[string][]string) []map[string]string {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 1
	for _, k := range keys {
		total *= len(dims[k])
	}

	result := make([]map[string]string, 0, total)
	indices := make([]int, len(keys))
	for {
		combo := make(map[string]string, len(keys))
		for i, k := range keys {
			combo[k] = dims[k][indices[i]]
		}
		result = append(result, combo)

		// increment indices, rightmost first
		i := len(keys) - 1
		for ; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(dims[keys[i]]) {
				break
			}
			indices[i] = 0
		}
		if i < 0 {
			return result
		}
	}
}

// urlEncodeMap returns a new map with all values URL-encoded.
func urlEncodeMap(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = url.QueryEscape(v)
	}
	return result
}

// executeTemplate renders the template with the given data.
func executeTemplate(tmpl *template.Template, data map[string]string) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
