// Package config provides YAML run-file parsing for FastGET.
//
// This package enables running FastGET as a standalone binary with a run
// file, as an alternative to the programmatic SDK approach. A run file
// declares the engine sizing and the request set:
//
//	num_workers: 8
//	single_submit_size: 1000
//	pool_submit_size: 10000
//	queue_max_size: 20000
//	request_timeout: 5s
//
//	urls:
//	  - https://api.example.com/users/1
//	  - https://api.example.com/users/2
//
//	url_file: more-urls.txt
//
//	grids:
//	  - url_template: "https://api.example.com/users/{{.id}}?region={{.region}}"
//	    dimensions:
//	      id: ["1", "2", "3"]
//	      region: [eu, us]
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root run-file structure for FastGET.
//
// It maps directly to the YAML file structure. Use [Load] or [Parse] to
// create a Config from YAML. Zero-valued sizing fields mean "use the SDK
// default".
type Config struct {
	// NumWorkers is the width of the worker pool. Defaults to the number
	// of available CPUs.
	NumWorkers int `yaml:"num_workers"`

	// SingleSubmitSize is the number of requests handed to one worker run.
	SingleSubmitSize int `yaml:"single_submit_size"`

	// PoolSubmitSize is how many requests are pulled from the source and
	// considered for submission at once.
	PoolSubmitSize int `yaml:"pool_submit_size"`

	// QueueMaxSize is the ceiling on requests submitted but not yet
	// consumed.
	QueueMaxSize int `yaml:"queue_max_size"`

	// RequestTimeout is the per-request timeout.
	// Accepts duration strings like "5s", "1m", "500ms". Zero means no
	// per-request deadline.
	RequestTimeout Duration `yaml:"request_timeout"`

	// URLs lists target URLs directly.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URLs []string `yaml:"urls"`

	// URLFile names a text file with one target URL per line. Blank lines
	// and lines starting with '#' are skipped. The path supports
	// environment variable substitution.
	URLFile string `yaml:"url_file"`

	// Grids declares URL templates expanded via cartesian product.
	Grids []GridConfig `yaml:"grids"`
}

// GridConfig declares a request grid that expands via cartesian product.
//
// For example, with dimensions {env: [prod, staging], svc: [api, web]},
// the grid expands to 4 URLs: prod/api, prod/web, staging/api, staging/web.
type GridConfig struct {
	// URLTemplate is a Go template for generating request URLs.
	// Dimension keys are available as template variables: {{.env}}, {{.svc}}
	// Supports environment variable substitution in the template.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	// The cartesian product of all dimensions generates the requests.
	Dimensions map[string][]string `yaml:"dimensions"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML run file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML run-file data.
//
// Environment variables are expanded in URLs, the URL file path, and grid
// templates. Sizing fields are validated for sign only; the SDK validates
// the size relationships when the client is built.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.NumWorkers < 0 {
		return fmt.Errorf("num_workers cannot be negative, got %d", c.NumWorkers)
	}
	if c.SingleSubmitSize < 0 {
		return fmt.Errorf("single_submit_size cannot be negative, got %d", c.SingleSubmitSize)
	}
	if c.PoolSubmitSize < 0 {
		return fmt.Errorf("pool_submit_size cannot be negative, got %d", c.PoolSubmitSize)
	}
	if c.QueueMaxSize < 0 {
		return fmt.Errorf("queue_max_size cannot be negative, got %d", c.QueueMaxSize)
	}
	if c.RequestTimeout.Duration() < 0 {
		return fmt.Errorf("request_timeout cannot be negative, got %s", c.RequestTimeout.Duration())
	}

	for i, raw := range c.URLs {
		expanded, err := expandEnvVars(raw)
		if err != nil {
			return fmt.Errorf("urls[%d]: %w", i, err)
		}
		if err := validateURL(expanded); err != nil {
			return fmt.Errorf("urls[%d]: %w", i, err)
		}
		c.URLs[i] = expanded
	}

	if c.URLFile != "" {
		expanded, err := expandEnvVars(c.URLFile)
		if err != nil {
			return fmt.Errorf("url_file: %w", err)
		}
		c.URLFile = expanded
	}

	for i := range c.Grids {
		g := &c.Grids[i]

		if g.URLTemplate == "" {
			return fmt.Errorf("grids[%d]: url_template is required", i)
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			return fmt.Errorf("grids[%d]: url_template: %w", i, err)
		}
		g.URLTemplate = expanded

		// fail fast before the SDK tries to use an invalid template
		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return fmt.Errorf("grids[%d]: invalid url_template: %w", i, err)
		}

		if len(g.Dimensions) == 0 {
			return fmt.Errorf("grids[%d]: at least one dimension is required", i)
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return fmt.Errorf("grids[%d]: dimension %q has no values", i, dimName)
			}
			seen := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if _, exists := seen[v]; exists {
					return fmt.Errorf("grids[%d]: dimension %q has duplicate value %q", i, dimName, v)
				}
				seen[v] = struct{}{}
			}
		}
	}

	if len(c.URLs) == 0 && c.URLFile == "" && len(c.Grids) == 0 {
		return errors.New("at least one of urls, url_file, or grids must be defined")
	}

	return nil
}

// validateURL checks that a target URL is absolute http(s).
func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	return nil
}
