package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// maxPageSize is the default index.max_result_window of both engines.
const maxPageSize = 10000

// Validate validates the entire benchmark configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *BenchConfig) Validate() error {
	errs := &ValidationErrors{}

	switch c.Engine {
	case EngineElasticsearch, EngineOpenSearch:
	case "":
		errs.Add("engine", "engine is required")
	default:
		errs.Add("engine", fmt.Sprintf("unknown engine: %s (expected %s or %s)", c.Engine, EngineElasticsearch, EngineOpenSearch))
	}

	validateConnection(&c.Connection, errs)
	validateIndex(&c.Index, errs)
	validateLoad(&c.Load, errs)
	validateQuery(&c.Query, errs)

	if c.Output.ProgressEvery < 0 {
		errs.Add("output.progressEvery", "must not be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateConnection(conn *ConnectionConfig, errs *ValidationErrors) {
	if conn.URL == "" {
		errs.Add("connection.url", "url is required")
	} else {
		u, err := url.Parse(conn.URL)
		if err != nil {
			errs.Add("connection.url", fmt.Sprintf("invalid URL: %v", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs.Add("connection.url", fmt.Sprintf("unsupported scheme %q (expected http or https)", u.Scheme))
		} else if u.Host == "" {
			errs.Add("connection.url", "host is required")
		}
	}

	if conn.Password != "" && conn.Username == "" {
		errs.Add("connection.username", "username is required when password is set")
	}

	if conn.Timeout < 0 {
		errs.Add("connection.timeout", "must not be negative")
	}
}

func validateIndex(idx *IndexConfig, errs *ValidationErrors) {
	if idx.Name == "" {
		errs.Add("index.name", "index name is required")
		return
	}
	if idx.Name != strings.ToLower(idx.Name) {
		errs.Add("index.name", "index name must be lowercase")
	}
	if strings.HasPrefix(idx.Name, "_") || strings.HasPrefix(idx.Name, "-") || strings.HasPrefix(idx.Name, "+") {
		errs.Add("index.name", "index name must not start with '_', '-' or '+'")
	}
	if strings.ContainsAny(idx.Name, `\/*?"<>| ,#:`) {
		errs.Add("index.name", "index name contains an illegal character")
	}
}

func validateLoad(load *LoadSettings, errs *ValidationErrors) {
	if load.Batches <= 0 {
		errs.Add("load.batches", "must be positive")
	}
	if load.BatchSize <= 0 {
		errs.Add("load.batchSize", "must be positive")
	}
}

func validateQuery(q *QuerySettings, errs *ValidationErrors) {
	if q.Iterations <= 0 {
		errs.Add("query.iterations", "must be positive")
	}
	if q.PageSize < 0 || q.PageSize > maxPageSize {
		errs.Add("query.pageSize", fmt.Sprintf("must be between 0 and %d", maxPageSize))
	}
	if q.MinimumShouldMatch == "" {
		errs.Add("query.minimumShouldMatch", "minimumShouldMatch is required")
	}

	switch q.LatencySource {
	case "", "took", "roundtrip":
	default:
		errs.Add("query.latencySource", fmt.Sprintf("unknown latency source: %s (expected took or roundtrip)", q.LatencySource))
	}

	if len(q.Variants) == 0 {
		errs.Add("query.variants", "at least one variant is required")
	}

	seen := make(map[string]bool, len(q.Variants))
	for i, v := range q.Variants {
		prefix := fmt.Sprintf("query.variants[%d]", i)
		if v.Name == "" {
			errs.Add(prefix+".name", "name is required")
		} else if seen[v.Name] {
			errs.Add(prefix+".name", fmt.Sprintf("duplicate variant name: %s", v.Name))
		}
		seen[v.Name] = true

		if v.Field == "" {
			errs.Add(prefix+".field", "field is required")
		}
	}
}
