// Package config provides configuration parsing and validation for searchperf.
package config

import (
	"time"
)

// Supported engine labels. Both speak the same REST dialect; the label only
// changes the banner.
const (
	EngineElasticsearch = "elasticsearch"
	EngineOpenSearch    = "opensearch"
)

// BenchConfig is the root configuration for a benchmark run.
//
// Example YAML:
//
//	engine: opensearch
//	connection:
//	  url: "https://localhost:9200"
//	  username: admin
//	  password: admin
//	  timeout: 30s
//	index:
//	  name: simple
//	load:
//	  batches: 1000
//	  batchSize: 1000
//	query:
//	  iterations: 1000
//	  variants:
//	    - name: onetwogram
//	      field: Name.onetwogram
//	    - name: basic
//	      field: Name.basic
type BenchConfig struct {
	// Engine selects the banner label: "elasticsearch" or "opensearch"
	Engine string `json:"engine" yaml:"engine"`

	// Connection to the search engine
	Connection ConnectionConfig `json:"connection" yaml:"connection"`

	// Index is the benchmark index
	Index IndexConfig `json:"index" yaml:"index"`

	// Load controls how the index is populated
	Load LoadSettings `json:"load" yaml:"load"`

	// Query controls the benchmark loop
	Query QuerySettings `json:"query" yaml:"query"`

	// Resources overrides the embedded name lists and index schema
	Resources ResourcesConfig `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Output controls console rendering
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`
}

// ConnectionConfig contains HTTP settings for the engine.
type ConnectionConfig struct {
	// URL is the engine base URL
	URL string `json:"url" yaml:"url"`

	// Username for basic auth (empty disables auth)
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Password for basic auth
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Timeout is the per-request HTTP timeout
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// IndexConfig names the index under test.
type IndexConfig struct {
	Name string `json:"name" yaml:"name"`
}

// LoadSettings controls document generation and bulk loading.
type LoadSettings struct {
	// Batches is the number of bulk requests
	Batches int `json:"batches" yaml:"batches"`

	// BatchSize is the number of documents per bulk request
	BatchSize int `json:"batchSize" yaml:"batchSize"`

	// Seed for the generation-phase name sequence
	Seed int64 `json:"seed" yaml:"seed"`
}

// QuerySettings controls the query benchmark.
type QuerySettings struct {
	// Iterations is the number of rounds; each round runs every variant once
	Iterations int `json:"iterations" yaml:"iterations"`

	// Seed for the query-phase name sequence
	Seed int64 `json:"seed" yaml:"seed"`

	// PageSize caps the number of hits returned per search
	PageSize int `json:"pageSize" yaml:"pageSize"`

	// MinimumShouldMatch is passed through to the match query (e.g. "75%")
	MinimumShouldMatch string `json:"minimumShouldMatch" yaml:"minimumShouldMatch"`

	// LatencySource is "took" (engine-reported) or "roundtrip" (client-observed)
	LatencySource string `json:"latencySource,omitempty" yaml:"latencySource,omitempty"`

	// Variants are queried in the listed order within every round
	Variants []VariantConfig `json:"variants" yaml:"variants"`
}

// VariantConfig is one competing query strategy.
type VariantConfig struct {
	Name  string `json:"name" yaml:"name"`
	Field string `json:"field" yaml:"field"`
}

// ResourcesConfig points at replacement resource files.
type ResourcesConfig struct {
	// Dir holds firstNames.txt, lastNames.txt, settings.yaml and simpleMapping.yaml.
	// Files missing from Dir fall back to the embedded defaults.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// OutputConfig controls console output.
type OutputConfig struct {
	// ProgressEvery prints a progress mark every N iterations
	ProgressEvery int `json:"progressEvery,omitempty" yaml:"progressEvery,omitempty"`

	// Quiet suppresses banners and progress; only the report is printed
	Quiet bool `json:"quiet,omitempty" yaml:"quiet,omitempty"`

	// JSON prints the report as JSON
	JSON bool `json:"json,omitempty" yaml:"json,omitempty"`

	// NoColor disables ANSI colors
	NoColor bool `json:"noColor,omitempty" yaml:"noColor,omitempty"`

	// MetricsAddr serves Prometheus metrics while the run is in progress
	MetricsAddr string `json:"metricsAddr,omitempty" yaml:"metricsAddr,omitempty"`
}

// DefaultConfig returns the configuration of the reference benchmark:
// one million documents in index "simple" and 1000 rounds of the
// onetwogram/basic comparison.
func DefaultConfig() *BenchConfig {
	return &BenchConfig{
		Engine: EngineElasticsearch,
		Connection: ConnectionConfig{
			URL:      "http://localhost:9200",
			Username: "user",
			Password: "test-user-password",
			Timeout:  Duration(30 * time.Second),
		},
		Index: IndexConfig{Name: "simple"},
		Load: LoadSettings{
			Batches:   1000,
			BatchSize: 1000,
			Seed:      1,
		},
		Query: QuerySettings{
			Iterations:         1000,
			Seed:               2,
			PageSize:           100,
			MinimumShouldMatch: "75%",
			LatencySource:      "took",
			Variants: []VariantConfig{
				{Name: "onetwogram", Field: "Name.onetwogram"},
				{Name: "basic", Field: "Name.basic"},
			},
		},
		Output: OutputConfig{ProgressEvery: 50},
	}
}

// TotalDocuments returns the number of documents the load phase writes.
func (c *BenchConfig) TotalDocuments() int {
	return c.Load.Batches * c.Load.BatchSize
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
